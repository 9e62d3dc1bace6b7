package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"inkwell/app/forms"
	"inkwell/app/services"
	"inkwell/app/views"
)

// CommentController handles comment submissions on the post detail page
type CommentController struct {
	base
	postService    *services.PostService
	commentService *services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(posts *services.PostService, comments *services.CommentService, renderer *views.Renderer, logger *zap.Logger) *CommentController {
	return &CommentController{
		base:           base{views: renderer, logger: logger},
		postService:    posts,
		commentService: comments,
	}
}

// Create stores a comment on the post and renders its detail page again,
// either with the new comment or with the form errors.
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	post, err := cc.postService.GetBySlug(mux.Vars(r)["slug"])
	if err != nil {
		cc.fail(w, r, err)
		return
	}

	form, err := decodeForm(r, forms.NewCommentForm)
	if err != nil {
		cc.sendError(w, r, "Invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}

	comment, err := cc.commentService.AddComment(post, form)
	verrs, invalid := forms.AsValidationErrors(err)
	if err != nil && !invalid {
		cc.serverError(w, r, err)
		return
	}

	page, err := detailPage(cc.postService, cc.commentService, post)
	if err != nil {
		cc.serverError(w, r, err)
		return
	}
	if invalid {
		page.Form = form
		page.Errors = verrs
	} else {
		cc.logger.Info("comment added",
			zap.Int("post_id", post.ID),
			zap.Int("comment_id", comment.ID),
		)
		page.NewComment = comment
		page.Form = &forms.CommentForm{}
	}
	cc.render(w, r, views.PageDetail, page)
}
