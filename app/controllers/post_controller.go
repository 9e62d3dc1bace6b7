package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"inkwell/app/forms"
	"inkwell/app/models"
	"inkwell/app/services"
	"inkwell/app/views"
)

// PostController handles HTTP requests for posts
type PostController struct {
	base
	postService    *services.PostService
	commentService *services.CommentService
	shareService   *services.ShareService
	siteURL        string
}

// NewPostController creates a new PostController. siteURL is the public base
// URL used in shared links; when empty it is derived from each request.
func NewPostController(posts *services.PostService, comments *services.CommentService, shares *services.ShareService, renderer *views.Renderer, siteURL string, logger *zap.Logger) *PostController {
	return &PostController{
		base:           base{views: renderer, logger: logger},
		postService:    posts,
		commentService: comments,
		shareService:   shares,
		siteURL:        strings.TrimRight(siteURL, "/"),
	}
}

// List shows a page of published posts, optionally filtered by tag.
func (pc *PostController) List(w http.ResponseWriter, r *http.Request) {
	list, err := pc.postService.ListPublished(mux.Vars(r)["tag"], r.URL.Query().Get("page"))
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	if list.Posts == nil {
		list.Posts = []*models.Post{}
	}
	pc.render(w, r, views.PageList, views.ListPage{Posts: list.Posts, Page: list.Page, Tag: list.Tag})
}

// Detail shows a post with its comments, an empty comment form and similar posts.
func (pc *PostController) Detail(w http.ResponseWriter, r *http.Request) {
	post, err := pc.postService.GetBySlug(mux.Vars(r)["slug"])
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	page, err := detailPage(pc.postService, pc.commentService, post)
	if err != nil {
		pc.serverError(w, r, err)
		return
	}
	page.Form = &forms.CommentForm{}
	pc.render(w, r, views.PageDetail, page)
}

// Share shows the recommend-by-email form and sends the email on a valid POST.
func (pc *PostController) Share(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		pc.sendError(w, r, "Not found", http.StatusNotFound)
		return
	}
	post, err := pc.postService.GetPost(id)
	if err != nil {
		pc.fail(w, r, err)
		return
	}

	page := views.SharePage{Post: post, Form: &forms.ShareForm{}}
	if r.Method == http.MethodPost {
		form, err := decodeForm(r, forms.NewShareForm)
		if err != nil {
			pc.sendError(w, r, "Invalid form: "+err.Error(), http.StatusBadRequest)
			return
		}
		page.Form = form

		err = pc.shareService.Share(post, pc.absoluteURL(r, post), form)
		if verrs, ok := forms.AsValidationErrors(err); ok {
			page.Errors = verrs
		} else if err != nil {
			pc.serverError(w, r, err)
			return
		} else {
			page.Sent = true
		}
	}
	pc.render(w, r, views.PageShare, page)
}

// Search scores post titles against the query parameter once one is submitted.
func (pc *PostController) Search(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	page := views.SearchPage{Form: &forms.SearchForm{}, Results: []*models.SearchResult{}}

	if _, submitted := values["query"]; submitted {
		form := forms.NewSearchForm(values)
		page.Form = form
		if err := form.Validate(); err != nil {
			verrs, ok := forms.AsValidationErrors(err)
			if !ok {
				pc.serverError(w, r, err)
				return
			}
			page.Errors = verrs
		} else {
			results, err := pc.postService.Search(form.Query)
			if err != nil {
				pc.serverError(w, r, err)
				return
			}
			page.Query = form.Query
			if results != nil {
				page.Results = results
			}
		}
	}
	pc.render(w, r, views.PageSearch, page)
}

// absoluteURL builds the public link to post.
func (pc *PostController) absoluteURL(r *http.Request, post *models.Post) string {
	if pc.siteURL != "" {
		return pc.siteURL + post.URL()
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s%s", scheme, r.Host, post.URL())
}

// detailPage loads what the detail page shows around post. The caller sets the
// form and, after a submission, the new comment or errors.
func detailPage(posts *services.PostService, comments *services.CommentService, post *models.Post) (views.DetailPage, error) {
	active, err := comments.ActiveComments(post.ID)
	if err != nil {
		return views.DetailPage{}, err
	}
	similar, err := posts.SimilarPosts(post)
	if err != nil {
		return views.DetailPage{}, err
	}
	if active == nil {
		active = []*models.Comment{}
	}
	if similar == nil {
		similar = []*models.Post{}
	}
	return views.DetailPage{Post: post, Comments: active, Similar: similar}, nil
}
