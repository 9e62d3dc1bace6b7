// Package routes wires the blog's handlers into a gorilla/mux router.
package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"inkwell/app/config"
	"inkwell/app/controllers"
	"inkwell/app/mailer"
	"inkwell/app/middleware"
	"inkwell/app/repositories"
	"inkwell/app/services"
	"inkwell/app/views"
)

// Dependencies are the collaborators the router hands to its controllers.
type Dependencies struct {
	Config *config.Config
	Store  *repositories.Store
	Mailer mailer.Mailer
	Views  *views.Renderer
	Logger *zap.Logger
	// Registry collects the HTTP metrics served on /metrics. A fresh registry
	// is used when nil.
	Registry *prometheus.Registry
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(deps Dependencies) *mux.Router {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	postService := services.NewPostService(deps.Store.Posts, deps.Store.Tags, deps.Store.Users, cfg.Blog)
	commentService := services.NewCommentService(deps.Store.Comments)
	shareService := services.NewShareService(deps.Mailer, cfg.Mail.From)

	postController := controllers.NewPostController(postService, commentService, shareService, deps.Views, cfg.Site.BaseURL, logger)
	commentController := controllers.NewCommentController(postService, commentService, deps.Views, logger)

	router := mux.NewRouter().StrictSlash(true)

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.NewMetrics(reg).Middleware)
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.ContentTypeJSON)

	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", deps.Views.Static())).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.HandleFunc("/healthz", healthz).Methods(http.MethodGet)

	// The API mirror answers in JSON; it is registered first so that
	// /api/ is never taken for a post slug.
	api := router.PathPrefix("/api").Subrouter()
	blogRoutes(api, postController, commentController)
	blogRoutes(router, postController, commentController)

	return router
}

func blogRoutes(r *mux.Router, posts *controllers.PostController, comments *controllers.CommentController) {
	r.HandleFunc("/", posts.List).Methods(http.MethodGet)
	r.HandleFunc("/tag/{tag}/", posts.List).Methods(http.MethodGet)
	r.HandleFunc("/search/post/", posts.Search).Methods(http.MethodGet)
	r.HandleFunc("/{id:[0-9]+}/share/", posts.Share).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/{slug}/", posts.Detail).Methods(http.MethodGet)
	r.HandleFunc("/{slug}/", comments.Create).Methods(http.MethodPost)
}

func healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}` + "\n"))
}
