package routes

import (
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"soriblog/app/auth"
	"soriblog/app/controllers"
	"soriblog/app/middleware"
	"soriblog/app/services"
	"soriblog/app/views"
)

// Config carries everything the router needs.
type Config struct {
	Log       *logrus.Logger
	Auth      *services.AuthService
	Posts     *services.PostService
	Comments  *services.CommentService
	Contact   *services.ContactService
	Policy    auth.Policy
	Cookie    controllers.CookieConfig
	SiteName  string
	Templates fs.FS
	// StaticDir is served under /static/ when set.
	StaticDir string
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(cfg Config) (*mux.Router, error) {
	if cfg.Log == nil {
		cfg.Log = logrus.New()
	}
	if cfg.Templates == nil {
		cfg.Templates = views.FS()
	}

	render, err := controllers.NewRenderer(cfg.Templates, cfg.SiteName, cfg.Policy, cfg.Log)
	if err != nil {
		return nil, err
	}

	authController := controllers.NewAuthController(render, cfg.Auth, cfg.Cookie, cfg.Log)
	postController := controllers.NewPostController(render, cfg.Posts, cfg.Comments, cfg.Log)
	pageController := controllers.NewPageController(render, cfg.Contact, cfg.Log)

	identity := middleware.Identity(cfg.Auth, cfg.Cookie.Name, cfg.Log)

	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger(cfg.Log))
	router.Use(middleware.Recoverer(cfg.Log))
	router.Use(identity)

	// Admin routes check login first, then the policy, before any handler runs.
	denied := http.HandlerFunc(pageController.Unauthorized)
	admin := func(action auth.Action, h http.HandlerFunc) http.Handler {
		return middleware.RequireLogin(middleware.RequireCapability(cfg.Policy, action, denied)(h))
	}

	// Posts and comments
	router.HandleFunc("/", postController.Index).Methods("GET")
	router.HandleFunc("/post/{id:[0-9]+}", postController.Show).Methods("GET")
	router.HandleFunc("/post/{id:[0-9]+}", postController.Comment).Methods("POST")

	router.Handle("/add_new_post", admin(auth.CreatePost, postController.New)).Methods("GET")
	router.Handle("/add_new_post", admin(auth.CreatePost, postController.Create)).Methods("POST")
	router.Handle("/edit-post/{id:[0-9]+}", admin(auth.EditPost, postController.EditForm)).Methods("GET")
	router.Handle("/edit-post/{id:[0-9]+}", admin(auth.EditPost, postController.Edit)).Methods("POST")
	router.Handle("/delete/{id:[0-9]+}", admin(auth.DeletePost, postController.Delete)).Methods("GET")

	// Accounts
	router.HandleFunc("/register", authController.RegisterForm).Methods("GET")
	router.HandleFunc("/register", authController.Register).Methods("POST")
	router.HandleFunc("/login", authController.LoginForm).Methods("GET")
	router.HandleFunc("/login", authController.Login).Methods("POST")
	router.Handle("/logout", middleware.RequireLogin(http.HandlerFunc(authController.Logout))).Methods("GET")

	if cfg.StaticDir != "" {
		static := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		router.PathPrefix("/static/").Handler(static).Methods("GET", "HEAD")
	}

	// Pages
	router.HandleFunc("/about", pageController.About).Methods("GET")
	router.HandleFunc("/contact", pageController.Contact).Methods("GET", "POST")
	router.HandleFunc("/message", pageController.Message).Methods("POST")

	// Router middleware does not run for unmatched paths.
	router.NotFoundHandler = middleware.Logger(cfg.Log)(identity(http.HandlerFunc(pageController.NotFound)))

	return router, nil
}
