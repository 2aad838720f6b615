package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"soriblog/app/auth"
	"soriblog/app/config"
	"soriblog/app/controllers"
	"soriblog/app/notify"
	"soriblog/app/repositories"
	"soriblog/app/routes"
	"soriblog/app/services"
	"soriblog/app/sessions"
)

const shutdownTimeout = 10 * time.Second

// App holds the assembled blog and everything that must be closed with it.
type App struct {
	Config   *config.Config
	Log      *logrus.Logger
	DB       *gorm.DB
	Sessions *sessions.Store
	Server   *http.Server
}

// NewLogger builds the process logger: JSON in production, text otherwise.
func NewLogger(cfg *config.Config, out io.Writer) *logrus.Logger {
	log := logrus.New()
	if out == nil {
		out = os.Stdout
	}
	log.SetOutput(out)
	if cfg.Production() {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// NewApp opens the stores and wires services, controllers and routes.
func NewApp(cfg *config.Config, log *logrus.Logger) (*App, error) {
	db, err := repositories.Open(cfg.DBPath, log)
	if err != nil {
		return nil, err
	}
	log.WithField("path", cfg.DBPath).Info("Database ready")

	store, err := sessions.Open(cfg.SessionDir, cfg.SessionTTL, log)
	if err != nil {
		repositories.Close(db)
		return nil, err
	}
	log.WithField("dir", cfg.SessionDir).Info("Session store ready")

	mailer := notify.NewMailer(notify.MailerConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.MailUser,
		Password: cfg.MailPassword,
	}, log)
	if !cfg.MailConfigured() {
		log.Warn("EMAIL or PASSWORD is not set; contact messages will not be delivered")
	}

	users := repositories.NewGormUserRepository(db)
	posts := repositories.NewGormPostRepository(db)
	comments := repositories.NewGormCommentRepository(db)
	policy := auth.AdminPolicy{AdminID: cfg.AdminID}

	router, err := routes.SetupRoutes(routes.Config{
		Log:      log,
		Auth:     services.NewAuthService(users, store, log),
		Posts:    services.NewPostService(posts, comments, policy, log),
		Comments: services.NewCommentService(comments, posts, policy, log),
		Contact:  services.NewContactService(mailer, cfg.SiteName, cfg.ContactRecipient, log),
		Policy:   policy,
		Cookie: controllers.CookieConfig{
			Name:   cfg.SessionCookie,
			Secure: cfg.CookieSecure,
			TTL:    cfg.SessionTTL,
		},
		SiteName:  cfg.SiteName,
		StaticDir: cfg.StaticDir,
	})
	if err != nil {
		store.Close()
		repositories.Close(db)
		return nil, fmt.Errorf("failed to set up routes: %w", err)
	}

	return &App{
		Config:   cfg,
		Log:      log,
		DB:       db,
		Sessions: store,
		Server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}, nil
}

// Run listens on the configured address until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve answers requests on ln and shuts down gracefully once ctx is done.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		a.Log.WithField("addr", ln.Addr().String()).Info("HTTP server listening")
		errCh <- a.Server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.Log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases the session store and the database.
func (a *App) Close() error {
	var errs []error
	if err := a.Sessions.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := repositories.Close(a.DB); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
