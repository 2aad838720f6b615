package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"soriblog/app/services"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

type base struct {
	render *Renderer
	log    *logrus.Logger
}

// handleServiceError answers with the page or redirect matching err.
func (b *base) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	case errors.Is(err, services.ErrUnauthorized):
		b.render.Render(w, r, http.StatusUnauthorized, "unauthorized", Page{Title: "Unauthorized"})
	case errors.Is(err, services.ErrNotFound):
		b.render.Render(w, r, http.StatusNotFound, "not_found", Page{Title: "Not Found"})
	default:
		b.log.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("Request failed")
		b.render.Render(w, r, http.StatusInternalServerError, "error", Page{Title: "Error"})
	}
}

// postID reads the {id} route variable. Ids that do not fit an int cannot
// name a post.
func postID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, services.ErrNotFound
	}
	return id, nil
}

func setSessionCookie(w http.ResponseWriter, cfg CookieConfig, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
