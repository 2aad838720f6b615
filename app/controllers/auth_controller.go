package controllers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"soriblog/app/services"
)

const (
	msgAlreadyRegistered  = "You've already signed up with that email, log in instead!"
	msgInvalidCredentials = "Invalid email or password."
)

// AuthController handles registration, login and logout
type AuthController struct {
	base
	auth   *services.AuthService
	cookie CookieConfig
}

// NewAuthController creates a new AuthController
func NewAuthController(render *Renderer, auth *services.AuthService, cookie CookieConfig, log *logrus.Logger) *AuthController {
	return &AuthController{base: base{render: render, log: log}, auth: auth, cookie: cookie}
}

// RegisterForm displays the sign-up form
func (ac *AuthController) RegisterForm(w http.ResponseWriter, r *http.Request) {
	ac.render.Render(w, r, http.StatusOK, "register", Page{Title: "Register"})
}

// Register creates the account, logs it in and goes home
func (ac *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var form registerForm
	values, err := bind(r, &form)
	if err == nil {
		err = validate.Struct(form)
	}
	if err != nil {
		ac.render.Render(w, r, http.StatusBadRequest, "register", Page{Title: "Register", Form: values, Errors: formErrors(err)})
		return
	}

	sess, err := ac.auth.Register(r.Context(), form.Name, form.Email, form.Password)
	switch {
	case errors.Is(err, services.ErrDuplicateAccount):
		setFlash(w, msgAlreadyRegistered)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	case errors.Is(err, services.ErrValidation):
		ac.render.Render(w, r, http.StatusBadRequest, "register", Page{Title: "Register", Form: values, Errors: rejected()})
		return
	case err != nil:
		ac.handleServiceError(w, r, err)
		return
	}

	setSessionCookie(w, ac.cookie, sess.Token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// LoginForm displays the login form
func (ac *AuthController) LoginForm(w http.ResponseWriter, r *http.Request) {
	ac.render.Render(w, r, http.StatusOK, "login", Page{Title: "Log In"})
}

// Login starts a session for valid credentials
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	values, err := bind(r, &form)
	if err == nil {
		err = validate.Struct(form)
	}
	if err != nil {
		ac.render.Render(w, r, http.StatusBadRequest, "login", Page{Title: "Log In", Form: values, Errors: formErrors(err)})
		return
	}

	sess, err := ac.auth.Login(r.Context(), form.Email, form.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		ac.render.Render(w, r, http.StatusUnauthorized, "login", Page{
			Title:  "Log In",
			Form:   values,
			Errors: map[string]string{"form": msgInvalidCredentials},
		})
		return
	}
	if err != nil {
		ac.handleServiceError(w, r, err)
		return
	}

	setSessionCookie(w, ac.cookie, sess.Token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout ends the session and expires the cookie
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(ac.cookie.Name); err == nil {
		if err := ac.auth.Logout(r.Context(), c.Value); err != nil {
			ac.log.WithError(err).Error("Failed to end session")
		}
	}
	clearSessionCookie(w, ac.cookie)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
