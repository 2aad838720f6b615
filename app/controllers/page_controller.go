package controllers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"soriblog/app/notify"
	"soriblog/app/services"
)

// PageController serves the static pages and the contact form
type PageController struct {
	base
	contact *services.ContactService
}

func NewPageController(render *Renderer, contact *services.ContactService, log *logrus.Logger) *PageController {
	return &PageController{base: base{render: render, log: log}, contact: contact}
}

func (pc *PageController) About(w http.ResponseWriter, r *http.Request) {
	pc.render.Render(w, r, http.StatusOK, "about", Page{Title: "About"})
}

func (pc *PageController) Contact(w http.ResponseWriter, r *http.Request) {
	pc.render.Render(w, r, http.StatusOK, "contact", Page{Title: "Contact", Heading: "Contact Me"})
}

// Message forwards the contact form. The visitor sees the same confirmation
// whether or not the mail went out.
func (pc *PageController) Message(w http.ResponseWriter, r *http.Request) {
	var form contactForm
	values, err := bind(r, &form)
	if err == nil {
		err = validate.Struct(form)
	}
	if err != nil {
		pc.render.Render(w, r, http.StatusBadRequest, "contact", Page{
			Title:   "Contact",
			Heading: "Contact Me",
			Form:    values,
			Errors:  formErrors(err),
		})
		return
	}

	pc.contact.Submit(r.Context(), notify.ContactMessage{
		Name:  form.Name,
		Email: form.Email,
		Phone: form.Phone,
		Body:  form.Message,
	})

	pc.render.Render(w, r, http.StatusOK, "contact", Page{
		Title:   "Contact",
		Heading: "Email Sent",
		Message: "Successfully sent your message.",
	})
}

// Unauthorized answers 401 for identities the policy turns away.
func (pc *PageController) Unauthorized(w http.ResponseWriter, r *http.Request) {
	pc.render.Render(w, r, http.StatusUnauthorized, "unauthorized", Page{Title: "Unauthorized"})
}

func (pc *PageController) NotFound(w http.ResponseWriter, r *http.Request) {
	pc.render.Render(w, r, http.StatusNotFound, "not_found", Page{Title: "Not Found"})
}
