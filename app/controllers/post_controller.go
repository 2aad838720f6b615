package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"soriblog/app/auth"
	"soriblog/app/models"
	"soriblog/app/services"
)

const msgLoginToComment = "You need to log in or register to comment."

// PostController handles HTTP requests for blog posts and their comments
type PostController struct {
	base
	posts    *services.PostService
	comments *services.CommentService
}

// NewPostController creates a new PostController
func NewPostController(render *Renderer, posts *services.PostService, comments *services.CommentService, log *logrus.Logger) *PostController {
	return &PostController{base: base{render: render, log: log}, posts: posts, comments: comments}
}

// Index handles listing all posts
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.posts.ListPosts(r.Context())
	if err != nil {
		pc.handleServiceError(w, r, err)
		return
	}
	pc.render.Render(w, r, http.StatusOK, "index", Page{Posts: posts})
}

// Show handles displaying a single post with its comment thread
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	pc.showPost(w, r, http.StatusOK, nil, nil)
}

// Comment adds a comment from the logged-in user and re-renders the post
func (pc *PostController) Comment(w http.ResponseWriter, r *http.Request) {
	if !auth.FromContext(r.Context()).Authenticated() {
		setFlash(w, msgLoginToComment)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	id, err := postID(r)
	if err != nil {
		pc.handleServiceError(w, r, err)
		return
	}

	var form commentForm
	values, err := bind(r, &form)
	if err == nil {
		err = validate.Struct(form)
	}
	if err != nil {
		pc.showPost(w, r, http.StatusBadRequest, values, formErrors(err))
		return
	}

	_, err = pc.comments.AddComment(r.Context(), auth.FromContext(r.Context()), id, form.Body)
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		setFlash(w, msgLoginToComment)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	case errors.Is(err, services.ErrValidation):
		pc.showPost(w, r, http.StatusBadRequest, values, map[string]string{"body": "This field is required."})
		return
	case err != nil:
		pc.handleServiceError(w, r, err)
		return
	}

	pc.showPost(w, r, http.StatusOK, nil, nil)
}

func (pc *PostController) showPost(w http.ResponseWriter, r *http.Request, status int, form, errs map[string]string) {
	id, err := postID(r)
	if err != nil {
		pc.handleServiceError(w, r, err)
		return
	}
	post, err := pc.posts.GetPost(r.Context(), id)
	if err != nil {
		pc.handleServiceError(w, r, err)
		return
	}
	pc.render.Render(w, r, status, "post", Page{Title: post.Title, Post: post, Form: form, Errors: errs})
}

// New displays the form for creating a new post
func (pc *PostController) New(w http.ResponseWriter, r *http.Request) {
	pc.render.Render(w, r, http.StatusOK, "make-post", Page{
		Title:   "New Post",
		Heading: "Create a Post",
		Action:  "/add_new_post",
	})
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	page := Page{Title: "New Post", Heading: "Create a Post", Action: "/add_new_post"}

	var form postForm
	values, err := bind(r, &form)
	if err == nil {
		err = validate.Struct(form)
	}
	if err != nil {
		page.Form, page.Errors = values, formErrors(err)
		pc.render.Render(w, r, http.StatusBadRequest, "make-post", page)
		return
	}

	_, err = pc.posts.CreatePost(r.Context(), auth.FromContext(r.Context()), form.input())
	if pc.postFormError(w, r, err, page, values) {
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// EditForm displays the edit form filled with the post's current values
func (pc *PostController) EditForm(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		pc.handleServiceError(w, r, err)
		return
	}
	post, err := pc.posts.GetPost(r.Context(), id)
	if err != nil {
		pc.handleServiceError(w, r, err)
		return
	}

	pc.render.Render(w, r, http.StatusOK, "make-post", Page{
		Title:   "Edit Post",
		Heading: "Edit Post",
		Action:  editAction(id),
		Post:    post,
		Form:    postValues(post),
	})
}

// Edit overlays the submitted fields on an existing post
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		pc.handleServiceError(w, r, err)
		return
	}
	page := Page{Title: "Edit Post", Heading: "Edit Post", Action: editAction(id)}

	var form postForm
	values, err := bind(r, &form)
	if err == nil {
		err = validate.Struct(form)
	}
	if err != nil {
		page.Form, page.Errors = values, formErrors(err)
		pc.render.Render(w, r, http.StatusBadRequest, "make-post", page)
		return
	}

	_, err = pc.posts.UpdatePost(r.Context(), auth.FromContext(r.Context()), id, form.input())
	if pc.postFormError(w, r, err, page, values) {
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Delete handles deleting a post and its comments
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		pc.handleServiceError(w, r, err)
		return
	}
	if err := pc.posts.DeletePost(r.Context(), auth.FromContext(r.Context()), id); err != nil {
		pc.handleServiceError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// postFormError renders the outcome of a failed create or edit and reports
// whether a response was written.
func (pc *PostController) postFormError(w http.ResponseWriter, r *http.Request, err error, page Page, values map[string]string) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, services.ErrDuplicateTitle):
		page.Form = values
		page.Errors = map[string]string{"title": "A post with this title already exists."}
		pc.render.Render(w, r, http.StatusConflict, "make-post", page)
	case errors.Is(err, services.ErrValidation):
		page.Form, page.Errors = values, rejected()
		pc.render.Render(w, r, http.StatusBadRequest, "make-post", page)
	default:
		pc.handleServiceError(w, r, err)
	}
	return true
}

func (f postForm) input() services.PostInput {
	return services.PostInput{Title: f.Title, Subtitle: f.Subtitle, Body: f.Body, ImgURL: f.ImgURL}
}

func postValues(p *models.Post) map[string]string {
	return map[string]string{
		"title":    p.Title,
		"subtitle": p.Subtitle,
		"img_url":  p.ImgURL,
		"body":     p.Body,
	}
}

func editAction(id int) string {
	return "/edit-post/" + strconv.Itoa(id)
}
