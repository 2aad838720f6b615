package controllers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"soriblog/app/auth"
	"soriblog/app/models"
)

var pages = []string{
	"index",
	"post",
	"make-post",
	"register",
	"login",
	"about",
	"contact",
	"unauthorized",
	"not_found",
	"error",
}

// Page is the data every view receives.
type Page struct {
	Title    string
	Heading  string
	SiteName string
	Year     int
	Identity auth.Identity
	IsAdmin  bool
	Flash    string
	Action   string
	Message  string
	Posts    []*models.Post
	Post     *models.Post
	Form     map[string]string
	Errors   map[string]string
}

// Renderer executes the layout around one page template.
type Renderer struct {
	templates map[string]*template.Template
	siteName  string
	policy    auth.Policy
	log       *logrus.Logger
	now       func() time.Time
}

func NewRenderer(fsys fs.FS, siteName string, policy auth.Policy, log *logrus.Logger) (*Renderer, error) {
	templates, err := loadTemplates(fsys)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.New()
	}
	return &Renderer{
		templates: templates,
		siteName:  siteName,
		policy:    policy,
		log:       log,
		now:       time.Now,
	}, nil
}

// loadTemplates loads and parses all templates
func loadTemplates(fsys fs.FS) (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		// Post bodies are written by the admin in a rich-text editor.
		"safeHTML": func(s string) template.HTML { return template.HTML(s) },
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(fsys, "layout.html", name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = t
	}
	return templates, nil
}

// Render writes view with the given status. The flash message, if any, is
// consumed here.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, view string, page Page) {
	t, ok := rd.templates[view]
	if !ok {
		rd.log.WithField("view", view).Error("Unknown view")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	page.SiteName = rd.siteName
	page.Year = rd.now().Year()
	page.Identity = auth.FromContext(r.Context())
	page.IsAdmin = auth.IsAdmin(rd.policy, page.Identity)
	if page.Flash == "" {
		page.Flash = popFlash(w, r)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		rd.log.WithError(err).WithField("view", view).Error("Template error")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
