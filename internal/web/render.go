package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"fyyur/internal/flash"
	"fyyur/internal/logger"
)

//go:embed templates
var templateFS embed.FS

// PageData is what every page template receives.
type PageData struct {
	Title        string
	Flashes      []flash.Message
	SearchAction string
	Data         interface{}
}

type Renderer struct {
	pages  map[string]*template.Template
	Flash  *flash.Manager
	Logger *logger.Logger
}

// NewRenderer parses every page together with the layout and partials.
func NewRenderer(fm *flash.Manager, log *logger.Logger) (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("list page templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".html")
		t, err := template.New(name).
			Funcs(Funcs()).
			ParseFS(templateFS, "templates/layout.html", "templates/partials/*.html", file)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages, Flash: fm, Logger: log}, nil
}

// HTML renders page inside the layout. Pending flash messages are consumed.
// The page is rendered to a buffer first so a template error still yields
// a clean 500.
func (rd *Renderer) HTML(w http.ResponseWriter, r *http.Request, status int, page, title string, data interface{}) {
	t, ok := rd.pages[page]
	if !ok {
		rd.Logger.Error("RENDER", "Unknown page template: "+page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	pd := PageData{
		Title:        title,
		SearchAction: searchAction(r.URL.Path),
		Data:         data,
	}
	if rd.Flash != nil {
		pd.Flashes = rd.Flash.Take(r.Context())
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", pd); err != nil {
		rd.Logger.Error("RENDER", fmt.Sprintf("Failed to render %s: %v", page, err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Redirect sends the browser to url with 303 so a POST is followed by a GET.
func (rd *Renderer) Redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func searchAction(p string) string {
	if strings.HasPrefix(p, "/artists") {
		return "/artists/search"
	}
	return "/venues/search"
}
