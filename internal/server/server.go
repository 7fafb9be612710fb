package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/TobiSchelling/LookTrending/internal/autopilot"
	"github.com/TobiSchelling/LookTrending/internal/database"
	"github.com/TobiSchelling/LookTrending/internal/related"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var md = goldmark.New()

// Controller is the automation surface the web UI drives.
type Controller interface {
	State() autopilot.RunState
	Articles() []database.Article
	Article(id string) (database.Article, bool)
	Configured() error
	Toggle() bool
	ForceRun() bool
}

// Server is the HTTP server for the article feed and autopilot controls.
type Server struct {
	ctrl  Controller
	pages map[string]*template.Template
	mux   *http.ServeMux
}

// New creates a new Server.
func New(ctrl Controller) (*Server, error) {
	funcMap := template.FuncMap{
		"markdown":   renderMarkdown,
		"formatDate": formatDate,
		"clock":      formatClock,
		"imageURL":   imageURL,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}

	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// Each page gets its own clone so {{define "content"}} does not collide.
	pageNames := []string{"index.html", "article.html"}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		_, err = clone.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	s := &Server{ctrl: ctrl, pages: pages, mux: http.NewServeMux()}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/article/", s.handleArticle)
	s.mux.HandleFunc("/autopilot/toggle", s.handleToggle)
	s.mux.HandleFunc("/autopilot/run", s.handleRun)
	s.mux.HandleFunc("/api/state", s.handleAPIState)
	s.mux.HandleFunc("/api/articles", s.handleAPIArticles)
	s.mux.HandleFunc("/api/articles/", s.handleAPIArticle)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s.render(w, "index.html", s.pageData(r, map[string]any{
		"Articles": s.ctrl.Articles(),
	}))
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/article/")
	if id == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	article, ok := s.ctrl.Article(id)
	if !ok {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		s.render(w, "article.html", s.pageData(r, map[string]any{"ID": id}))
		return
	}

	s.render(w, "article.html", s.pageData(r, map[string]any{
		"Article": article,
		"Related": related.Rank(article, s.ctrl.Articles(), related.DefaultLimit),
	}))
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	s.ctrl.Toggle()
	http.Redirect(w, r, returnPath(r), http.StatusSeeOther)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	s.ctrl.ForceRun()
	http.Redirect(w, r, returnPath(r), http.StatusSeeOther)
}

func (s *Server) handleAPIState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

func (s *Server) handleAPIArticles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.Articles())
}

func (s *Server) handleAPIArticle(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/articles/")
	article, ok := s.ctrl.Article(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "article not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"article": article,
		"related": related.Rank(article, s.ctrl.Articles(), related.DefaultLimit),
	})
}

// pageData adds the state every page shows to data.
func (s *Server) pageData(r *http.Request, data map[string]any) map[string]any {
	data["State"] = s.ctrl.State()
	data["Path"] = r.URL.Path
	if err := s.ctrl.Configured(); err != nil {
		data["ConfigError"] = err.Error()
	}
	return data
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	tmpl, ok := s.pages[name]
	if !ok {
		log.Printf("Template %s not found", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// returnPath sends the browser back to the page a form was posted from.
func returnPath(r *http.Request) string {
	next := r.FormValue("next")
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/"
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}

// imageURL marks generated image references safe for src attributes. Only
// inline images and http(s) URLs pass.
func imageURL(s *string) template.URL {
	if s == nil {
		return ""
	}
	u := *s
	if strings.HasPrefix(u, "data:image/") || strings.HasPrefix(u, "https://") || strings.HasPrefix(u, "http://") {
		return template.URL(u) //nolint: gosec
	}
	return ""
}

func formatDate(t time.Time) string {
	return t.Local().Format("Jan 2, 2006")
}

func formatClock(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("15:04:05")
}

// Serve starts the HTTP server on the given port and shuts it down when ctx
// is cancelled.
func Serve(ctx context.Context, ctrl Controller, port int) error {
	srv, err := New(ctrl)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	httpSrv := &http.Server{Addr: addr, Handler: srv.Handler()}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening on http://%s", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
