package console

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/follysitou/sygpress-console/internal/api"
	"github.com/follysitou/sygpress-console/internal/notify"
	"github.com/follysitou/sygpress-console/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// templateSet holds one parsed template per page, each sharing the layout.
type templateSet struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"money":       formatMoney,
	"statusLabel": func(s api.ProcessingStatus) string { return s.Label() },
	"shortDate":   shortDate,
	"add":         func(a, b int) int { return a + b },
	"seq":         pageSeq,
}

func parseTemplates() (*templateSet, error) {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}

	set := &templateSet{pages: make(map[string]*template.Template)}
	for _, e := range entries {
		name := e.Name()
		if name == "layout.html" {
			continue
		}
		tmpl, err := template.New("layout.html").Funcs(templateFuncs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		set.pages[strings.TrimSuffix(name, ".html")] = tmpl
	}
	return set, nil
}

// viewData is what every page template receives.
type viewData struct {
	Title     string
	Session   *session.Session
	IsAdmin   bool
	Toasts    []notify.Toast
	Errors    ValidationErrors
	Form      map[string]string
	ReturnURL string
	Data      any
}

func (s *Server) view(title string) viewData {
	v := viewData{Title: title, Toasts: s.toasts.Drain(), Form: map[string]string{}}
	if sess, ok := s.store.Current(); ok {
		v.Session = &sess
		v.IsAdmin = sess.Role == session.RoleAdmin
	}
	return v
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, page string, v viewData) {
	tmpl, ok := s.templates.pages[page]
	if !ok {
		s.log.WithContext(r.Context()).Error(fmt.Sprintf("unknown page template %q", page))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout.html", v); err != nil {
		s.log.WithContext(r.Context()).WithError(err).Error("render page " + page)
	}
}

// formatMoney renders whole FCFA with thousands grouping.
func formatMoney(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(digits[i : i+3])
	}

	out := b.String() + " FCFA"
	if neg {
		return "-" + out
	}
	return out
}

// shortDate trims an ISO timestamp to its date part for list columns.
func shortDate(iso string) string {
	if len(iso) >= 10 {
		if _, err := time.Parse("2006-01-02", iso[:10]); err == nil {
			return iso[:10]
		}
	}
	return iso
}

// pageSeq yields the page numbers to show in a pager, zero-based.
func pageSeq(totalPages int) []int {
	if totalPages < 1 {
		return nil
	}
	out := make([]int, totalPages)
	for i := range out {
		out[i] = i
	}
	return out
}
