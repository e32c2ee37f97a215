// Package web serves the inbox digest page.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hal9000y/inbox-digest/internal/inbox"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

type controller interface {
	Snapshot() inbox.State
	Start(ctx context.Context) (<-chan inbox.State, bool)
	ToggleCard(i int) inbox.State
	ToggleFilters() inbox.State
	ToggleSample() inbox.State
	SetQuery(q string) inbox.State
	SetMaxResults(n int) (inbox.State, error)
}

type summaryConverter interface {
	SummaryMD(s string) string
}

type page struct {
	inbox.View
	Cards      []card
	Skeletons  []int
	EmptyTitle string
	EmptyHint  string
}

// Handler renders the page and applies the actions posted from it.
type Handler struct {
	ctrl controller
	cnv  summaryConverter
	loc  *time.Location
	tmpl *template.Template
	mux  *http.ServeMux
}

// NewHandler creates the page handler. Dates are shown in loc.
func NewHandler(ctrl controller, cnv summaryConverter, loc *time.Location) (*Handler, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/page.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("template.ParseFS failed: %w", err)
	}

	h := &Handler{
		ctrl: ctrl,
		cnv:  cnv,
		loc:  loc,
		tmpl: tmpl,
		mux:  http.NewServeMux(),
	}

	h.mux.HandleFunc("GET /{$}", h.page)
	h.mux.HandleFunc("POST /fetch", h.fetch)
	h.mux.HandleFunc("POST /filters/toggle", h.toggleFilters)
	h.mux.HandleFunc("POST /sample/toggle", h.toggleSample)
	h.mux.HandleFunc("POST /cards/{index}/toggle", h.toggleCard)

	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) page(w http.ResponseWriter, _ *http.Request) {
	v := h.ctrl.Snapshot().View()

	p := page{View: v}
	for i, e := range v.Emails {
		p.Cards = append(p.Cards, newCard(i, e, v.Expanded == i, h.cnv, h.loc))
	}
	if v.Loading {
		p.Skeletons = []int{1, 2, 3, 4}
	}
	if v.HasFetched {
		p.EmptyTitle = "No emails found"
		p.EmptyHint = "Try adjusting your filters or fetching more emails."
	} else {
		p.EmptyTitle = "No emails to summarize"
		p.EmptyHint = `Click the "Summarize Inbox" button to fetch your latest emails and get AI-powered summaries with action items and urgency tags.`
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, p); err != nil {
		log.Println(fmt.Errorf("tmpl.Execute failed: %w", err))
	}
}

func (h *Handler) fetch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Unable to parse form", http.StatusBadRequest)
		return
	}

	if r.PostForm.Has("query") {
		h.ctrl.SetQuery(strings.TrimSpace(r.PostForm.Get("query")))
	}
	if raw := r.PostForm.Get("max_results"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			if _, err := h.ctrl.SetMaxResults(n); err != nil {
				log.Println(fmt.Errorf("ctrl.SetMaxResults(%d) ignored: %w", n, err))
			}
		}
	}

	// The fetch outlives this request; the page polls until it completes.
	if _, ok := h.ctrl.Start(context.WithoutCancel(r.Context())); !ok {
		log.Println("Fetch already in progress, ignoring request")
	}

	backToPage(w, r)
}

func (h *Handler) toggleFilters(w http.ResponseWriter, r *http.Request) {
	h.ctrl.ToggleFilters()
	backToPage(w, r)
}

func (h *Handler) toggleSample(w http.ResponseWriter, r *http.Request) {
	h.ctrl.ToggleSample()
	backToPage(w, r)
}

func (h *Handler) toggleCard(w http.ResponseWriter, r *http.Request) {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || i < 0 {
		http.Error(w, "Invalid card index", http.StatusBadRequest)
		return
	}

	h.ctrl.ToggleCard(i)
	backToPage(w, r)
}

func backToPage(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
