package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/pagegrader/internal/checks"
	"github.com/hamed0406/pagegrader/internal/document"
	"github.com/hamed0406/pagegrader/internal/domain"
	"github.com/hamed0406/pagegrader/internal/grader"
	apimw "github.com/hamed0406/pagegrader/internal/httpapi/middleware"
	"github.com/hamed0406/pagegrader/internal/notify"
	"github.com/hamed0406/pagegrader/internal/repo"
)

const maxPayloadBytes = 10 << 20

// Fetcher is the part of document.Fetcher the server needs.
type Fetcher interface {
	FetchDocument(ctx context.Context, rawURL string) (*document.FetchResult, error)
}

type Server struct {
	Logger   *zap.Logger
	Runs     repo.RunStore
	Fetcher  Fetcher
	Notifier notify.Notifier // nil disables notifications
}

func NewServer(l *zap.Logger, runs repo.RunStore, f Fetcher, n notify.Notifier) *Server {
	return &Server{Logger: l, Runs: runs, Fetcher: f, Notifier: n}
}

type RouterOptions struct {
	Keys           apimw.Keys
	AllowedOrigins []string // empty allows all
	PublicRPM      int
	PublicBurst    int
}

func (s *Server) Router(opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	if len(opts.AllowedOrigins) == 0 {
		r.Use(cors.AllowAll().Handler)
	} else {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type", "X-API-Key"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(apimw.RateLimit(opts.PublicRPM, opts.PublicBurst))

		r.With(apimw.RequireAdmin(opts.Keys)).Post("/grade", s.handleGrade)

		r.Group(func(r chi.Router) {
			r.Use(apimw.RequireAny(opts.Keys))
			r.Get("/runs", s.handleListRuns)
			r.Get("/runs/{id}", s.handleGetRun)
		})
	})

	return r
}

type gradePayload struct {
	URL    string   `json:"url"`
	HTML   string   `json:"html"`
	Checks []string `json:"checks"`
}

func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	var p gradePayload
	r.Body = http.MaxBytesReader(w, r.Body, maxPayloadBytes)
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad payload")
		return
	}
	if (p.URL == "") == (p.HTML == "") {
		writeError(w, http.StatusBadRequest, "exactly one of url or html is required")
		return
	}
	if len(p.Checks) == 0 {
		writeError(w, http.StatusBadRequest, "checks must not be empty")
		return
	}

	run := &domain.Run{Kind: domain.SourceInline, Checks: checks.Normalize(p.Checks)}

	var doc *goquery.Document
	if p.URL != "" {
		target, err := document.NormalizeURL(p.URL)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		res, err := s.Fetcher.FetchDocument(r.Context(), target)
		if err != nil {
			s.Logger.Warn("grade_fetch_failed", zap.String("url", target), zap.Error(err))
			writeError(w, http.StatusBadGateway, "fetch failed")
			return
		}
		doc = res.Doc
		run.Kind, run.Source = domain.SourceURL, target
		run.StatusCode, run.LatencyMS = res.StatusCode, res.LatencyMS
	} else {
		var err error
		if doc, err = document.Parse(strings.NewReader(p.HTML)); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	report, err := grader.Evaluate(doc, run.Checks)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	run.Report = report
	run.Missing = report.Missing()
	if run.Missing == nil {
		run.Missing = []string{}
	}
	run.CheckedAt = time.Now().UTC()

	if err := s.Runs.Add(r.Context(), run); err != nil {
		writeError(w, http.StatusInternalServerError, "could not store run")
		return
	}

	s.Logger.Info("grade_run",
		zap.String("id", string(run.ID)),
		zap.String("kind", string(run.Kind)),
		zap.String("source", run.Source),
		zap.Int("selectors", len(run.Checks)),
		zap.Int("missing", len(run.Missing)),
	)
	if !run.Passed() {
		s.notify(r.Context(), *run)
	}

	writeJSON(w, http.StatusCreated, run)
}

func (s *Server) notify(ctx context.Context, run domain.Run) {
	if s.Notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	title, text := notify.RunSummary(run)
	if err := s.Notifier.Send(ctx, title, text); err != nil {
		s.Logger.Warn("notify_failed", zap.String("id", string(run.ID)), zap.Error(err))
	}
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.Runs.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list error")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.Runs.Get(r.Context(), domain.RunID(chi.URLParam(r, "id")))
	if errors.Is(err, repo.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "get error")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
