package dashboard

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/KaramelBytes/energymix-cli/internal/chart"
	"github.com/KaramelBytes/energymix-cli/internal/render"
)

// Options configures the dashboard server.
type Options struct {
	Builder *chart.Builder
	// Defaults for requests that do not set fraction, through or product.
	Fraction float64
	Through  int
	Product  string

	PageSize     int
	Format       render.Format
	Size         render.Size
	AssetsDir    string
	NotebookPath string
}

// Server serves the dashboard. It only reads the builder's table, so one
// Server may handle concurrent requests.
type Server struct {
	opt  Options
	tmpl *template.Template
}

// New creates a server.
func New(opt Options) (*Server, error) {
	if opt.Builder == nil || opt.Builder.Table == nil {
		return nil, errors.New("dashboard: no dataset loaded")
	}
	if opt.PageSize <= 0 {
		opt.PageSize = 20
	}
	if opt.Format == "" {
		opt.Format = render.PNG
	}
	if opt.Size.Width == 0 || opt.Size.Height == 0 {
		opt.Size = render.DefaultSize
	}
	if opt.Through == 0 {
		opt.Through = 2050
	}
	if opt.Product == "" {
		opt.Product = "Solar"
	}
	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Server{opt: opt, tmpl: tmpl}, nil
}

// Handler returns the routed, request-logging handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /tab/{page}", s.handlePage)
	mux.HandleFunc("GET /api/figures", s.handleFigureNames)
	mux.HandleFunc("GET /api/figures/{name}", s.handleFigure)
	mux.HandleFunc("GET /api/kpis", s.handleKPIs)
	mux.HandleFunc("GET /charts/{name}", s.handleChart)
	mux.HandleFunc("GET /export.xlsx", s.handleExport)
	if s.opt.AssetsDir != "" {
		mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(s.opt.AssetsDir))))
	}
	return logRequests(mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Printf("energymix dashboard starting on http://localhost%s", addr)
	log.Printf("Focus country: %s, %d records", s.opt.Builder.Focus, s.opt.Builder.Table.Len())

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Printf("Shutting down dashboard")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.RequestURI(), rec.status, time.Since(start).Round(time.Millisecond))
	})
}
