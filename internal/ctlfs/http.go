package ctlfs

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"codeberg.org/mutker/clkctl/internal/errors"
	"codeberg.org/mutker/clkctl/internal/logger"
)

const (
	treePrefix = "/clk/"

	maxWriteBody      = 64
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Handler returns the HTTP front for the attribute tree: GET reads an
// attribute, PUT or POST writes one, and /metrics serves the prometheus
// registry.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(treePrefix, s.serveAttr)
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	return mux
}

func (s *Server) serveAttr(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, treePrefix), "/"), "/")

	var clock, attrName string
	switch len(parts) {
	case 1:
		attrName = parts[0]
	case 2:
		clock, attrName = parts[0], parts[1]
	default:
		http.NotFound(w, r)
		return
	}

	a, ok := s.lookup(clock, attrName)
	if !ok {
		http.NotFound(w, r)
		return
	}

	s.metrics.requests.WithLabelValues(attrName, r.Method).Inc()

	switch r.Method {
	case http.MethodGet:
		s.handleRead(w, a)
	case http.MethodPut, http.MethodPost:
		s.handleWrite(w, r, a)
	default:
		w.Header().Set("Allow", "GET, PUT, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleRead(w http.ResponseWriter, a *attribute) {
	value, err := a.read()
	if err != nil {
		http.Error(w, errorBody(err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "%s\n", value)
}

func (s *Server) handleWrite(w http.ResponseWriter, r *http.Request, a *attribute) {
	if a.write == nil {
		w.Header().Set("Allow", "GET")
		http.Error(w, "read-only attribute", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWriteBody))
	if err != nil {
		http.Error(w, "read body failed", http.StatusBadRequest)
		return
	}

	if err := a.write(strings.TrimSpace(string(body))); err != nil {
		status := http.StatusInternalServerError
		if errors.HasCode(err, ErrInvalidValue) {
			status = http.StatusBadRequest
		}
		http.Error(w, errorBody(err), status)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func errorBody(err error) string {
	var coded errors.Error
	if errors.As(err, &coded) {
		return string(coded.Code())
	}
	return err.Error()
}

// ListenAndServe mounts the HTTP front on addr and serves until ctx is
// canceled. A listener that cannot be created is resource exhaustion, the
// same failure class as the root container.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	errFactory := errors.New()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errFactory.Wrap(ErrResourceExhausted, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Control-plane shutdown failed")
		}
	}()

	logger.Info().Msgf("Control plane listening on %s", ln.Addr())

	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
