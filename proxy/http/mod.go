// Package http implements the proxy server on top of net/http with a request
// id and an access log per request.
//
// Documentation Last Review: 16.10.2026
package http

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"go.dedis.ch/confidential"
	"golang.org/x/xerrors"
)

type key int

const (
	requestIDKey key = iota
)

// RequestIDHeader is the header carrying the request identifier.
const RequestIDHeader = "X-Request-Id"

const shutdownTimeout = 10 * time.Second

// HTTP is a proxy server.
//
// - implements proxy.Proxy
type HTTP struct {
	sync.Mutex

	mux        *http.ServeMux
	server     *http.Server
	ln         net.Listener
	logger     zerolog.Logger
	listenAddr string
	quit       chan struct{}
}

// NewHTTP creates a new proxy server that will listen on the address. An empty
// address binds a random free port on all interfaces.
func NewHTTP(listenAddr string) *HTTP {
	logger := confidential.Logger.With().Str("role", "http proxy").Logger()

	mux := http.NewServeMux()

	return &HTTP{
		mux: mux,
		server: &http.Server{
			Handler:           requestID(nextRequestID)(logging(logger)(mux)),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger:     logger,
		listenAddr: listenAddr,
		quit:       make(chan struct{}),
	}
}

// Listen implements proxy.Proxy. It blocks until Stop is called. It panics if
// the address cannot be bound.
func (h *HTTP) Listen() {
	ln, err := net.Listen("tcp", h.listenAddr)
	if err != nil {
		err = xerrors.Errorf("failed to create conn '%s': %v", h.listenAddr, err)
		h.logger.Error().Err(err).Send()
		panic(err.Error())
	}

	h.Lock()
	h.ln = ln
	h.Unlock()

	done := make(chan struct{})

	go func() {
		defer close(done)

		<-h.quit
		h.logger.Info().Msg("server is shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		h.server.SetKeepAlivesEnabled(false)

		err := h.server.Shutdown(ctx)
		if err != nil {
			h.logger.Err(err).Msg("failed to gracefully shutdown the server")
		}
	}()

	h.logger.Info().Stringer("addr", ln.Addr()).Msg("server is ready to handle requests")

	err = h.server.Serve(ln)
	if err != nil && err != http.ErrServerClosed {
		h.logger.Err(err).Msg("server failed")
	}

	<-done
	h.logger.Info().Msg("server stopped")
}

// Stop implements proxy.Proxy. It must be called once per Listen.
func (h *HTTP) Stop() {
	h.quit <- struct{}{}
}

// GetAddr implements proxy.Proxy.
func (h *HTTP) GetAddr() net.Addr {
	h.Lock()
	defer h.Unlock()

	if h.ln == nil {
		return nil
	}

	return h.ln.Addr()
}

// RegisterHandler implements proxy.Proxy.
func (h *HTTP) RegisterHandler(path string, handler func(http.ResponseWriter, *http.Request)) {
	h.mux.HandleFunc(path, handler)
}

// RequestID returns the identifier of the request, or an empty string if the
// request did not go through the proxy.
func RequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey).(string)
	return id
}

func nextRequestID() string {
	return xid.New().String()
}

// logging writes one access log entry per request.
func logging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			defer func() {
				requestID := RequestID(r)
				if requestID == "" {
					requestID = "unknown"
				}

				logger.Info().
					Str("requestID", requestID).
					Str("method", r.Method).
					Str("url", r.URL.Path).
					Str("remoteAddr", r.RemoteAddr).
					Str("agent", r.UserAgent()).
					Dur("took", time.Since(start)).
					Msg("")
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// requestID keeps the request identifier given by the client, or generates a
// new one, and echoes it in the response.
func requestID(next func() string) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = next()
			}

			ctx := context.WithValue(r.Context(), requestIDKey, id)
			w.Header().Set(RequestIDHeader, id)

			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
