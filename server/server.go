// Package server exposes a shared allocator over HTTP.
//
// Routes:
//
//	GET  /snapshot             allocator state as JSON
//	GET  /stats                allocator counters as JSON
//	GET  /validate             200 when the free list is consistent, 409 otherwise
//	POST /alloc?size=N         {"index":i,"blocks":n}
//	POST /free?addr=A&size=N   204
//	POST /reorder              {"swaps":n}
//	POST /init                 204, every slot free again
//
// Every mutation runs under the allocator lock and, when a Flusher is
// configured, is flushed before the lock is released.
package server

import (
	"context"
	"errors"
	"net"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"

	"github.com/joshuapare/blockkit/alloc"
	"github.com/joshuapare/blockkit/internal/logger"
	"github.com/joshuapare/blockkit/pool/dirty"
)

const (
	DefaultAddr = "127.0.0.1:7070"
	DefaultName = "blockkit"
)

var jsonConfig = jsoniter.Config{
	OnlyTaggedField: true,
	CaseSensitive:   true,
}.Froze()

// Flusher persists pending pool writes. *dirty.Tracker implements it.
type Flusher interface {
	Flush(ctx context.Context, mode dirty.FlushMode) error
}

// Options configures a Server. A nil *Options means defaults.
type Options struct {
	// Addr is the TCP address ListenAndServe binds to.
	// Default: DefaultAddr
	Addr string

	// Name is sent in the Server response header.
	// Default: DefaultName
	Name string

	// FlushMode is passed to the Flusher after each mutation.
	// Default: dirty.FlushAuto
	FlushMode dirty.FlushMode
}

// Server serves one allocator.
type Server struct {
	l     *alloc.Locked
	flush Flusher
	opts  Options
	srv   *fasthttp.Server
}

// New returns a server over l. flush may be nil for in-memory pools.
func New(l *alloc.Locked, flush Flusher, opts *Options) *Server {
	o := Options{Addr: DefaultAddr, Name: DefaultName, FlushMode: dirty.FlushAuto}
	if opts != nil {
		if opts.Addr != "" {
			o.Addr = opts.Addr
		}
		if opts.Name != "" {
			o.Name = opts.Name
		}
		o.FlushMode = opts.FlushMode
	}
	s := &Server{l: l, flush: flush, opts: o}
	s.srv = &fasthttp.Server{
		Handler:      s.Handler,
		Name:         o.Name,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.opts.Addr }

// ListenAndServe listens on Options.Addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts the
// server down and returns nil.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	logger.Info("server: listening", "addr", ln.Addr().String())
	errc := make(chan error, 1)
	go func() { errc <- s.srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		logger.Info("server: shutting down")
		if err := s.srv.Shutdown(); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, net.ErrClosed) {
			return err
		}
		return nil
	}
}

// Handler dispatches one request.
func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	switch path {
	case "/snapshot":
		if requireMethod(ctx, fasthttp.MethodGet) {
			s.doSnapshot(ctx)
		}
	case "/stats":
		if requireMethod(ctx, fasthttp.MethodGet) {
			writeJSON(ctx, fasthttp.StatusOK, s.l.Stats())
		}
	case "/validate":
		if requireMethod(ctx, fasthttp.MethodGet) {
			s.doValidate(ctx)
		}
	case "/alloc":
		if requireMethod(ctx, fasthttp.MethodPost) {
			s.doAlloc(ctx)
		}
	case "/free":
		if requireMethod(ctx, fasthttp.MethodPost) {
			s.doFree(ctx)
		}
	case "/reorder":
		if requireMethod(ctx, fasthttp.MethodPost) {
			s.doReorder(ctx)
		}
	case "/init":
		if requireMethod(ctx, fasthttp.MethodPost) {
			s.doInit(ctx)
		}
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	}
	logRequest(ctx, path)
}

func logRequest(ctx *fasthttp.RequestCtx, path string) {
	status := ctx.Response.StatusCode()
	args := []any{"method", string(ctx.Method()), "path", path,
		"args", ctx.QueryArgs().String(), "status", status}
	switch {
	case status >= fasthttp.StatusInternalServerError:
		logger.Error("server: request failed", append(args, "body", string(ctx.Response.Body()))...)
	case status >= fasthttp.StatusBadRequest:
		logger.Warn("server: request rejected", args...)
	default:
		logger.Info("server: request", args...)
	}
}

func requireMethod(ctx *fasthttp.RequestCtx, method string) bool {
	if string(ctx.Method()) == method {
		return true
	}
	ctx.Response.Header.Set(fasthttp.HeaderAllow, method)
	ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
	return false
}
