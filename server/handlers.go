package server

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/valyala/fasthttp"

	"github.com/joshuapare/blockkit/alloc"
	"github.com/joshuapare/blockkit/printer"
)

type allocResponse struct {
	Index  int `json:"index"`
	Blocks int `json:"blocks"`
}

type reorderResponse struct {
	Swaps int `json:"swaps"`
}

type errorResponse struct {
	Error string `json:"error"`
	ErrNo uint32 `json:"error_no,omitempty"`
}

func (s *Server) doSnapshot(ctx *fasthttp.RequestCtx) {
	body, err := printer.Encode(s.l.Snapshot(), printer.Options{Format: printer.FormatJSON, ShowRuns: true})
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, err)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(body)
}

func (s *Server) doValidate(ctx *fasthttp.RequestCtx) {
	if err := s.l.Validate(); err != nil {
		writeError(ctx, fasthttp.StatusConflict, err)
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
}

func (s *Server) doAlloc(ctx *fasthttp.RequestCtx) {
	size, err := intArg(ctx, "size")
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err)
		return
	}

	var span alloc.Span
	var errno alloc.ErrorKind
	err = s.mutate(func(a *alloc.Allocator) error {
		var allocErr error
		span, allocErr = a.AllocateSpan(size)
		errno = a.Errno()
		return allocErr
	})
	switch {
	case err == nil:
		writeJSON(ctx, fasthttp.StatusOK, allocResponse{Index: span.Start, Blocks: span.Blocks})
	case errors.Is(err, alloc.ErrBadSize):
		writeError(ctx, fasthttp.StatusBadRequest, err)
	case errors.Is(err, alloc.ErrNoMemory), errors.Is(err, alloc.ErrShouldDefragment):
		writeJSON(ctx, fasthttp.StatusConflict, errorResponse{Error: err.Error(), ErrNo: uint32(errno)})
	default:
		writeError(ctx, fasthttp.StatusInternalServerError, err)
	}
}

func (s *Server) doFree(ctx *fasthttp.RequestCtx) {
	addr, err := intArg(ctx, "addr")
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err)
		return
	}
	size, err := intArg(ctx, "size")
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err)
		return
	}

	err = s.mutate(func(a *alloc.Allocator) error {
		return a.Free(addr, size)
	})
	switch {
	case err == nil:
		ctx.SetStatusCode(fasthttp.StatusNoContent)
	case errors.Is(err, alloc.ErrBadSize), errors.Is(err, alloc.ErrBadAddress):
		writeError(ctx, fasthttp.StatusBadRequest, err)
	case errors.Is(err, alloc.ErrDoubleFree):
		writeError(ctx, fasthttp.StatusConflict, err)
	default:
		writeError(ctx, fasthttp.StatusInternalServerError, err)
	}
}

func (s *Server) doReorder(ctx *fasthttp.RequestCtx) {
	var swaps int
	err := s.mutate(func(a *alloc.Allocator) error {
		swaps = a.Reorder()
		return nil
	})
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, reorderResponse{Swaps: swaps})
}

func (s *Server) doInit(ctx *fasthttp.RequestCtx) {
	err := s.mutate(func(a *alloc.Allocator) error {
		a.Initialize()
		return nil
	})
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, err)
		return
	}
	ctx.SetStatusCode(fasthttp.StatusNoContent)
}

// mutate runs fn under the allocator lock and flushes afterwards, even when
// fn fails, since a failed allocation still records its error code. The
// flush ignores request cancellation. Both errors are kept when both fail.
func (s *Server) mutate(fn func(a *alloc.Allocator) error) error {
	return s.l.Do(func(a *alloc.Allocator) error {
		opErr := fn(a)
		if s.flush != nil {
			if err := s.flush.Flush(context.Background(), s.opts.FlushMode); err != nil {
				return errors.Join(opErr, fmt.Errorf("server: flush: %w", err))
			}
		}
		return opErr
	})
}

func intArg(ctx *fasthttp.RequestCtx, name string) (int, error) {
	raw := ctx.QueryArgs().Peek(name)
	if len(raw) == 0 {
		return 0, fmt.Errorf("server: missing %q parameter", name)
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, fmt.Errorf("server: bad %q parameter: %w", name, err)
	}
	return n, nil
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	stream := jsonConfig.BorrowStream(nil)
	defer jsonConfig.ReturnStream(stream)

	stream.WriteVal(v)
	if stream.Error != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString(stream.Error.Error())
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(stream.Buffer())
}

func writeError(ctx *fasthttp.RequestCtx, status int, err error) {
	writeJSON(ctx, status, errorResponse{Error: err.Error()})
}
