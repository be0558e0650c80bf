package server

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/joshuapare/blockkit/alloc"
	"github.com/joshuapare/blockkit/pool"
	"github.com/joshuapare/blockkit/pool/dirty"
)

// countingFlusher records flush calls and can be told to fail.
type countingFlusher struct {
	calls int
	mode  dirty.FlushMode
	err   error
}

func (f *countingFlusher) Flush(_ context.Context, mode dirty.FlushMode) error {
	f.calls++
	f.mode = mode
	return f.err
}

// newScenarioServer returns a server whose free list is
// 8→9→3→4→5→12→13→14→11→1 over 16 slots.
func newScenarioServer(t *testing.T, flush Flusher, opts *alloc.Options) (*Server, *alloc.Locked) {
	t.Helper()
	p, err := pool.New(16)
	require.NoError(t, err)
	a, err := alloc.New(p, nil, opts)
	require.NoError(t, err)

	_, err = a.AllocateSpan(8)
	require.NoError(t, err)
	for _, r := range []alloc.Span{{Start: 1, Blocks: 1}, {Start: 11, Blocks: 1}, {Start: 12, Blocks: 3}, {Start: 3, Blocks: 3}, {Start: 8, Blocks: 2}} {
		require.NoError(t, a.Free(r.Start, r.Bytes()))
	}
	require.Equal(t, []int{8, 9, 3, 4, 5, 12, 13, 14, 11, 1}, a.Chain())

	l := alloc.NewLocked(a)
	return New(l, flush, nil), l
}

func do(s *Server, method, uri string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	s.Handler(&ctx)
	return &ctx
}

func decode(t *testing.T, ctx *fasthttp.RequestCtx, v any) {
	t.Helper()
	require.NoError(t, jsoniter.Unmarshal(ctx.Response.Body(), v), "body %q", ctx.Response.Body())
}

func TestServer_Snapshot(t *testing.T) {
	s, _ := newScenarioServer(t, nil, nil)

	ctx := do(s, fasthttp.MethodGet, "/snapshot")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	require.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))

	var got struct {
		FirstBlock      int          `json:"first_block"`
		AvailableBlocks int          `json:"available_blocks"`
		Error           string       `json:"error"`
		Chain           []int        `json:"chain"`
		LargestRun      int          `json:"largest_run"`
		Runs            []alloc.Span `json:"runs"`
	}
	decode(t, ctx, &got)
	require.Equal(t, 8, got.FirstBlock)
	require.Equal(t, 10, got.AvailableBlocks)
	require.Equal(t, "Success", got.Error)
	require.Equal(t, []int{8, 9, 3, 4, 5, 12, 13, 14, 11, 1}, got.Chain)
	require.Equal(t, 3, got.LargestRun)
	require.Len(t, got.Runs, 5)
}

func TestServer_Alloc(t *testing.T) {
	f := &countingFlusher{}
	s, l := newScenarioServer(t, f, nil)

	ctx := do(s, fasthttp.MethodPost, "/alloc?size=17")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	var got allocResponse
	decode(t, ctx, &got)
	require.Equal(t, allocResponse{Index: 3, Blocks: 3}, got)
	require.Equal(t, []int{8, 9, 12, 13, 14, 11, 1}, l.Snapshot().Chain)
	require.Equal(t, 1, f.calls)
	require.Equal(t, dirty.FlushAuto, f.mode)
}

func TestServer_AllocFailures(t *testing.T) {
	tests := []struct {
		name   string
		uri    string
		pack   bool
		status int
		errno  alloc.ErrorKind
	}{
		{"no memory", "/alloc?size=256", false, fasthttp.StatusConflict, alloc.OutOfMemory},
		{"should defragment", "/alloc?size=56", true, fasthttp.StatusConflict, alloc.ShouldDefragment},
		{"zero size", "/alloc?size=0", false, fasthttp.StatusBadRequest, alloc.Success},
		{"missing size", "/alloc", false, fasthttp.StatusBadRequest, alloc.Success},
		{"bad size", "/alloc?size=lots", false, fasthttp.StatusBadRequest, alloc.Success},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, l := newScenarioServer(t, nil, &alloc.Options{Pack: tt.pack})

			ctx := do(s, fasthttp.MethodPost, tt.uri)
			require.Equal(t, tt.status, ctx.Response.StatusCode())
			var got errorResponse
			decode(t, ctx, &got)
			require.NotEmpty(t, got.Error)
			require.Equal(t, tt.errno, l.Snapshot().ErrNo)
			if tt.status == fasthttp.StatusConflict {
				require.Equal(t, uint32(tt.errno), got.ErrNo)
			}
		})
	}
}

func TestServer_Free(t *testing.T) {
	s, l := newScenarioServer(t, nil, nil)

	ctx := do(s, fasthttp.MethodPost, "/free?addr=6&size=9")
	require.Equal(t, fasthttp.StatusNoContent, ctx.Response.StatusCode())
	snap := l.Snapshot()
	require.Equal(t, []int{6, 7, 8, 9, 3, 4, 5, 12, 13, 14, 11, 1}, snap.Chain)
	require.Equal(t, 12, snap.AvailableBlocks)

	require.Equal(t, fasthttp.StatusConflict, do(s, fasthttp.MethodPost, "/free?addr=6&size=8").Response.StatusCode())
	require.Equal(t, fasthttp.StatusBadRequest, do(s, fasthttp.MethodPost, "/free?addr=99&size=8").Response.StatusCode())
	require.Equal(t, fasthttp.StatusBadRequest, do(s, fasthttp.MethodPost, "/free?addr=0&size=-1").Response.StatusCode())
	require.Equal(t, fasthttp.StatusBadRequest, do(s, fasthttp.MethodPost, "/free?size=8").Response.StatusCode())
	require.Equal(t, fasthttp.StatusBadRequest, do(s, fasthttp.MethodPost, "/free?addr=0&size=9223372036854775807").Response.StatusCode())
	require.Equal(t, 12, l.Snapshot().AvailableBlocks)
}

func TestServer_ReorderAndInit(t *testing.T) {
	s, l := newScenarioServer(t, nil, nil)

	ctx := do(s, fasthttp.MethodPost, "/reorder")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	var got reorderResponse
	decode(t, ctx, &got)
	require.Equal(t, 18, got.Swaps)
	require.Equal(t, []int{1, 3, 4, 5, 8, 9, 11, 12, 13, 14}, l.Snapshot().Chain)

	ctx = do(s, fasthttp.MethodPost, "/init")
	require.Equal(t, fasthttp.StatusNoContent, ctx.Response.StatusCode())
	require.Equal(t, 16, l.Snapshot().AvailableBlocks)
}

func TestServer_StatsAndValidate(t *testing.T) {
	s, _ := newScenarioServer(t, nil, nil)
	do(s, fasthttp.MethodPost, "/alloc?size=8")

	ctx := do(s, fasthttp.MethodGet, "/stats")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	var st alloc.Stats
	decode(t, ctx, &st)
	require.Equal(t, 2, st.AllocCalls)
	require.Equal(t, 5, st.FreeCalls)

	require.Equal(t, fasthttp.StatusOK, do(s, fasthttp.MethodGet, "/validate").Response.StatusCode())
}

func TestServer_Routing(t *testing.T) {
	s, _ := newScenarioServer(t, nil, nil)

	require.Equal(t, fasthttp.StatusNotFound, do(s, fasthttp.MethodGet, "/nope").Response.StatusCode())

	ctx := do(s, fasthttp.MethodGet, "/alloc?size=8")
	require.Equal(t, fasthttp.StatusMethodNotAllowed, ctx.Response.StatusCode())
	require.Equal(t, fasthttp.MethodPost, string(ctx.Response.Header.Peek(fasthttp.HeaderAllow)))

	require.Equal(t, fasthttp.StatusMethodNotAllowed, do(s, fasthttp.MethodPost, "/snapshot").Response.StatusCode())
}

func TestServer_FlushError(t *testing.T) {
	f := &countingFlusher{err: errors.New("disk gone")}
	s, _ := newScenarioServer(t, f, nil)

	ctx := do(s, fasthttp.MethodPost, "/reorder")
	require.Equal(t, fasthttp.StatusInternalServerError, ctx.Response.StatusCode())
	require.Contains(t, string(ctx.Response.Body()), "disk gone")
}

func TestServer_FlushErrorKeepsAllocatorError(t *testing.T) {
	f := &countingFlusher{err: errors.New("disk gone")}
	s, _ := newScenarioServer(t, f, nil)

	ctx := do(s, fasthttp.MethodPost, "/alloc?size=1000")
	require.Equal(t, fasthttp.StatusConflict, ctx.Response.StatusCode())
	var got errorResponse
	decode(t, ctx, &got)
	require.Contains(t, got.Error, "not enough memory")
	require.Contains(t, got.Error, "disk gone")
	require.Equal(t, uint32(alloc.OutOfMemory), got.ErrNo)

	ctx = do(s, fasthttp.MethodPost, "/free?addr=8&size=8")
	require.Equal(t, fasthttp.StatusConflict, ctx.Response.StatusCode())
	require.Contains(t, string(ctx.Response.Body()), "disk gone")
}

func TestServer_ServeInmemory(t *testing.T) {
	s, _ := newScenarioServer(t, nil, nil)
	ln := fasthttputil.NewInmemoryListener()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := &fasthttp.Client{
		Dial: func(string) (net.Conn, error) { return ln.Dial() },
	}
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI("http://blockkit/alloc?size=16")
	req.Header.SetMethod(fasthttp.MethodPost)
	require.NoError(t, client.DoTimeout(req, resp, 5*time.Second))
	require.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	require.Equal(t, DefaultName, string(resp.Header.Server()))

	var got allocResponse
	require.NoError(t, jsoniter.Unmarshal(resp.Body(), &got))
	require.Equal(t, allocResponse{Index: 8, Blocks: 2}, got)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNew_Defaults(t *testing.T) {
	s := New(nil, nil, nil)
	require.Equal(t, DefaultAddr, s.Addr())

	s = New(nil, nil, &Options{Addr: ":0", FlushMode: dirty.FlushFull})
	require.Equal(t, ":0", s.Addr())
	require.Equal(t, DefaultName, s.opts.Name)
	require.Equal(t, dirty.FlushFull, s.opts.FlushMode)
}
