package printer

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/blockkit/alloc"
)

// scenarioSnapshot is the state with slots 0, 2, 6, 7, 10 and 15 allocated.
func scenarioSnapshot() alloc.Snapshot {
	return alloc.Snapshot{
		Capacity:        16,
		BlockSize:       8,
		FirstBlock:      8,
		AvailableBlocks: 10,
		ErrNo:           alloc.Success,
		Chain:           []int{8, 9, 3, 4, 5, 12, 13, 14, 11, 1},
		LargestRun:      3,
	}
}

func TestPrinter_Text(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, DefaultOptions())

	require.NoError(t, p.Print(scenarioSnapshot()))

	want := "---------------------------------\n" +
		"\tBlock size: 8\n" +
		"\tAvailable blocks: 10\n" +
		"\tFirst free: 8\n" +
		"\tError_no: Success\n" +
		"\tContent:  [8] -> [9] -> [3] -> [4] -> [5] -> [12] -> [13] -> [14] -> [11] -> [1] -> NULL_BLOCK\n" +
		"---------------------------------\n"
	require.Equal(t, want, buf.String())
}

func TestPrinter_Text_Empty(t *testing.T) {
	var buf bytes.Buffer
	s := alloc.Snapshot{
		Capacity:   4,
		BlockSize:  8,
		FirstBlock: alloc.NullBlock,
		ErrNo:      alloc.OutOfMemory,
		Chain:      []int{},
	}

	require.NoError(t, New(&buf, DefaultOptions()).Print(s))

	out := buf.String()
	require.Contains(t, out, "\tFirst free: -1\n")
	require.Contains(t, out, "\tError_no: Not enough memory\n")
	require.Contains(t, out, "\tContent:  NULL_BLOCK\n")
}

func TestPrinter_Text_MaxChain(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.MaxChain = 3

	require.NoError(t, New(&buf, opts).Print(scenarioSnapshot()))
	require.Contains(t, buf.String(), "\tContent:  [8] -> [9] -> [3] -> ... (7 more) -> NULL_BLOCK\n")
}

func TestPrinter_Text_Truncated(t *testing.T) {
	var buf bytes.Buffer
	s := scenarioSnapshot()
	s.Truncated = true

	require.NoError(t, New(&buf, DefaultOptions()).Print(s))
	require.Contains(t, buf.String(), "[1] -> <broken link>\n")
}

func TestPrinter_Text_ShowRuns(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.ShowRuns = true
	s := scenarioSnapshot()
	s.Capacity = 4096
	s.AvailableBlocks = 2048

	require.NoError(t, New(&buf, opts).Print(s))

	out := buf.String()
	require.Contains(t, out, "\tRuns: 5\n")
	require.Contains(t, out, "\tLargest run: 3 blocks (24 bytes)\n")
	require.Contains(t, out, "\tFree bytes: 16,384 of 32,768\n")
}

func TestPrinter_JSON(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Format = FormatJSON

	s := scenarioSnapshot()
	s.ErrNo = alloc.ShouldDefragment
	require.NoError(t, New(&buf, opts).Print(s))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.EqualValues(t, 16, got["capacity"])
	require.EqualValues(t, 8, got["block_size"])
	require.EqualValues(t, 8, got["first_block"])
	require.EqualValues(t, 10, got["available_blocks"])
	require.EqualValues(t, 2, got["error_no"])
	require.Equal(t, "Not enough contiguous blocks", got["error"])
	require.EqualValues(t, 3, got["largest_run"])
	require.Len(t, got["chain"], 10)
	require.NotContains(t, got, "runs")
	require.NotContains(t, got, "omitted")
}

func TestPrinter_JSON_MaxChainAndRuns(t *testing.T) {
	opts := Options{Format: FormatJSON, MaxChain: 2, ShowRuns: true}

	data, err := Encode(scenarioSnapshot(), opts)
	require.NoError(t, err)

	var got struct {
		Chain   []int        `json:"chain"`
		Omitted int          `json:"omitted"`
		Runs    []alloc.Span `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, []int{8, 9}, got.Chain)
	require.Equal(t, 8, got.Omitted)
	require.Len(t, got.Runs, 5)
	require.Equal(t, alloc.Span{Start: 3, Blocks: 3}, got.Runs[1])
}

func TestPrinter_JSON_EmptyChain(t *testing.T) {
	data, err := Encode(alloc.Snapshot{FirstBlock: alloc.NullBlock}, DefaultOptions())
	require.NoError(t, err)
	require.Contains(t, string(data), `"chain":[]`)
}

func TestPrinter_PrintRuns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, DefaultOptions()).PrintRuns(scenarioSnapshot()))
	require.Equal(t,
		"[8] 2 blocks (16 bytes)\n"+
			"[3] 3 blocks (24 bytes)\n"+
			"[12] 3 blocks (24 bytes)\n"+
			"[11] 1 blocks (8 bytes)\n"+
			"[1] 1 blocks (8 bytes)\n",
		buf.String())

	buf.Reset()
	require.NoError(t, New(&buf, Options{Format: FormatJSON}).PrintRuns(scenarioSnapshot()))
	var runs []alloc.Span
	require.NoError(t, json.Unmarshal(buf.Bytes(), &runs))
	require.Len(t, runs, 5)
}

func TestPrinter_UnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := New(&buf, Options{Format: "reg"}).Print(scenarioSnapshot())
	require.ErrorContains(t, err, "unsupported format")
}
