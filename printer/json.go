package printer

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/joshuapare/blockkit/alloc"
)

var jsonConfig = jsoniter.Config{
	OnlyTaggedField: true,
	CaseSensitive:   true,
}.Froze()

// jsonSnapshot is the JSON form of a snapshot.
type jsonSnapshot struct {
	Capacity        int          `json:"capacity"`
	BlockSize       int          `json:"block_size"`
	FirstBlock      int          `json:"first_block"`
	AvailableBlocks int          `json:"available_blocks"`
	ErrNo           uint32       `json:"error_no"`
	Error           string       `json:"error"`
	Chain           []int        `json:"chain"`
	Omitted         int          `json:"omitted,omitempty"`
	Truncated       bool         `json:"truncated,omitempty"`
	LargestRun      int          `json:"largest_run"`
	Runs            []alloc.Span `json:"runs,omitempty"`
}

// Encode returns the JSON form of s as printed with FormatJSON.
func Encode(s alloc.Snapshot, opts Options) ([]byte, error) {
	p := &Printer{opts: opts}
	return jsonConfig.Marshal(p.jsonSnapshot(s))
}

func (p *Printer) jsonSnapshot(s alloc.Snapshot) jsonSnapshot {
	chain, hidden := p.visibleChain(s.Chain)
	out := jsonSnapshot{
		Capacity:        s.Capacity,
		BlockSize:       s.BlockSize,
		FirstBlock:      s.FirstBlock,
		AvailableBlocks: s.AvailableBlocks,
		ErrNo:           uint32(s.ErrNo),
		Error:           s.ErrNo.String(),
		Chain:           chain,
		Omitted:         hidden,
		Truncated:       s.Truncated,
		LargestRun:      s.LargestRun,
	}
	if out.Chain == nil {
		out.Chain = []int{}
	}
	if p.opts.ShowRuns {
		out.Runs = s.Runs()
	}
	return out
}

func (p *Printer) printJSON(s alloc.Snapshot) error {
	stream := jsonConfig.BorrowStream(p.writer)
	defer jsonConfig.ReturnStream(stream)

	stream.WriteVal(p.jsonSnapshot(s))
	stream.WriteRaw("\n")
	if stream.Error != nil {
		return stream.Error
	}
	return stream.Flush()
}

func (p *Printer) printRunsJSON(runs []alloc.Span) error {
	stream := jsonConfig.BorrowStream(p.writer)
	defer jsonConfig.ReturnStream(stream)

	if runs == nil {
		runs = []alloc.Span{}
	}
	stream.WriteVal(runs)
	stream.WriteRaw("\n")
	if stream.Error != nil {
		return stream.Error
	}
	return stream.Flush()
}
