// Package printer renders allocator snapshots as text or JSON.
package printer

import (
	"fmt"
	"io"

	"github.com/joshuapare/blockkit/alloc"
)

const (
	DefaultMaxChain = 0
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs the human-readable report.
	FormatText Format = "text"

	// FormatJSON outputs one JSON object per snapshot.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// MaxChain limits how many free-list entries are listed (0 = unlimited).
	// The text report elides the rest; JSON truncates the chain array.
	// Default: 0 (unlimited)
	MaxChain int

	// ShowRuns adds the largest run, the run count and the free byte total.
	// Default: false
	ShowRuns bool
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:   FormatText,
		MaxChain: DefaultMaxChain,
		ShowRuns: false,
	}
}

// Printer writes snapshots to a writer.
type Printer struct {
	opts   Options
	writer io.Writer
}

// New creates a new Printer.
//
// Example:
//
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	p.Print(a.Snapshot())
func New(w io.Writer, opts Options) *Printer {
	return &Printer{
		writer: w,
		opts:   opts,
	}
}

// Print writes s in the configured format.
func (p *Printer) Print(s alloc.Snapshot) error {
	switch p.opts.Format {
	case FormatText, "":
		return p.printText(s)
	case FormatJSON:
		return p.printJSON(s)
	default:
		return fmt.Errorf("printer: unsupported format %q", p.opts.Format)
	}
}

// PrintRuns writes the runs of s, one per line, in list order.
func (p *Printer) PrintRuns(s alloc.Snapshot) error {
	switch p.opts.Format {
	case FormatText, "":
		return p.printRunsText(s.Runs())
	case FormatJSON:
		return p.printRunsJSON(s.Runs())
	default:
		return fmt.Errorf("printer: unsupported format %q", p.opts.Format)
	}
}

// visibleChain applies MaxChain and reports how many entries were hidden.
func (p *Printer) visibleChain(chain []int) ([]int, int) {
	if p.opts.MaxChain <= 0 || len(chain) <= p.opts.MaxChain {
		return chain, 0
	}
	return chain[:p.opts.MaxChain], len(chain) - p.opts.MaxChain
}
