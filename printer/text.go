package printer

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/blockkit/alloc"
)

const separator = "---------------------------------"

// printText writes the report:
//
//	---------------------------------
//		Block size: 8
//		Available blocks: 10
//		First free: 8
//		Error_no: Success
//		Content:  [8] -> [9] -> ... -> NULL_BLOCK
//	---------------------------------
func (p *Printer) printText(s alloc.Snapshot) error {
	var b strings.Builder

	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "\tBlock size: %d\n", s.BlockSize)
	fmt.Fprintf(&b, "\tAvailable blocks: %d\n", s.AvailableBlocks)
	fmt.Fprintf(&b, "\tFirst free: %d\n", s.FirstBlock)
	fmt.Fprintf(&b, "\tError_no: %s\n", s.ErrNo)
	b.WriteString("\tContent:  ")

	chain, hidden := p.visibleChain(s.Chain)
	for _, idx := range chain {
		fmt.Fprintf(&b, "[%d] -> ", idx)
	}
	if hidden > 0 {
		fmt.Fprintf(&b, "... (%d more) -> ", hidden)
	}
	if s.Truncated {
		b.WriteString("<broken link>\n")
	} else {
		b.WriteString("NULL_BLOCK\n")
	}

	if p.opts.ShowRuns {
		mp := message.NewPrinter(language.English)
		runs := s.Runs()
		mp.Fprintf(&b, "\tRuns: %d\n", len(runs))
		mp.Fprintf(&b, "\tLargest run: %d blocks (%d bytes)\n", s.LargestRun, s.LargestRun*s.BlockSize)
		mp.Fprintf(&b, "\tFree bytes: %d of %d\n", s.AvailableBlocks*s.BlockSize, s.Capacity*s.BlockSize)
	}

	b.WriteString(separator + "\n")
	_, err := io.WriteString(p.writer, b.String())
	return err
}

func (p *Printer) printRunsText(runs []alloc.Span) error {
	mp := message.NewPrinter(language.English)
	for _, r := range runs {
		if _, err := mp.Fprintf(p.writer, "[%d] %d blocks (%d bytes)\n", r.Start, r.Blocks, r.Bytes()); err != nil {
			return err
		}
	}
	return nil
}
