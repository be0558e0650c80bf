package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/blockkit/alloc"
	"github.com/joshuapare/blockkit/pool"
	"github.com/joshuapare/blockkit/printer"
)

var (
	infoReadOnly bool
	infoMaxChain int
	infoRuns     bool
)

func init() {
	cmd := newInfoCmd()
	cmd.Flags().BoolVar(&infoReadOnly, "readonly", true, "Map the image read-only")
	cmd.Flags().IntVar(&infoMaxChain, "max-chain", 0, "List at most N free slots (0 = all)")
	cmd.Flags().BoolVar(&infoRuns, "runs", false, "Show run statistics")
	rootCmd.AddCommand(cmd)
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <image>",
		Short: "Print the allocator state of an image",
		Long: `The info command prints the block size, the available block count,
the head of the free list, the last error code and the free list itself.

Example:
  blockctl info pool.blk
  blockctl info pool.blk --runs --max-chain 32
  blockctl info pool.blk --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

// openInspect opens path for reading, honouring --readonly.
func openInspect(path string, readOnly bool) (*pool.Pool, error) {
	printVerbose("Opening image: %s\n", path)
	open := pool.Open
	if readOnly {
		open = pool.OpenReadOnly
	}
	p, err := open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return p, nil
}

func runInfo(args []string) error {
	p, err := openInspect(args[0], infoReadOnly)
	if err != nil {
		return err
	}
	defer p.Close()

	opts := printer.DefaultOptions()
	opts.MaxChain = infoMaxChain
	opts.ShowRuns = infoRuns
	if jsonOut {
		opts.Format = printer.FormatJSON
	}
	if quiet && !jsonOut {
		return nil
	}
	if !jsonOut {
		h := p.Header()
		printVerbose("Header: version %d, sequence %d, checksum 0x%08x\n", h.Version, h.Sequence, h.Checksum)
	}
	return printer.New(os.Stdout, opts).Print(alloc.Inspect(p))
}
