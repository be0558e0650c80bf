package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/blockkit/alloc"
	"github.com/joshuapare/blockkit/printer"
)

func init() {
	rootCmd.AddCommand(newRunsCmd())
}

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs <image> [index]",
		Short: "List runs of adjacent free slots",
		Long: `The runs command lists every run of consecutive slot indices on the
free list, in list order. With an index it prints the length of the run
that starts at that slot instead.

Example:
  blockctl runs pool.blk
  blockctl runs pool.blk 3`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(args)
		},
	}
	return cmd
}

func runRuns(args []string) error {
	p, err := openInspect(args[0], true)
	if err != nil {
		return err
	}
	defer p.Close()

	if len(args) == 2 {
		start, err := parseInt("index", args[1])
		if err != nil {
			return err
		}
		n := alloc.RunLengthAt(p, start)
		if jsonOut {
			return printJSON(map[string]any{"start": start, "blocks": n})
		}
		printInfo("%d\n", n)
		return nil
	}

	opts := printer.DefaultOptions()
	if jsonOut {
		opts.Format = printer.FormatJSON
	}
	return printer.New(os.Stdout, opts).PrintRuns(alloc.Inspect(p))
}
