package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/blockkit/internal/format"
)

func init() {
	rootCmd.AddCommand(newFreeCmd())
}

func newFreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "free <image> <addr> <size>",
		Short: "Return slots to the free list",
		Long: `The free command puts ceil(size/8) slots starting at addr back at the
head of the free list. Slots that are already free are rejected.

Example:
  blockctl free pool.blk 6 9`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFree(args)
		},
	}
	return cmd
}

func runFree(args []string) error {
	addr, err := parseInt("addr", args[1])
	if err != nil {
		return err
	}
	size, err := parseInt("size", args[2])
	if err != nil {
		return err
	}

	return withSession(args[0], nil, func(s *session) error {
		if err := s.a.Free(addr, size); err != nil {
			return err
		}
		if jsonOut {
			return printJSON(map[string]any{
				"addr":      addr,
				"blocks":    format.BlocksFor(size),
				"available": s.a.Available(),
			})
		}
		printInfo("Freed %d blocks at slot %d\n", format.BlocksFor(size), addr)
		printVerbose("  Available blocks: %d\n", s.a.Available())
		return nil
	})
}
