package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newDefragCmd())
}

func newDefragCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defrag <image>",
		Short: "Sort the free list by slot index",
		Long: `The defrag command reorders the free list so slots appear in ascending
index order. Adjacent free slots then form runs that allocation can use.
Slots are never moved or merged; only links change.

Example:
  blockctl defrag pool.blk
  blockctl defrag pool.blk --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDefrag(args)
		},
	}
	return cmd
}

func runDefrag(args []string) error {
	path := args[0]

	return withSession(path, nil, func(s *session) error {
		before := s.a.LargestRun()
		swaps := s.a.Reorder()
		after := s.a.LargestRun()

		if jsonOut {
			return printJSON(map[string]any{
				"file":               path,
				"swaps":              swaps,
				"largest_run_before": before,
				"largest_run_after":  after,
			})
		}

		printInfo("\nReordering %s...\n", path)
		printInfo("  Swaps: %d\n", swaps)
		printInfo("  Largest run: %d -> %d blocks\n", before, after)
		printInfo("✓ Reorder complete\n")
		return nil
	})
}
