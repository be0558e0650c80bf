package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/blockkit/alloc"
)

var allocPack bool

func init() {
	cmd := newAllocCmd()
	cmd.Flags().BoolVar(&allocPack, "pack", false, "Reorder the free list when no run is large enough")
	rootCmd.AddCommand(cmd)
}

func newAllocCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alloc <image> <size>",
		Short: "Allocate a run of slots covering size bytes",
		Long: `The alloc command takes the first run on the free list that covers
size bytes. The whole run is taken; its length is reported so it can be
freed later with the same byte count.

With --pack the free list is reordered first when no run in the current
order is large enough.

Example:
  blockctl alloc pool.blk 24
  blockctl alloc pool.blk 56 --pack --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAlloc(args)
		},
	}
	return cmd
}

func runAlloc(args []string) error {
	size, err := parseInt("size", args[1])
	if err != nil {
		return err
	}

	return withSession(args[0], &alloc.Options{Pack: allocPack}, func(s *session) error {
		span, allocErr := s.a.AllocateSpan(size)
		errno := s.a.Errno()

		if jsonOut {
			result := map[string]any{
				"index":    span.Start,
				"blocks":   span.Blocks,
				"error_no": uint32(errno),
				"error":    errno.String(),
			}
			if err := printJSON(result); err != nil {
				return err
			}
			return allocErr
		}
		if allocErr != nil {
			return allocErr
		}
		printInfo("Allocated %d blocks at slot %d (%d bytes)\n", span.Blocks, span.Start, span.Bytes())
		printVerbose("  Available blocks: %d\n", s.a.Available())
		return nil
	})
}
