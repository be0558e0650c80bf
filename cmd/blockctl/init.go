package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/blockkit/pool"
)

const defaultCapacity = 16

var (
	initCapacity int
	initForce    bool
)

func init() {
	cmd := newInitCmd()
	cmd.Flags().IntVar(&initCapacity, "capacity", defaultCapacity, "Number of 8-byte slots in the pool")
	cmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing image")
	rootCmd.AddCommand(cmd)
}

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init <image>",
		Short: "Create a pool image with every slot free",
		Long: `The init command writes a new pool image. Every slot is linked into
the free list in index order.

Example:
  blockctl init pool.blk
  blockctl init pool.blk --capacity 4096 --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(args)
		},
	}
	return cmd
}

func runInit(args []string) error {
	path := args[0]

	if !initForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	printVerbose("Creating image: %s (%d slots)\n", path, initCapacity)
	p, err := pool.Create(path, initCapacity)
	if err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	if err := p.Close(); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]any{
			"file":     path,
			"capacity": initCapacity,
		})
	}
	printInfo("Created %s with %d slots\n", path, initCapacity)
	return nil
}
