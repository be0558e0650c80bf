package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/blockkit/alloc"
)

func init() {
	rootCmd.AddCommand(newValidateCmd())
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <image>",
		Short: "Check the free list for corruption",
		Long: `The validate command checks that the image header is intact and that
the free list has no cycles, no duplicate or out-of-range slots, and as many
entries as the available counter says.

Example:
  blockctl validate pool.blk
  blockctl validate pool.blk --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args)
		},
	}
	return cmd
}

func runValidate(args []string) error {
	path := args[0]

	printVerbose("Validating image: %s\n", path)

	p, err := openInspect(path, true)
	if err != nil {
		return err
	}
	defer p.Close()

	err = alloc.Check(p)

	result := map[string]any{
		"file":  path,
		"valid": err == nil,
	}
	if err != nil {
		result["error"] = err.Error()
	}

	if jsonOut {
		if jerr := printJSON(result); jerr != nil {
			return jerr
		}
		return err
	}

	printInfo("\nValidating %s...\n\n", path)
	if err != nil {
		printInfo("✗ Validation failed\n")
		return fmt.Errorf("validation failed: %w", err)
	}
	printInfo("✓ Free list is valid (%d of %d slots free)\n", p.Available(), p.Capacity())
	return nil
}
