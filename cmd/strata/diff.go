package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/strata-orm/strata/internal/cli/ui"
	"github.com/strata-orm/strata/internal/metadata/snapshot"
	"github.com/strata-orm/strata/internal/modelfile"
)

var diffCmd = &cobra.Command{
	Use:   "diff <old-model-file> <new-model-file>",
	Short: "Show the changes between two model definition files",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		oldModel, err := modelfile.Build(args[0])
		if err != nil {
			ui.WriteError(os.Stderr, "%s: %v", args[0], err)
			return err
		}
		newModel, err := modelfile.Build(args[1])
		if err != nil {
			ui.WriteError(os.Stderr, "%s: %v", args[1], err)
			return err
		}

		changes := snapshot.Diff(snapshot.Take(oldModel), snapshot.Take(newModel))
		if len(changes) == 0 {
			ui.WriteSuccess(os.Stdout, "models are identical")
			return nil
		}

		ui.WriteHeading(os.Stdout, "%d changes:", len(changes))
		for _, change := range changes {
			fmt.Printf("  %s\n", change)
		}
		return nil
	},
}
