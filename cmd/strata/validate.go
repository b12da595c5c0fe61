package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/strata-orm/strata/internal/cli/ui"
	"github.com/strata-orm/strata/internal/metadata/builder"
	"github.com/strata-orm/strata/internal/modelfile"
)

var validateCmd = &cobra.Command{
	Use:   "validate <model-file>",
	Short: "Validate a model definition file",
	Long: `Load a model definition file, build the metadata model from it, and
report every configuration error the build collects.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		def, err := modelfile.Load(args[0])
		if err != nil {
			ui.WriteError(os.Stderr, "%v", err)
			return err
		}

		b := builder.New().WithLogger(newLogger())
		if err := def.Apply(b); err != nil {
			ui.WriteError(os.Stderr, "model configuration is invalid:")
			ui.WriteDetail(os.Stderr, "%v", err)
			return err
		}

		model := b.Model()
		entities := model.EntityTypes()
		properties := 0
		for _, et := range entities {
			properties += len(et.Properties())
		}
		ui.WriteSuccess(os.Stdout, "%s is valid: %d entities, %d properties",
			args[0], len(entities), properties)
		return nil
	},
}
