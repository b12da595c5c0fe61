package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/strata-orm/strata/internal/cli/ui"
	"github.com/strata-orm/strata/internal/metadata"
	"github.com/strata-orm/strata/internal/metadata/builder"
	"github.com/strata-orm/strata/internal/modelfile"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <model-file>",
	Short: "Print the metadata model built from a definition file",
	Args:  cobra.ExactArgs(1),
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

		for _, et := range b.Model().EntityTypes() {
			printEntity(et)
			fmt.Println()
		}
		return nil
	},
}

func printEntity(et *metadata.EntityType) {
	ui.WriteHeading(os.Stdout, "entity %s", et.Name())

	table := ui.NewTable(os.Stdout, []string{
		"PROPERTY", "TYPE", "NULLABLE", "FLAGS", "IDX", "SHADOW", "ORIG",
	}, false)
	for _, p := range et.Properties() {
		table.AddRow(
			p.Name(),
			p.GoType().String(),
			strconv.FormatBool(p.IsNullable()),
			propertyFlags(p),
			strconv.Itoa(p.Index()),
			strconv.Itoa(p.ShadowIndex()),
			strconv.Itoa(p.OriginalValueIndex()),
		)
	}
	table.Render()

	if pk := et.PrimaryKey(); pk != nil {
		ui.WriteDetail(os.Stdout, "primary key %s", metadata.FormatProperties(pk.Properties()))
	}
	for _, k := range et.Keys() {
		if !k.IsPrimary() {
			ui.WriteDetail(os.Stdout, "alternate key %s", metadata.FormatProperties(k.Properties()))
		}
	}
	for _, fk := range et.ForeignKeys() {
		detail := fmt.Sprintf("foreign key %s -> %s %s",
			metadata.FormatProperties(fk.Properties()),
			fk.PrincipalType().Name(),
			metadata.FormatProperties(fk.PrincipalKey().Properties()))
		if fk.IsUnique() {
			detail += " (unique)"
		}
		ui.WriteDetail(os.Stdout, "%s", detail)
	}
	for _, idx := range et.Indexes() {
		detail := fmt.Sprintf("index %s", metadata.FormatProperties(idx.Properties()))
		if idx.IsUnique() {
			detail += " (unique)"
		}
		ui.WriteDetail(os.Stdout, "%s", detail)
	}
}

func propertyFlags(p *metadata.Property) string {
	var flags []string
	if p.IsShadow() {
		flags = append(flags, "shadow")
	}
	if p.IsReadOnly() {
		flags = append(flags, "read-only")
	}
	if p.IsConcurrencyToken() {
		flags = append(flags, "concurrency")
	}
	if p.IsGeneratedOnAdd() {
		flags = append(flags, "generated")
	}
	if mode := p.EffectiveStoreGeneration(); mode != metadata.StoreGenerationNone {
		flags = append(flags, mode.String())
	}
	if len(flags) == 0 {
		return "-"
	}
	return strings.Join(flags, ",")
}
