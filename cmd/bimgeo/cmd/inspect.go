package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/godeepar/bimgeo"
	"github.com/godeepar/bimgeo/model"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [model files...]",
	Short: "List the entity types and property names found in models",
	Long: `inspect lists what can be passed to convert: the entity types present in the
models (plus IfcProduct for all of them) and every property name found on
their elements.`,
	Args: cobra.ArbitraryArgs,
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	models, err := openModels(args, cfg, logger)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Source", "Elements", "Entity types", "Properties"})

	var records []bimgeo.PropertyRecord
	for _, m := range models {
		elements := m.ElementsByType(model.Product)
		modelRecords := bimgeo.ExtractProperties(m, elements)
		for _, r := range modelRecords {
			r[bimgeo.KeySource] = m.Name()
		}
		records = append(records, modelRecords...)

		t.AppendRow(table.Row{m.Name(), len(elements), strings.Join(m.EntityTypes(), "\n"), len(bimgeo.PropertyKeys(modelRecords))})
	}

	t.SetStyle(table.StyleLight)
	t.Render()

	fmt.Fprintf(cmd.OutOrStdout(), "\nentity types: %s\n", strings.Join(bimgeo.EntityTypes(models), ", "))
	fmt.Fprintf(cmd.OutOrStdout(), "properties:   %s\n", strings.Join(bimgeo.PropertyKeys(records), ", "))

	return nil
}
