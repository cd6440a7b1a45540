package main

import (
	"polysynth/domain/core"
	"polysynth/internal/container"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	var execution string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List datasets registered for an execution",
		RunE: func(cmd *cobra.Command, _ []string) error {
			execID, err := core.ParseExecutionID(execution)
			if err != nil {
				return err
			}

			c, err := container.New(cfg, logger)
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.Connect(cmd.Context()); err != nil {
				return err
			}

			entries, err := c.Catalog.ListByExecution(cmd.Context(), execID)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Dataset", "Rows", "Categorical", "Path"})
			for _, e := range entries {
				t.AppendRow(table.Row{e.Name, e.RowCount, len(e.Metadata.CatCols), e.DatasetPath})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&execution, "execution", "", "execution ID (YYYYMMDDhhmmss[-NN])")
	_ = cmd.MarkFlagRequired("execution")
	return cmd
}
