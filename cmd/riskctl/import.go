package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"healthrisk/db"
	"healthrisk/ml"
)

func newImportCmd(opts *options) *cobra.Command {
	var csvPath, dbPath, table string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy a CSV dataset into a SQLite table",
		Long: `Copy a CSV dataset into a SQLite table so the server can be started
with dataset.format: sqlite. The table is replaced if it exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if csvPath == "" {
				cfg, err := opts.loadConfig(cmd)
				if err != nil {
					return err
				}
				csvPath = cfg.Dataset.Path
			}
			ds, err := ml.LoadDataset(csvPath)
			if err != nil {
				return err
			}
			if err := db.ImportDataset(dbPath, table, ds); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(
				fmt.Sprintf("imported %d rows from %s into %s#%s", ds.Len(), csvPath, dbPath, table)))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&csvPath, "csv", "", "CSV file to import (default: dataset.path from the config)")
	flags.StringVar(&dbPath, "db", "data/healthcare.db", "SQLite database file")
	flags.StringVar(&table, "table", "patients", "table name")
	return cmd
}
