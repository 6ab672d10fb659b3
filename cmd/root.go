package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netopsio/treekv/internal/datastore"
	"github.com/netopsio/treekv/internal/schema"
)

var (
	dirPath    string
	schemaPath string
)

var rootCmd = &cobra.Command{
	Use:           "treekv",
	Short:         "treekv: schema-typed configuration trees over a flat key-value store",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dirPath, "dir", "d", ".", "Directory holding the database files")
	rootCmd.PersistentFlags().StringVarP(&schemaPath, "schema", "s", "", "Path to the HCL schema file")
}

// openDatastore loads the schema and opens a handle on the database dir.
// Every data command goes through here.
func openDatastore() (*datastore.Datastore, error) {
	if schemaPath == "" {
		return nil, fmt.Errorf("no schema given: use --schema")
	}
	st, err := schema.LoadFile(schemaPath)
	if err != nil {
		return nil, err
	}
	return datastore.Open(dirPath, st)
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "treekv:", err)
		os.Exit(1)
	}
}
