package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [database]",
	Short: "Create or truncate a database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := openDatastore()
		if err != nil {
			return err
		}
		if err := ds.Create(args[0]); err != nil {
			return err
		}
		fmt.Printf("Initialized %s.\n", args[0])
		return nil
	},
}

var dropCmd = &cobra.Command{
	Use:   "drop [database]",
	Short: "Remove a database file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := openDatastore()
		if err != nil {
			return err
		}
		return ds.Delete(args[0])
	},
}

var copyCmd = &cobra.Command{
	Use:   "copy [from] [to]",
	Short: "Copy one database wholesale onto another",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := openDatastore()
		if err != nil {
			return err
		}
		if err := ds.Copy(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Copied %s -> %s.\n", args[0], args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(copyCmd)
}
