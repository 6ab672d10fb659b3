package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/netopsio/treekv/internal/datastore"
)

var lockSession uint32

var lockCmd = &cobra.Command{
	Use:   "lock [database]",
	Short: "Take the advisory lock on a database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := openDatastore()
		if err != nil {
			return err
		}
		return ds.Lock(args[0], lockSession)
	},
}

var unlockCmd = &cobra.Command{
	Use:   "unlock [database]",
	Short: "Release the advisory lock on a database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := openDatastore()
		if err != nil {
			return err
		}
		return ds.Unlock(args[0])
	},
}

var locksCmd = &cobra.Command{
	Use:   "locks",
	Short: "Show the advisory lock holder of each database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := openDatastore()
		if err != nil {
			return err
		}
		for _, db := range datastore.Databases {
			holder, err := ds.IsLocked(db)
			if err != nil {
				return err
			}
			if holder == 0 {
				fmt.Printf("%-10s unlocked\n", db)
			} else {
				fmt.Printf("%-10s locked by %d\n", db, holder)
			}
		}
		return nil
	},
}

func init() {
	lockCmd.Flags().Uint32Var(&lockSession, "session", 1, "Session id taking the lock")
	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(locksCmd)
}
