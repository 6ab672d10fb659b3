package cmd

import (
	"fmt"
	"os"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/netopsio/treekv/internal/datastore"
	"github.com/netopsio/treekv/internal/tree"
)

var putOp string

var getCmd = &cobra.Command{
	Use:   "get [database] [path]",
	Short: "Read a (sub)tree of a database as JSON",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := openDatastore()
		if err != nil {
			return err
		}
		query := "/"
		if len(args) == 2 {
			query = args[1]
		}
		a, err := ds.Get(args[0], query)
		if err != nil {
			return err
		}
		fmt.Println(oj.JSON(a.Export(ds.Schema()), &oj.Options{Indent: 2, Sort: true}))
		return nil
	},
}

var putCmd = &cobra.Command{
	Use:   "put [database] [document.json]",
	Short: "Write a JSON document into a database",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := openDatastore()
		if err != nil {
			return err
		}
		op, err := datastore.ParseOp(putOp)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		a, err := tree.ParseJSON(ds.Schema(), datastore.RootName, data)
		if err != nil {
			return err
		}
		return ds.Put(args[0], op, a)
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump [database]",
	Short: "Raw dump of stored keys and values, no tree interpretation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := openDatastore()
		if err != nil {
			return err
		}
		pairs, err := ds.Dump(args[0])
		if err != nil {
			return err
		}
		for _, p := range pairs {
			if p.Value != nil {
				fmt.Printf("%s %s\n", p.Key, *p.Value)
			} else {
				fmt.Println(p.Key)
			}
		}
		return nil
	},
}

func init() {
	putCmd.Flags().StringVar(&putOp, "op", "merge", "Operation: merge|replace|create|delete|remove|none")
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(dumpCmd)
}
