package cmd

import (
	"fmt"

	"github.com/oneconcern/imgstore/pkg/imgstore"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <store> <imgID>",
	Short: "Delete an image from a store",
	Long: `Delete an image from a store.

The slot is freed but the content stays in the file until the next "imgstore gc".`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := imgstore.Open(appFs, args[0], storeOptions()...)
		if err != nil {
			wrapFatalln("open store", err)
			return
		}
		defer func() { _ = store.Close() }()

		if err = store.Delete(args[1]); err != nil {
			wrapFatalln("delete image", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[1])
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
