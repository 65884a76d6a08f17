package cmd

import (
	"fmt"

	"github.com/oneconcern/imgstore/pkg/imgstore"
	"github.com/oneconcern/imgstore/pkg/imgstore/status"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <store>",
	Short: "List the content of an image store",
	Long: `List the content of an image store.

The text format dumps the header and the metadata of every image.
The json format only lists image identifiers, as {"Images": [...]}.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		mode, ok := imgstore.ParseListMode(imgstoreFlags.list.format)
		if !ok {
			wrapFatalln("list", status.ErrInvalidArgument.Wrapf(
				"unknown format %q", imgstoreFlags.list.format))
			return
		}
		store, err := imgstore.Open(appFs, args[0], storeOptions()...)
		if err != nil {
			wrapFatalln("open store", err)
			return
		}
		defer func() { _ = store.Close() }()

		out := store.List(mode)
		if out == "" {
			wrapFatalln("list", status.ErrIO.Wrapf("could not render listing"))
			return
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		if mode == imgstore.ListJSON {
			fmt.Fprintln(cmd.OutOrStdout())
		}
	},
}

func init() {
	addListFormatFlag(listCmd)

	rootCmd.AddCommand(listCmd)
}
