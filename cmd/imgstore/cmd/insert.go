package cmd

import (
	"fmt"

	units "github.com/docker/go-units"
	"github.com/oneconcern/imgstore/pkg/imgstore"
	"github.com/oneconcern/imgstore/pkg/imgstore/status"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var insertCmd = &cobra.Command{
	Use:   "insert <store> <imgID> <file>",
	Short: "Insert an image into a store",
	Long: `Insert an image file into a store, under some identifier.

When the store already holds identical content, the new image shares it and the store does not grow.`,
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		storePath, imgID, imgPath := args[0], args[1], args[2]

		img, err := afero.ReadFile(appFs, imgPath)
		if err != nil {
			wrapFatalln("read image", status.ErrIO.Wrap(err))
			return
		}
		store, err := imgstore.Open(appFs, storePath, storeOptions()...)
		if err != nil {
			wrapFatalln("open store", err)
			return
		}
		defer func() { _ = store.Close() }()

		if err = store.Insert(img, imgID); err != nil {
			wrapFatalln("insert image", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "inserted %s (%s)\n", imgID, units.HumanSize(float64(len(img))))
	},
}

func init() {
	rootCmd.AddCommand(insertCmd)
}
