package cmd

import (
	"fmt"

	units "github.com/docker/go-units"
	"github.com/oneconcern/imgstore/pkg/imgstore"
	"github.com/oneconcern/imgstore/pkg/imgstore/status"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read <store> <imgID>",
	Short: "Read an image from a store",
	Long: `Read an image from a store, at some resolution, into a file.

Thumbnails and small images are generated on first read and kept in the store.`,
	Example: `imgstore read photos.imgst beach --res thumb`,
	Args:    cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		storePath, imgID := args[0], args[1]

		res, err := imgstore.ParseResolution(imgstoreFlags.read.resolution)
		if err != nil {
			wrapFatalln("read image", err)
			return
		}
		store, err := imgstore.Open(appFs, storePath, storeOptions()...)
		if err != nil {
			wrapFatalln("open store", err)
			return
		}
		defer func() { _ = store.Close() }()

		content, err := store.Read(imgID, res)
		if err != nil {
			wrapFatalln("read image", err)
			return
		}

		output := imgstoreFlags.read.output
		if output == "" {
			output = imageFileName(imgID, res)
		}
		if err = afero.WriteFile(appFs, output, content, 0644); err != nil {
			wrapFatalln("write image", status.ErrIO.Wrap(err))
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", output, units.HumanSize(float64(len(content))))
	},
}

// imageFileName is the default file name of an image read from a store
func imageFileName(imgID string, res imgstore.Resolution) string {
	return imgID + "_" + res.String() + ".jpg"
}

func init() {
	addResolutionFlag(readCmd)
	addImageOutputFlag(readCmd)

	rootCmd.AddCommand(readCmd)
}
