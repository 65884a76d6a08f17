package cmd

import (
	"fmt"

	"github.com/oneconcern/imgstore/pkg/imgstore"
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create <store>",
	Short: "Create an empty image store",
	Long: `Create an empty image store file, replacing any existing file.

The capacity and the bounding boxes of derived resolutions are fixed at creation.`,
	Example: `imgstore create photos.imgst --max-files 100 --thumb-res 64x64 --small-res 256x256`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := storeConfigFromFlags()
		if err != nil {
			wrapFatalln("invalid store parameters", err)
			return
		}
		store, err := imgstore.Create(appFs, args[0], cfg, storeOptions()...)
		if err != nil {
			wrapFatalln("create store", err)
			return
		}
		if err = store.Close(); err != nil {
			wrapFatalln("close store", err)
			return
		}
		thumbW, thumbH := cfg.Box(imgstore.ResThumb)
		smallW, smallH := cfg.Box(imgstore.ResSmall)
		fmt.Fprintf(cmd.OutOrStdout(), "created %s: %d slots, thumbnails %dx%d, small images %dx%d\n",
			args[0], cfg.MaxFiles, thumbW, thumbH, smallW, smallH)
	},
}

func storeConfigFromFlags() (imgstore.Config, error) {
	maxFiles := imgstoreFlags.store.maxFiles
	if maxFiles == 0 {
		maxFiles = imgstore.DefaultMaxFiles
	}
	thumb, small := imgstore.DefaultThumbRes, imgstore.DefaultSmallRes
	var err error
	if imgstoreFlags.store.thumbRes != "" {
		if thumb, err = parseBox(imgstoreFlags.store.thumbRes); err != nil {
			return imgstore.Config{}, err
		}
	}
	if imgstoreFlags.store.smallRes != "" {
		if small, err = parseBox(imgstoreFlags.store.smallRes); err != nil {
			return imgstore.Config{}, err
		}
	}
	return imgstore.NewConfig(maxFiles, thumb, small), nil
}

func init() {
	addMaxFilesFlag(createCmd)
	addThumbResFlag(createCmd)
	addSmallResFlag(createCmd)

	rootCmd.AddCommand(createCmd)
}
