package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oneconcern/imgstore/pkg/imgstore"
	"github.com/oneconcern/imgstore/pkg/web"
	"github.com/spf13/cobra"
)

const (
	defaultListenAddress = web.DefaultListenAddress
	defaultWebRoot       = web.DefaultWebRoot
	defaultUploadDir     = web.DefaultUploadDir

	logLevelFlag = "loglevel"
)

type flagsT struct {
	root struct {
		logLevel string
	}
	store struct {
		maxFiles uint32
		thumbRes string
		smallRes string
	}
	list struct {
		format string
	}
	read struct {
		resolution string
		output     string
	}
	web struct {
		listen    string
		webRoot   string
		uploadDir string
		metrics   bool
	}
	config struct {
		output string
	}
}

var imgstoreFlags = flagsT{}

func addLogLevelFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().StringVar(&imgstoreFlags.root.logLevel, logLevelFlag, "info",
		"The logging level. Levels by increasing order of verbosity: none, error, warn, info, debug")
	return logLevelFlag
}

func addMaxFilesFlag(cmd *cobra.Command) string {
	maxFiles := "max-files"
	cmd.Flags().Uint32Var(&imgstoreFlags.store.maxFiles, maxFiles, 0,
		fmt.Sprintf("The maximum number of images in the store, at most %d (defaults to %d)",
			imgstore.MaxMaxFiles, imgstore.DefaultMaxFiles))
	return maxFiles
}

func addThumbResFlag(cmd *cobra.Command) string {
	thumbRes := "thumb-res"
	cmd.Flags().StringVar(&imgstoreFlags.store.thumbRes, thumbRes, "",
		fmt.Sprintf("The bounding box of thumbnails, as WIDTHxHEIGHT, at most %s (defaults to %s)",
			formatBox(imgstore.MaxThumbRes), formatBox(imgstore.DefaultThumbRes)))
	return thumbRes
}

func addSmallResFlag(cmd *cobra.Command) string {
	smallRes := "small-res"
	cmd.Flags().StringVar(&imgstoreFlags.store.smallRes, smallRes, "",
		fmt.Sprintf("The bounding box of small images, as WIDTHxHEIGHT, at most %s (defaults to %s)",
			formatBox(imgstore.MaxSmallRes), formatBox(imgstore.DefaultSmallRes)))
	return smallRes
}

func addListFormatFlag(cmd *cobra.Command) string {
	format := "format"
	cmd.Flags().StringVar(&imgstoreFlags.list.format, format, "text", "The output format: text or json")
	return format
}

func addResolutionFlag(cmd *cobra.Command) string {
	res := "res"
	cmd.Flags().StringVar(&imgstoreFlags.read.resolution, res, "orig", "The resolution to read: orig, small or thumb")
	return res
}

func addImageOutputFlag(cmd *cobra.Command) string {
	output := "output"
	cmd.Flags().StringVar(&imgstoreFlags.read.output, output, "",
		"The file to write the image to (defaults to <imgID>_<res>.jpg)")
	return output
}

func addListenFlag(cmd *cobra.Command) string {
	listen := "listen"
	cmd.Flags().StringVar(&imgstoreFlags.web.listen, listen, "",
		fmt.Sprintf("The address to listen on (defaults to %s)", defaultListenAddress))
	return listen
}

func addWebRootFlag(cmd *cobra.Command) string {
	webRoot := "web-root"
	cmd.Flags().StringVar(&imgstoreFlags.web.webRoot, webRoot, "",
		"The directory static files are served from (defaults to the current directory)")
	return webRoot
}

func addUploadDirFlag(cmd *cobra.Command) string {
	uploadDir := "upload-dir"
	cmd.Flags().StringVar(&imgstoreFlags.web.uploadDir, uploadDir, "",
		fmt.Sprintf("The directory uploads are staged in (defaults to %s)", defaultUploadDir))
	return uploadDir
}

func addMetricsFlag(cmd *cobra.Command) string {
	enabled := "metrics"
	cmd.Flags().BoolVar(&imgstoreFlags.web.metrics, enabled, false, "Exposes prometheus metrics on /metrics")
	return enabled
}

func addConfigOutputFlag(cmd *cobra.Command) string {
	output := "output"
	cmd.Flags().StringVar(&imgstoreFlags.config.output, output, "imgstore.yaml", "The config file to write")
	return output
}

// parseBox parses a WIDTHxHEIGHT bounding box
func parseBox(s string) ([2]uint16, error) {
	var box [2]uint16
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return box, fmt.Errorf("invalid bounding box %q, expected WIDTHxHEIGHT", s)
	}
	for i, dim := range []string{w, h} {
		v, err := strconv.ParseUint(strings.TrimSpace(dim), 10, 16)
		if err != nil {
			return box, fmt.Errorf("invalid bounding box %q: %w", s, err)
		}
		box[i] = uint16(v)
	}
	return box, nil
}

func formatBox(box [2]uint16) string {
	return fmt.Sprintf("%dx%d", box[0], box[1])
}
