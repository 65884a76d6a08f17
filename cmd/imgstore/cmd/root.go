// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/oneconcern/imgstore/pkg/dlogger"
	"github.com/oneconcern/imgstore/pkg/imgstore"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "imgstore",
	Short: "imgstore manages single-file image stores",
	Long: `imgstore manages image stores: single files holding a fixed number of images,
together with their thumbnail and small variants.

Identical images inserted under different identifiers are stored once.
Deleting an image only marks its slot as free: use "imgstore gc" to reclaim the space.
`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed(logLevelFlag) && config != nil && config.LogLevel != "" {
			imgstoreFlags.root.logLevel = config.LogLevel
		}
		var err error
		logger, err = dlogger.GetLogger(imgstoreFlags.root.logLevel,
			dlogger.WithEncoding(dlogger.EncodingConsole),
			dlogger.WithOutput("stderr"),
		)
		if err != nil {
			wrapFatalln("invalid log level", err)
			return
		}
	},
}

var (
	config *CLIConfig

	logger = zap.NewNop()

	// appFs is the filesystem holding stores and images, replaced in tests
	appFs = afero.NewOsFs()
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)

	addLogLevelFlag(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("loglevel", "")
	viper.SetDefault("maxfiles", imgstore.DefaultMaxFiles)
	viper.SetDefault("thumbres", formatBox(imgstore.DefaultThumbRes))
	viper.SetDefault("smallres", formatBox(imgstore.DefaultSmallRes))
	viper.SetDefault("listen", defaultListenAddress)
	viper.SetDefault("webroot", defaultWebRoot)
	viper.SetDefault("uploaddir", defaultUploadDir)
	viper.SetDefault("metrics", false)

	if os.Getenv("IMGSTORE_CONFIG") != "" {
		// Use config file from the env.
		viper.SetConfigFile(os.Getenv("IMGSTORE_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.imgstore")
		viper.AddConfigPath("/etc/imgstore")
		viper.SetConfigName("imgstore")
	}

	viper.SetEnvPrefix("imgstore")
	viper.AutomaticEnv() // read in environment variables that match
	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Println("Using config file:", viper.ConfigFileUsed())
	}
	var err error
	config, err = newConfig()
	if err != nil {
		wrapFatalln("invalid configuration", err)
		return
	}
	config.setImgstoreParams(&imgstoreFlags)
}

// storeOptions are passed to every store opened by the CLI
func storeOptions() []imgstore.Option {
	return []imgstore.Option{imgstore.WithLogger(logger)}
}
