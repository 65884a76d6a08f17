package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CLIConfig describes the CLI configuration.
//
// Values apply to flags left unset on the command line.
type CLIConfig struct {
	// bug in viper? Need to keep names of fields the same as the serialized names..
	LogLevel  string `json:"loglevel" yaml:"loglevel"`
	MaxFiles  uint32 `json:"maxfiles" yaml:"maxfiles"`
	ThumbRes  string `json:"thumbres" yaml:"thumbres"`
	SmallRes  string `json:"smallres" yaml:"smallres"`
	Listen    string `json:"listen" yaml:"listen"`
	WebRoot   string `json:"webroot" yaml:"webroot"`
	UploadDir string `json:"uploaddir" yaml:"uploaddir"`
	Metrics   bool   `json:"metrics" yaml:"metrics"`
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *CLIConfig) setImgstoreParams(flags *flagsT) {
	if flags.store.maxFiles == 0 {
		flags.store.maxFiles = c.MaxFiles
	}
	if flags.store.thumbRes == "" {
		flags.store.thumbRes = c.ThumbRes
	}
	if flags.store.smallRes == "" {
		flags.store.smallRes = c.SmallRes
	}
	if flags.web.listen == "" {
		flags.web.listen = c.Listen
	}
	if flags.web.webRoot == "" {
		flags.web.webRoot = c.WebRoot
	}
	if flags.web.uploadDir == "" {
		flags.web.uploadDir = c.UploadDir
	}
	if !flags.web.metrics {
		flags.web.metrics = c.Metrics
	}
}

// configCmd represents the config related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage a config",
	Long: `Commands to manage the imgstore CLI config.

The config file holds defaults for the flags of store creation and of the web server.
It is looked up as imgstore.yaml in the current directory, then in $HOME/.imgstore and /etc/imgstore,
unless the IMGSTORE_CONFIG environment variable points to a file.
Environment variables such as IMGSTORE_MAXFILES override the file.`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
