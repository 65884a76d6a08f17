package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var configGen = &cobra.Command{
	Use:   "generate",
	Short: "Generate a config",
	Long: `Generate a config file holding the effective settings, including the flags given to this command.

The file is written to imgstore.yaml unless --output says otherwise.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		generated := CLIConfig{
			LogLevel:  imgstoreFlags.root.logLevel,
			MaxFiles:  imgstoreFlags.store.maxFiles,
			ThumbRes:  imgstoreFlags.store.thumbRes,
			SmallRes:  imgstoreFlags.store.smallRes,
			Listen:    imgstoreFlags.web.listen,
			WebRoot:   imgstoreFlags.web.webRoot,
			UploadDir: imgstoreFlags.web.uploadDir,
			Metrics:   imgstoreFlags.web.metrics,
		}
		o, err := yaml.Marshal(generated)
		if err != nil {
			wrapFatalln("serialize config to yaml", err)
			return
		}
		if err = afero.WriteFile(appFs, imgstoreFlags.config.output, o, 0644); err != nil {
			wrapFatalln("write config file", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "config written to %s\n", imgstoreFlags.config.output)
	},
}

func init() {
	addConfigOutputFlag(configGen)
	addMaxFilesFlag(configGen)
	addThumbResFlag(configGen)
	addSmallResFlag(configGen)
	addListenFlag(configGen)
	addWebRootFlag(configGen)
	addUploadDirFlag(configGen)
	addMetricsFlag(configGen)

	configCmd.AddCommand(configGen)
}
