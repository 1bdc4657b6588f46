// Package cli assembles the carve command tree: a root command carrying
// shared logging/config flags, a run command that drives one scan, and
// a devices command that lists scan targets.
package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	logLevel string
	log      = logrus.StandardLogger()
)

// NewRootCmd builds the carve command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "carve",
		Short:         "Signature-based forensic file carver",
		Long:          "carve scans a disk image or raw device for file signatures and recovers whole files without relying on filesystem metadata.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./.carve.yaml)")
	pf.StringVar(&logLevel, "log-level", "info", "log level: trace, debug, info, warn, error")

	root.AddCommand(newRunCmd())
	root.AddCommand(newDevicesCmd())
	return root
}

func initConfig(cmd *cobra.Command) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".carve")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	viper.SetEnvPrefix("CARVE")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}
