package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/audiofp-go/cmd/config"
	"github.com/tphakala/audiofp-go/cmd/custom"
	"github.com/tphakala/audiofp-go/cmd/dummydb"
	"github.com/tphakala/audiofp-go/cmd/querydb"
	"github.com/tphakala/audiofp-go/cmd/train"
	"github.com/tphakala/audiofp-go/cmd/validate"
	"github.com/tphakala/audiofp-go/internal/conf"
	"github.com/tphakala/audiofp-go/internal/logging"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "audiofp",
		Short: "Audio fingerprinting dataset CLI",
		Long:  "Resolve dataset partitions into batch plans for fingerprinter training and evaluation.",
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
	}

	subcommands := []*cobra.Command{
		train.Command(settings),
		validate.Command(settings),
		dummydb.Command(settings),
		querydb.Command(settings),
		custom.Command(settings),
		config.Command(settings),
	}

	rootCmd.AddCommand(subcommands...)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if settings.Debug {
			logging.SetLevel(slog.LevelDebug)
		}
		return nil
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Dirs.SourceRoot, "sourceroot", viper.GetString("dirs.sourceroot"), "Root directory of the fingerprint source corpus")
	rootCmd.PersistentFlags().StringVar(&settings.Dirs.MixRoot, "mixroot", viper.GetString("dirs.mixroot"), "Root directory of the broadcast mix corpus")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}
