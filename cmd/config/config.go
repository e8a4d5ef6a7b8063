package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tphakala/audiofp-go/internal/conf"
	"github.com/tphakala/audiofp-go/internal/errors"
)

var save bool

// Command creates the command showing and saving the effective
// configuration.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long:  "Print the effective configuration as YAML, after file, environment and flag overrides. With --save, write it back to the configuration file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if save {
				return saveConfig(settings)
			}
			return printConfig(settings)
		},
	}

	if err := setupFlags(cmd); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the config command.
func setupFlags(cmd *cobra.Command) error {
	cmd.Flags().BoolVar(&save, "save", false, "Write the effective configuration to the config file")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}

func printConfig(settings *conf.Settings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling settings to YAML: %w", err)
	}
	_, err = os.Stdout.Write(data)
	return err
}

// saveConfig writes the effective settings to the existing config file, or
// to the first default location when none exists yet.
func saveConfig(settings *conf.Settings) error {
	configPath, err := conf.FindConfigFile()
	if err != nil {
		if !errors.IsCategory(err, errors.CategoryFileIO) {
			return err
		}
		paths, pathErr := conf.GetDefaultConfigPaths()
		if pathErr != nil {
			return pathErr
		}
		configPath = filepath.Join(paths[0], "config.yaml")
		if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}
	}

	if err := conf.SaveYAMLConfig(configPath, settings); err != nil {
		return err
	}

	fmt.Println("Saved configuration to:", configPath)
	return nil
}
