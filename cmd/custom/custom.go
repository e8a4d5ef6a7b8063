package custom

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/audiofp-go/internal/analysis"
	"github.com/tphakala/audiofp-go/internal/conf"
)

var fromManifest bool
var verify bool
var outPath string

// Command creates the command resolving a caller supplied source into a
// pass-through batch plan.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "custom [source]",
		Short: "Resolve a custom directory or manifest into a batch plan",
		Long:  "Scan a directory recursively for wav files, or read a manifest with one path per line, and derive a pass-through batch policy over the result.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return analysis.CustomPlan(settings, args[0], fromManifest, verify, analysis.Options{Out: outPath})
		},
	}

	if err := setupFlags(cmd); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the custom command.
func setupFlags(cmd *cobra.Command) error {
	cmd.Flags().BoolVar(&fromManifest, "manifest", false, "Treat the source as a manifest file instead of a directory")
	cmd.Flags().BoolVar(&verify, "verify", false, "Probe every wav header and fail on a sample rate mismatch")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the resolved file list to this path, one path per line")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}
