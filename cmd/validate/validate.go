package validate

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/audiofp-go/internal/analysis"
	"github.com/tphakala/audiofp-go/internal/conf"
)

var maxItems int
var outPath string

// Command creates the command resolving the validation partition.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Resolve the validation partition into a batch plan",
		Long:  "Derive the validation batch policy over the fixed query pool, truncated to the requested item count.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return analysis.ValidationPlan(settings, maxItems, analysis.Options{Out: outPath})
		},
	}

	if err := setupFlags(cmd); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the validate command.
func setupFlags(cmd *cobra.Command) error {
	cmd.Flags().IntVar(&maxItems, "max-items", 500, "Maximum number of validation items, capped to the pool size")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the resolved file list to this path, one path per line")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}
