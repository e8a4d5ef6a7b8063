package train

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/audiofp-go/internal/analysis"
	"github.com/tphakala/audiofp-go/internal/conf"
)

var reduceFraction float64
var outPath string

// Command creates the command resolving the training partition.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Resolve the training partition into a batch plan",
		Long:  "Derive the training batch policy from the configured selection tag and report the resulting batch plan.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return analysis.TrainPlan(settings, reduceFraction, analysis.Options{Out: outPath})
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the train command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().Float64Var(&reduceFraction, "reduce", 0, "Fraction of anchors to drop per batch, in [0,1)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the resolved file list to this path, one path per line")
	cmd.Flags().StringVar(&settings.DataSel.Train, "selection", viper.GetString("datasel.train"), "Training data selection tag")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}
