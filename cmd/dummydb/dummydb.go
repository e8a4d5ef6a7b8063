package dummydb

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/audiofp-go/internal/analysis"
	"github.com/tphakala/audiofp-go/internal/conf"
)

var outPath string

// Command creates the command resolving the distractor database partition.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dummydb",
		Short: "Resolve the distractor database partition into a batch plan",
		Long:  "Derive the pass-through batch policy over the large distractor database, truncated per the configured selection tag.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return analysis.DummyDBPlan(settings, analysis.Options{Out: outPath})
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the dummydb command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the resolved file list to this path, one path per line")
	cmd.Flags().StringVar(&settings.DataSel.TestDummyDB, "selection", viper.GetString("datasel.testdummydb"), "Dummy database selection tag, a named size or an item count")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}
