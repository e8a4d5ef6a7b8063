package querydb

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/audiofp-go/internal/analysis"
	"github.com/tphakala/audiofp-go/internal/conf"
)

var outQuery string
var outDB string

// Command creates the command resolving both sides of the test query
// protocol.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "querydb",
		Short: "Resolve the test query and database partitions",
		Long:  "Derive the query and database batch policies for the configured test protocol, pre-paired directories or synthesized queries.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return analysis.QueryDBPlan(settings, outQuery, outDB)
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		fmt.Printf("error setting up flags: %v\n", err)
		os.Exit(1)
	}

	return cmd
}

// setupFlags configures flags specific to the querydb command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVar(&outQuery, "out-query", "", "Write the resolved query file list to this path")
	cmd.Flags().StringVar(&outDB, "out-db", "", "Write the resolved database file list to this path")
	cmd.Flags().StringVar(&settings.DataSel.TestQueryDB, "selection", viper.GetString("datasel.testquerydb"), "Test query protocol selection tag")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}
