package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/juliandevatbs/SRLIMS/internal/display"
	"github.com/juliandevatbs/SRLIMS/internal/view"
)

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Loads a lab reporting batch from the LIMS database.",
	Long: `The query command reads the samples and test results of a lab reporting batch
from the database configured under database.driver and database.dsn. Results are
grouped by analyte the same way a workbook has one sheet per analyte.`,
	Run: cliCmdQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringP("batch", "b", "", "Lab reporting batch id")
	queryCmd.Flags().String("format", "table", "Output format: table, json, yaml or csv")
	addViewFlags(queryCmd)
}

func cliCmdQuery(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	format, err := display.ParseFormat(flagString(cmd, "format"))
	exitOnError("Bad flags", err)

	v, err := newOpener(cfg).OpenBatch(cmd.Context(), flagString(cmd, "batch"))
	exitOnError("Querying the database failed", err)
	closeOnExit(v)
	defer runCleanups()

	showView(cmd, v, format)
}

// showView applies the view flags and prints v, followed by the samples
// flagged for inclusion when there are any.
func showView(cmd *cobra.Command, v *view.ChainView, format display.Format) {
	exitOnError("Bad flags", applyViewFlags(cmd, v))

	d := display.NewDisplayer(cmd.OutOrStdout(), format)
	exitOnError("Unable to display data", d.Apply(v))

	if selected := v.SelectedSamples(); len(selected) != 0 && format == display.TableFormat {
		fmt.Fprintln(cmd.OutOrStdout(), "Samples flagged for inclusion:")
		exitOnError("Unable to display samples", d.Samples(selected))
	}
}
