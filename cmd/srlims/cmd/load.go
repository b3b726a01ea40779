package cmd

import (
	"github.com/spf13/cobra"

	"github.com/juliandevatbs/SRLIMS/internal/display"
)

// loadCmd represents the load command
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Loads a lab report workbook and shows its chain of custody and analyte results.",
	Long: `The load command reads the chain of custody sheet and every analyte sheet of the
workbook. Use --select to show the results of one sample and --include to flag
samples; the flagged samples are listed at the end.`,
	Run: cliCmdLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().StringP("file", "f", "", "Path to the excel spreadsheet")
	loadCmd.Flags().String("format", "table", "Output format: table, json, yaml or csv")
	addViewFlags(loadCmd)
}

func cliCmdLoad(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	format, err := display.ParseFormat(flagString(cmd, "format"))
	exitOnError("Bad flags", err)

	v, err := newOpener(cfg).OpenWorkbook(flagString(cmd, "file"))
	exitOnError("Loading spreadsheet failed", err)
	closeOnExit(v)
	defer runCleanups()

	showView(cmd, v, format)
}

func flagString(cmd *cobra.Command, name string) string {
	s, err := cmd.Flags().GetString(name)
	exitOnError("error", err)
	return s
}
