package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/juliandevatbs/SRLIMS/internal/export"
	"github.com/juliandevatbs/SRLIMS/internal/table"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Writes the samples flagged for inclusion to a workbook or CSV file.",
	Long: `The export command loads a workbook (--file) or a batch (--batch), flags the custody
rows given with --include and writes them, without the include flag, to --output.
The output format follows the extension of the output file: .xlsx, .xlsm or .csv.
With --sheet the rows are pasted into that sheet of an existing workbook instead,
starting at the cell given with --at.`,
	Run: cliCmdExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	addSourceFlags(exportCmd)
	exportCmd.Flags().StringP("include", "i", "all", "Comma separated custody rows to export, or 'all'")
	exportCmd.Flags().StringP("output", "o", "", "File to write")
	exportCmd.Flags().String("sheet", "", "Paste into this sheet of the existing output workbook")
	exportCmd.Flags().String("at", "A1", "Top left cell to paste at, used with --sheet")
}

func cliCmdExport(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	v, err := openView(cmd.Context(), cmd, cfg)
	exitOnError("Loading data failed", err)
	closeOnExit(v)
	defer runCleanups()

	exitOnError("Bad flags", applyViewFlags(cmd, v))

	selected := v.SelectedChainData()
	if selected.Len() == 0 {
		exitOnError("Nothing to export", errors.Wrap(table.ErrNotFound, "no samples flagged for inclusion"))
	}

	output := flagString(cmd, "output")
	exporter := export.New(fs, log)
	if sheet := flagString(cmd, "sheet"); sheet != "" {
		exitOnError("Export failed", exporter.Paste(output, sheet, flagString(cmd, "at"), selected))
	} else {
		exitOnError("Export failed", exporter.Write(output, selected))
	}
	fmt.Printf("Wrote %d samples to %s\n", selected.Len(), output)
}
