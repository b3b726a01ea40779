package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Checks the given lab report workbook for errors and reports the errors.",
	Long: `The check command validates the layout, reads every sheet of the workbook and reports
all the problems found: missing sheets, custody rows without a sample identification,
samples listed twice and results for samples that are not on the chain of custody.`,
	Run: cliCmdCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringP("file", "f", "", "Path to the excel spreadsheet")
}

func cliCmdCheck(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	file := flagString(cmd, "file")

	exitOnError("Checking spreadsheet failed", newLoader(cfg).Check(file))
	fmt.Println("No problems found in", file)
}
