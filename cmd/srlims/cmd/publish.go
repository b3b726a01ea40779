package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/juliandevatbs/SRLIMS/internal/publish"
)

// publishCmd represents the publish command
var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Sends the samples flagged for inclusion to the sample registry.",
	Long: `The publish command loads a workbook (--file) or a batch (--batch), flags the custody
rows given with --include and posts them as one submission to the sample registry
configured under publish.url. Samples are filed under --batch-id, or under the lab
reporting batch of the first sample when --batch-id is not given.`,
	Run: cliCmdPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
	addSourceFlags(publishCmd)
	publishCmd.Flags().StringP("include", "i", "all", "Comma separated custody rows to publish, or 'all'")
	publishCmd.Flags().String("batch-id", "", "Registry batch to file the samples under")
	publishCmd.Flags().StringP("url", "u", "", "URL for the sample registry API")
	publishCmd.Flags().StringP("apikey", "k", "", "apikey to pass in REST API calls")

	_ = viper.BindPFlag("publish.url", publishCmd.Flags().Lookup("url"))
	_ = viper.BindPFlag("publish.apikey", publishCmd.Flags().Lookup("apikey"))
}

func cliCmdPublish(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	v, err := openView(cmd.Context(), cmd, cfg)
	exitOnError("Loading data failed", err)
	closeOnExit(v)
	defer runCleanups()

	exitOnError("Bad flags", applyViewFlags(cmd, v))

	creater := publish.NewCreater(flagString(cmd, "batch-id"), createRegistryClient(cfg), log)
	receipt, err := creater.Apply(v.SelectedSamples())
	exitOnError("Publishing failed", err)

	fmt.Printf("Submission %s: %d samples accepted\n", receipt.SubmissionID, receipt.Accepted)
}
