package cmd

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/juliandevatbs/SRLIMS/internal/config"
)

var (
	cfgFile string
	verbose bool

	log = logrus.New()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "srlims",
	Short: "Extracts chain of custody samples and analyte results from lab reports.",
	Long: `srlims reads the chain of custody and the per analyte result sheets out of a lab
report workbook (.xls, .xlsx or .xlsm), or the same data for a lab reporting batch
out of the LIMS database. Samples can be reviewed, flagged for inclusion, exported
and published to the sample registry.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	log.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.srlims.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output")
	rootCmd.PersistentFlags().String("db-driver", "", "Database driver (sqlserver or sqlite)")
	rootCmd.PersistentFlags().String("db-dsn", "", "Database connection string")

	_ = viper.BindPFlag("database.driver", rootCmd.PersistentFlags().Lookup("db-driver"))
	_ = viper.BindPFlag("database.dsn", rootCmd.PersistentFlags().Lookup("db-dsn"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	config.Bind(viper.GetViper())

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".srlims" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".srlims")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Debugf("Using config file: %s", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Println("Unable to read config file:", err)
		os.Exit(1)
	}
}
