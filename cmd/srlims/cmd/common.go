package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/juliandevatbs/SRLIMS/internal/config"
	"github.com/juliandevatbs/SRLIMS/internal/publish"
	"github.com/juliandevatbs/SRLIMS/internal/report"
	"github.com/juliandevatbs/SRLIMS/internal/spreadsheet"
	"github.com/juliandevatbs/SRLIMS/internal/table"
	"github.com/juliandevatbs/SRLIMS/internal/view"
)

var fs = afero.NewOsFs()

func loadConfig() *config.Config {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		fmt.Println("error", err)
		os.Exit(1)
	}
	return cfg
}

func newLoader(cfg *config.Config) *report.Loader {
	return report.NewLoader(spreadsheet.NewReader(fs, log), cfg.ReportLayout(), log)
}

func newOpener(cfg *config.Config) *view.Opener {
	return &view.Opener{
		Loader:   newLoader(cfg),
		Database: cfg.StoreConfig(),
		Log:      log,
	}
}

// addSourceFlags registers the -f/-b flags used by commands that accept either
// a workbook or a batch.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "Path to the lab report workbook")
	cmd.Flags().StringP("batch", "b", "", "Lab reporting batch id to load from the database")
}

// addViewFlags registers the flags that act on a loaded view.
func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("select", "s", -1, "Custody row (as numbered in the output) whose matrix rows are shown")
	cmd.Flags().StringP("include", "i", "", "Comma separated custody rows to flag for inclusion, or 'all'")
}

// openView loads the view named by the -f or -b flag.
func openView(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (*view.ChainView, error) {
	file, _ := cmd.Flags().GetString("file")
	batch, _ := cmd.Flags().GetString("batch")

	switch {
	case file != "" && batch != "":
		return nil, errors.Wrap(table.ErrInvalidInput, "give either --file or --batch, not both")
	case file != "":
		return newOpener(cfg).OpenWorkbook(file)
	case batch != "":
		return newOpener(cfg).OpenBatch(ctx, batch)
	default:
		return nil, errors.Wrap(table.ErrInvalidInput, "one of --file or --batch is required")
	}
}

// applyViewFlags applies --select and --include to v.
func applyViewFlags(cmd *cobra.Command, v *view.ChainView) error {
	if f := cmd.Flags().Lookup("select"); f != nil {
		if row, _ := cmd.Flags().GetInt("select"); row >= 0 {
			if err := v.Select(row); err != nil {
				return err
			}
		}
	}

	if f := cmd.Flags().Lookup("include"); f != nil {
		include, _ := cmd.Flags().GetString("include")
		rows, err := parseRows(include, v.Custody().Len())
		if err != nil {
			return err
		}
		if rows != nil {
			return v.IncludeOnly(rows)
		}
	}

	return nil
}

// parseRows parses "0,2,5" or "all". An empty string gives nil.
func parseRows(s string, count int) ([]int, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return nil, nil
	case "all":
		rows := make([]int, count)
		for i := range rows {
			rows[i] = i
		}
		return rows, nil
	}

	var rows []int
	for _, field := range strings.Split(s, ",") {
		row, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, errors.Wrapf(table.ErrInvalidInput, "bad row '%s'", field)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func createRegistryClient(cfg *config.Config) *publish.Client {
	client := publish.NewClient(cfg.Publish.URL, cfg.Publish.APIKey)
	if cfg.Publish.Insecure {
		client.SkipTLSVerify()
	}
	return client
}

var (
	exit     = os.Exit
	cleanups []func()
)

// closeOnExit closes c when runCleanups runs, either at the end of the
// command or before exitOnError exits.
func closeOnExit(c io.Closer) {
	cleanups = append(cleanups, func() {
		if err := c.Close(); err != nil {
			log.Warnf("Error closing: %s", err)
		}
	})
}

// runCleanups runs the registered cleanups in reverse order, once.
func runCleanups() {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	cleanups = nil
}

// exitOnError prints err, runs the cleanups and exits. The problems held by
// a multierror are printed one per line.
func exitOnError(msg string, err error) {
	if err == nil {
		return
	}

	fmt.Println(msg)
	if merr, ok := err.(*multierror.Error); ok {
		for _, e := range merr.Errors {
			fmt.Println(" ", e)
		}
	} else {
		fmt.Println(" ", err)
	}

	runCleanups()
	exit(1)
}
