package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/juliandevatbs/SRLIMS/internal/api"
	"github.com/juliandevatbs/SRLIMS/internal/view"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the chain of custody and matrix grids as JSON over HTTP.",
	Long: `The serve command starts an HTTP server holding one session. A front end loads a
workbook or a batch into the session, then selects and flags custody rows:

  POST /sources/workbook       {"path": "..."}
  POST /sources/batch          {"batch_id": "..."}
  GET  /custody
  PUT  /custody/selection      {"row": 0}
  PUT  /custody/{row}/include  {"include": true}
  PUT  /custody/include        {"rows": [0, 2]}
  GET  /matrix[?all=true]
  GET  /selected

Only workbooks under serve.root (--root, default the working directory) can be
opened. The server listens on localhost unless --addr says otherwise.`,
	Run: cliCmdServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default localhost:8080)")
	serveCmd.Flags().String("root", "", "Directory workbooks are opened from (default .)")
	_ = viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("serve.root", serveCmd.Flags().Lookup("root"))
}

func cliCmdServe(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	session := view.NewSession(log)
	defer session.Close()

	opener := newOpener(cfg)
	opener.Root = cfg.Serve.Root

	srv := &http.Server{
		Addr:    cfg.Serve.Addr,
		Handler: api.Router(session, opener, log, true),
	}

	errs := make(chan error, 1)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Infof("Listening on %s", cfg.Serve.Addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if err != http.ErrServerClosed {
			log.Errorf("Server stopped: %s", err)
		}
	case s := <-sig:
		log.Infof("Received %s, shutting down", s)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Errorf("Shutdown failed: %s", err)
		}
	}
}
