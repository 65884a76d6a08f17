package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/oneconcern/imgstore/pkg/imgstore"
	"github.com/oneconcern/imgstore/pkg/metrics"
	"github.com/oneconcern/imgstore/pkg/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var errInterrupted = errors.New("interrupted")

var serveCmd = &cobra.Command{
	Use:   "serve <store>",
	Short: "Serve a store over HTTP",
	Long: `Serve a store over HTTP.

The API is exposed under /imgStore (list, read, delete, insert).
Any other path is served from the web root, which is expected to hold an index.html page.
The server stops on SIGINT or SIGTERM.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var (
			storeOpts = storeOptions()
			webOpts   = []web.Option{web.WithLogger(logger), web.WithFs(appFs)}
		)
		if imgstoreFlags.web.metrics {
			reg := prometheus.NewRegistry()
			storeOpts = append(storeOpts, imgstore.WithMetrics(metrics.New(reg)))
			webOpts = append(webOpts, web.WithMetrics(reg))
		}

		store, err := imgstore.Open(appFs, args[0], storeOpts...)
		if err != nil {
			wrapFatalln("open store", err)
			return
		}
		defer func() { _ = store.Close() }()

		srv, err := web.NewServer(store, web.Config{
			ListenAddress: imgstoreFlags.web.listen,
			WebRoot:       imgstoreFlags.web.webRoot,
			UploadDir:     imgstoreFlags.web.uploadDir,
		}, webOpts...)
		if err != nil {
			wrapFatalln("server init error", err)
			return
		}

		_, _ = color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(),
			"Starting imgStore server on http://%s (%d of %d images)\n",
			srv.Config().ListenAddress, store.Header.NumFiles, store.Header.MaxFiles)

		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error {
			return srv.ListenAndServe(ctx)
		})
		g.Go(func() error {
			return watchSignals(ctx)
		})
		if err = g.Wait(); err != nil && !errors.Is(err, errInterrupted) {
			wrapFatalln("server listen error", err)
			return
		}
	},
}

// watchSignals returns errInterrupted on SIGINT or SIGTERM, so as to stop the server
func watchSignals(ctx context.Context) error {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigc)

	select {
	case sig := <-sigc:
		logger.Info("received signal, stopping", zap.Stringer("signal", sig))
		return errInterrupted
	case <-ctx.Done():
		return nil
	}
}

func init() {
	addListenFlag(serveCmd)
	addWebRootFlag(serveCmd)
	addUploadDirFlag(serveCmd)
	addMetricsFlag(serveCmd)

	rootCmd.AddCommand(serveCmd)
}
