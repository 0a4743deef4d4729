// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package servecmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/luxfi/launchpad/pkg/application"
	"github.com/luxfi/launchpad/pkg/constants"
	"github.com/luxfi/launchpad/pkg/httpapi"
	"github.com/luxfi/launchpad/pkg/ux"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	app        *application.Launchpad
	listenAddr string
)

func NewCmd(injectedApp *application.Launchpad) *cobra.Command {
	app = injectedApp

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve pools, projects and facts over HTTP",
		Long: `Serve a read-only JSON API over the state as it is when the server starts.

  GET /pools
  GET /pools/{pool_id}
  GET /pools/{pool_id}/pledges[/{account}]
  GET /pools/{pool_id}/tiers/{tier_id}
  GET /pools/{pool_id}/winners
  GET /projects/{project_id}
  GET /projects/{project_id}/claimed/{account}
  GET /projects/{project_id}/vested?entitlement=&at=
  GET /facts?kind=&subject=&limit=`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().StringVar(&listenAddr, "listen", "", "address to listen on (default from config)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	return app.View(func(e *application.Engine) error {
		addr := listenAddr
		if addr == "" {
			addr = e.Settings.ListenAddr
		}
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return err
		}
		srv := &http.Server{
			Handler:           httpapi.New(e.Registry, e.Distributor, e.Facts, app.Log).Handler(),
			ReadHeaderTimeout: constants.APIReadHeaderTimeout,
		}
		ux.Logger.PrintToUser("Serving on http://%s", ln.Addr())
		return serve(cmd.Context(), srv, ln)
	})
}

// serve runs srv until ctx is done or the process is interrupted, then shuts it
// down gracefully.
func serve(ctx context.Context, srv *http.Server, ln net.Listener) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.APIShutdownTimeout)
		defer cancel()
		app.Log.Info("shutting down API server", zap.String("addr", ln.Addr().String()))
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
