//go:build linux

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kevmo314/go-uvc-engine/pkg/relay"
)

func newServeCommand(opts *globalOptions) *cobra.Command {
	var ff formatFlags
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Stream a camera and relay its samples over HTTP",
		Long: `Negotiate a format, start streaming and serve:
  /stream.mjpeg  multipart/x-mixed-replace sample feed
  /events        websocket feed of sample metadata
  /formats       the format catalog of the streaming interface
  /params        the committed stream parameters`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			d, err := opts.open()
			if err != nil {
				return err
			}
			defer d.Close()

			params, err := d.Negotiate(ctx, ff.iface, ff.request())
			if err != nil {
				return err
			}
			si, err := d.StreamingInterface(params.InterfaceNumber)
			if err != nil {
				return err
			}
			stream, err := d.StartStream(ctx, params)
			if err != nil {
				return err
			}

			srv := relay.NewServer(si, params,
				relay.WithLogger(opts.log),
				relay.WithSubscriberBuffer(opts.cfg.Relay.SubscriberBuffer),
			)
			httpServer := &http.Server{Addr: opts.cfg.Relay.Listen, Handler: srv.Handler()}

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				// a stream that ends on its own takes the server down with it.
				defer stop()
				defer srv.Close()
				return srv.Pump(ctx, stream)
			})
			g.Go(func() error {
				opts.log.WithField("listen", httpServer.Addr).Info("relay listening")
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				stream.Close()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return httpServer.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}
	ff.register(cmd.Flags())
	cmd.Flags().String("listen", "", "relay listen address (default from relay.listen)")
	opts.v.BindPFlag("relay.listen", cmd.Flags().Lookup("listen"))
	return cmd
}
