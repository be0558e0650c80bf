package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joshuapare/blockkit/alloc"
	"github.com/joshuapare/blockkit/server"
)

var (
	serveAddr string
	servePack bool
)

func init() {
	cmd := newServeCmd()
	cmd.Flags().StringVar(&serveAddr, "addr", server.DefaultAddr, "Address to listen on")
	cmd.Flags().BoolVar(&servePack, "pack", false, "Reorder the free list when no run is large enough")
	rootCmd.AddCommand(cmd)
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve <image>",
		Short: "Serve the allocator of an image over HTTP",
		Long: `The serve command opens an image read/write and serves its allocator
over HTTP until interrupted. Every mutation is flushed to the image.

Routes:
  GET  /snapshot  /stats  /validate
  POST /alloc?size=N  /free?addr=A&size=N  /reorder  /init

Example:
  blockctl serve pool.blk --addr 127.0.0.1:7070`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, args)
		},
	}
	return cmd
}

func runServe(ctx context.Context, args []string) error {
	return withSession(args[0], &alloc.Options{Pack: servePack}, func(s *session) error {
		srv := server.New(alloc.NewLocked(s.a), s.dt, &server.Options{Addr: serveAddr})
		printInfo("Serving %s on %s\n", args[0], srv.Addr())
		return srv.ListenAndServe(ctx)
	})
}
