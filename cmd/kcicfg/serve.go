package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kernelci/kcicfg"
)

type serveOpts struct {
	root *rootOpts
	addr string
	port int
}

func newServeCmd(root *rootOpts) *cobra.Command {
	opts := serveOpts{
		root: root,
	}
	newCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve platforms over HTTP",
		Long:  "Serve the configured platforms as JSON on /platforms and /platforms/<name>",
		Args:  cobra.NoArgs,
		RunE:  opts.run,
	}
	newCmd.Flags().StringVar(&opts.addr, "addr", "", "listener interface or address")
	newCmd.Flags().IntVar(&opts.port, "port", 8080, "listener port")
	return newCmd
}

func (opts *serveOpts) run(cmd *cobra.Command, args []string) error {
	c, err := opts.root.load()
	if err != nil {
		return err
	}
	conf, err := opts.root.conf()
	if err != nil {
		return err
	}
	conf.HTTP.Addr = fmt.Sprintf("%s:%d", opts.addr, opts.port)
	s := kcicfg.NewServer(conf, kcicfg.PlatformConfig{Platforms: c.Platforms})
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	// include signal handler to gracefully shutdown
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = s.Run(ctx)
	if err != nil {
		return err
	}
	<-ctx.Done()
	opts.root.log.Debug("interrupt received, shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.Shutdown(shutCtx)
	if err != nil {
		opts.root.log.Warn("graceful shutdown failed", "err", err)
		return err
	}
	return nil
}
