package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kernelci/kcicfg/internal/sloghandle"
)

func setupLogFlag(newCmd *cobra.Command, opts *rootOpts) {
	newCmd.PersistentFlags().StringVarP(&opts.levelStr, "verbosity", "v", "warn", "Log level (debug, info, warn, error, off)")
	_ = newCmd.RegisterFlagCompletionFunc("verbosity", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error", "off"}, cobra.ShellCompDirectiveNoFileComp
	})
}

func setupLogger(cmd *cobra.Command, opts *rootOpts) error {
	if opts.levelStr == "off" {
		opts.log = slog.New(sloghandle.Discard)
		return nil
	}
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(opts.levelStr))
	if err != nil {
		return fmt.Errorf("unable to parse verbosity %s: %v", opts.levelStr, err)
	}
	opts.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: lvl}))
	return nil
}
