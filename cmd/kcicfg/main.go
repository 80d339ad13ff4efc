package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kernelci/kcicfg"
	"github.com/kernelci/kcicfg/config"
	"github.com/kernelci/kcicfg/internal/slog"
)

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

type rootOpts struct {
	log      slog.Logger
	levelStr string
	strict   string
	configs  []string
}

func newRootCmd() *cobra.Command {
	opts := rootOpts{}
	newCmd := &cobra.Command{
		Use:           "kcicfg <cmd>",
		Short:         "KernelCI platform configuration",
		Long:          "Load and inspect the platforms defined in KernelCI YAML configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.log = slog.Null{}
	setupLogFlag(newCmd, &opts)
	newCmd.PersistentFlags().StringArrayVarP(&opts.configs, "config", "c", []string{"config"}, "configuration file or directory, may be repeated")
	newCmd.PersistentFlags().StringVar(&opts.strict, "strict", "warn", "handling of unknown fields (ignore, warn, reject)")
	_ = newCmd.RegisterFlagCompletionFunc("strict", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"ignore", "warn", "reject"}, cobra.ShellCompDirectiveNoFileComp
	})
	newCmd.PersistentPreRunE = opts.preRun
	newCmd.AddCommand(
		newListCmd(&opts),
		newRenderCmd(&opts),
		newServeCmd(&opts),
		newShowCmd(&opts),
		newValidateCmd(&opts),
	)
	return newCmd
}

func (opts *rootOpts) preRun(cmd *cobra.Command, args []string) error {
	err := setupLogger(cmd, opts)
	if err != nil {
		return err
	}
	return nil
}

func (opts *rootOpts) conf() (config.Config, error) {
	var strict config.Strictness
	err := strict.UnmarshalText([]byte(opts.strict))
	if err != nil {
		return config.Config{}, fmt.Errorf("unable to parse strict %s: %w", opts.strict, err)
	}
	return config.Config{
		Strictness: strict,
		Log:        opts.log,
	}, nil
}

// load reads every configured path and returns the assembled configuration.
func (opts *rootOpts) load() (*kcicfg.Configs, error) {
	conf, err := opts.conf()
	if err != nil {
		return nil, err
	}
	c, err := kcicfg.New(conf).LoadPaths(opts.configs...)
	if err != nil {
		return nil, err
	}
	opts.log.Debug("configuration loaded", "paths", opts.configs, "platforms", len(c.Platforms))
	return c, nil
}
