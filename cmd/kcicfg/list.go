package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kernelci/kcicfg"
)

type listOpts struct {
	root *rootOpts
	arch string
}

func newListCmd(root *rootOpts) *cobra.Command {
	opts := listOpts{
		root: root,
	}
	newCmd := &cobra.Command{
		Use:   "list",
		Short: "List platform names",
		Long:  "List the names of every configured platform, sorted",
		Args:  cobra.NoArgs,
		RunE:  opts.run,
	}
	newCmd.Flags().StringVar(&opts.arch, "arch", "", "only list platforms with this architecture")
	return newCmd
}

func (opts *listOpts) run(cmd *cobra.Command, args []string) error {
	c, err := opts.root.load()
	if err != nil {
		return err
	}
	for _, name := range kcicfg.Names(c.Platforms) {
		if opts.arch != "" && c.Platforms[name].Arch() != opts.arch {
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
