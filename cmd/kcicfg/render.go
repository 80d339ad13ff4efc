package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kernelci/kcicfg/internal/template"
	"github.com/kernelci/kcicfg/types"
)

type renderOpts struct {
	root     *rootOpts
	template string
}

func newRenderCmd(root *rootOpts) *cobra.Command {
	opts := renderOpts{
		root: root,
	}
	newCmd := &cobra.Command{
		Use:     "render <name>",
		Short:   "Render a template for a platform",
		Long:    "Render a Go text/template with the fields and params of a platform",
		Example: `echo 'console={{ .Params.console }}' | kcicfg render rpi4 --template -`,
		Args:    cobra.ExactArgs(1),
		RunE:    opts.run,
	}
	newCmd.Flags().StringVarP(&opts.template, "template", "t", "", "template file, - for stdin")
	_ = newCmd.MarkFlagRequired("template")
	return newCmd
}

func (opts *renderOpts) run(cmd *cobra.Command, args []string) error {
	c, err := opts.root.load()
	if err != nil {
		return err
	}
	p, ok := c.Platforms[args[0]]
	if !ok {
		return fmt.Errorf("platform %s: %w", args[0], types.ErrNotFound)
	}
	var text []byte
	if opts.template == "-" {
		text, err = io.ReadAll(cmd.InOrStdin())
	} else {
		text, err = os.ReadFile(opts.template)
	}
	if err != nil {
		return fmt.Errorf("failed to read template %s: %w", opts.template, err)
	}
	return template.Render(cmd.OutOrStdout(), string(text), p)
}
