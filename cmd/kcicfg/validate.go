package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type validateOpts struct {
	root *rootOpts
}

func newValidateCmd(root *rootOpts) *cobra.Command {
	opts := validateOpts{
		root: root,
	}
	newCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		Long:  "Load the configuration and report any entry that cannot be loaded",
		Args:  cobra.NoArgs,
		RunE:  opts.run,
	}
	return newCmd
}

func (opts *validateOpts) run(cmd *cobra.Command, args []string) error {
	c, err := opts.root.load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d platforms OK\n", len(c.Platforms))
	return nil
}
