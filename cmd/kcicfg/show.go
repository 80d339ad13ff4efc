package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kernelci/kcicfg/types"
)

type showOpts struct {
	root   *rootOpts
	format string
	digest bool
}

func newShowCmd(root *rootOpts) *cobra.Command {
	opts := showOpts{
		root: root,
	}
	newCmd := &cobra.Command{
		Use:     "show <name>",
		Short:   "Show a platform",
		Long:    "Show the resolved fields of a platform",
		Example: `kcicfg show rpi4 --format json`,
		Args:    cobra.ExactArgs(1),
		RunE:    opts.run,
	}
	newCmd.Flags().StringVar(&opts.format, "format", "yaml", "output format (yaml, json)")
	newCmd.Flags().BoolVar(&opts.digest, "digest", false, "output the platform digest")
	return newCmd
}

func (opts *showOpts) run(cmd *cobra.Command, args []string) error {
	c, err := opts.root.load()
	if err != nil {
		return err
	}
	p, ok := c.Platforms[args[0]]
	if !ok {
		return fmt.Errorf("platform %s: %w", args[0], types.ErrNotFound)
	}
	if opts.digest {
		d, err := p.Digest()
		if err != nil {
			return fmt.Errorf("failed to digest %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", d.String())
		return nil
	}
	var out []byte
	switch opts.format {
	case "json":
		out, err = json.MarshalIndent(p, "", "  ")
		out = append(out, '\n')
	case "yaml":
		out, err = yaml.Marshal(map[string]types.Platform{args[0]: p})
	default:
		return fmt.Errorf("unknown format %s", opts.format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", args[0], err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
