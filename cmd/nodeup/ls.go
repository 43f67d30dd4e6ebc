package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/nodeup/internal/catalog"
	"github.com/conn-castle/nodeup/internal/install"
	"github.com/conn-castle/nodeup/internal/messages"
)

func newLsRemoteCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.LsRemoteUse,
		Short: messages.LsRemoteShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := "*"
			if len(args) > 0 {
				spec = args[0]
			}
			a, err := newApp(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			entries, err := a.catalog.Available(cmd.Context())
			if err != nil {
				return err
			}
			matches, err := catalog.Satisfying(entries, spec, a.warn)
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				return fmt.Errorf(messages.LsRemoteNoneFmt, spec, a.platform)
			}
			out := cmd.OutOrStdout()
			for _, e := range matches {
				if e.LTS != "" {
					_, _ = fmt.Fprintf(out, messages.LsRemoteLTSFmt, e.Version, e.LTS)
					continue
				}
				_, _ = fmt.Fprintf(out, messages.LsRemoteEntryFmt, e.Version)
			}
			return nil
		},
	}
}

func newLsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.LsUse,
		Short: messages.LsShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			versions, err := a.cache.Versions(install.ToolName, a.platform.Arch)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(versions) == 0 {
				_, _ = fmt.Fprintf(out, messages.LsEmptyFmt, a.cache.Root())
				return nil
			}
			for _, v := range versions {
				_, _ = fmt.Fprintf(out, messages.LsEntryFmt, v)
			}
			return nil
		},
	}
}
