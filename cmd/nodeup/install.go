package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/nodeup/internal/messages"
	"github.com/conn-castle/nodeup/internal/pathenv"
	"github.com/conn-castle/nodeup/internal/versionfile"
)

func newInstallCmd(root *rootOptions) *cobra.Command {
	var (
		versionFilePath string
		noPath          bool
	)
	cmd := &cobra.Command{
		Use:   messages.InstallUse,
		Short: messages.InstallShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stderr := cmd.ErrOrStderr()
			spec, err := installSpec(args, versionFilePath, stderr, root.quiet)
			if err != nil {
				return err
			}
			a, err := newApp(root, stderr)
			if err != nil {
				return err
			}
			res, err := a.resolver().ResolveDetailed(cmd.Context(), spec)
			if err != nil {
				return err
			}
			if !noPath {
				if err := pathenv.Register(pathSystem, res.ExecDir); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(a.out, messages.PathEnvAddedFmt, res.ExecDir)
			}
			_, _ = fmt.Fprintf(a.out, messages.InstallResolvedFmt, res.Version, res.Root)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), res.ExecDir)
			return nil
		},
	}
	cmd.Flags().StringVar(&versionFilePath, "version-file", "", messages.FlagVersionFileUsage)
	cmd.Flags().BoolVar(&noPath, "no-path", false, messages.FlagNoPathUsage)
	return cmd
}

// installSpec picks the spec from the positional argument, the --version-file flag or
// the nearest version file above the working directory, in that order.
func installSpec(args []string, versionFilePath string, stderr io.Writer, quiet bool) (string, error) {
	hasArg := len(args) > 0 && strings.TrimSpace(args[0]) != ""
	hasFile := strings.TrimSpace(versionFilePath) != ""
	switch {
	case hasArg && hasFile:
		return "", errors.New(messages.InstallSpecAndVersionFile)
	case hasArg:
		return strings.TrimSpace(args[0]), nil
	case !hasFile:
		cwd, err := getwd()
		if err != nil {
			return "", err
		}
		found, ok, err := versionfile.Find(cwd)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", fmt.Errorf(messages.InstallNoSpecFmt, cwd)
		}
		if !quiet {
			_, _ = fmt.Fprintf(stderr, messages.InstallUsingVersionFileFmt, found)
		}
		versionFilePath = found
	}

	spec, warnings, err := versionfile.Read(versionFilePath)
	warnColor := color.New(color.FgYellow)
	for _, w := range warnings {
		_, _ = warnColor.Fprintf(stderr, messages.InstallVersionFileWarningFmt, w)
	}
	if err != nil {
		return "", err
	}
	return spec, nil
}
