package main

import (
	"github.com/spf13/cobra"

	"github.com/conn-castle/nodeup/internal/messages"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath  string
	mirror      string
	arch        string
	cacheDir    string
	quiet       bool
	checkLatest bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.Flags().Bool("version", false, messages.RootVersionFlag)

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", messages.FlagConfigUsage)
	flags.StringVar(&opts.mirror, "mirror", "", messages.FlagMirrorUsage)
	flags.StringVar(&opts.arch, "arch", "", messages.FlagArchUsage)
	flags.StringVar(&opts.cacheDir, "cache-dir", "", messages.FlagCacheDirUsage)
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, messages.FlagQuietUsage)
	flags.BoolVar(&opts.checkLatest, "check-latest", false, messages.FlagCheckLatestUsage)

	cmd.AddCommand(
		newInstallCmd(opts),
		newLsRemoteCmd(opts),
		newLsCmd(opts),
	)
	return cmd
}
