package main

import (
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/liftnav/internal/cli"
	"github.com/aretw0/liftnav/internal/presentation/tui"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Drive the navigation stack from an interactive prompt",
	Long: `Shows the current page and reads navigation commands (open, goto, back, home...).
Going back from the root page leaves the shell.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, host, err := loadHost(cmd)
		if err != nil {
			return err
		}
		noBanner, _ := cmd.Flags().GetBool("no-banner")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		if _, err := host.StartMirror(ctx); err != nil {
			host.Logger.Warn("redis mirror disabled", "err", err)
		}

		tty := term.IsTerminal(int(os.Stdout.Fd()))
		profile := termenv.Ascii
		if tty {
			profile = termenv.ColorProfile()
		}
		render, err := tui.NewRenderer(tty)
		if err != nil {
			return err
		}
		if tty && !noBanner {
			tui.PrintBanner(os.Stdout, profile)
		}

		sh := cli.NewShell(host.Nav,
			cli.WithIO(os.Stdin, os.Stdout),
			cli.WithRenderer(render, profile),
			cli.WithShellLogger(host.Logger),
		)
		return sh.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
	shellCmd.Flags().Bool("no-banner", false, "Do not print the banner")
}
