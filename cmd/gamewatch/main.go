package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hazz-dev/gamewatch/internal/runner"
	"github.com/hazz-dev/gamewatch/internal/version"
)

// Exit statuses let the external scheduler tell a detected outage
// apart from the monitor itself failing.
const (
	exitOutage   = 1
	exitInternal = 2
)

var (
	cfgFile  string
	debug    bool
	noRender bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		if errors.Is(err, runner.ErrOutage) {
			os.Exit(exitOutage)
		}
		os.Exit(exitInternal)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "gamewatch",
		Short:        "Gaming platform status monitor",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (built-in defaults when empty)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(versionCmd())
	root.AddCommand(checkCmd())

	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.String())
		},
	}
}

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check all configured services once and notify on failures",
		RunE:  runCheck,
	}
	cmd.Flags().BoolVar(&noRender, "no-render", false, "skip browser rendering for rendered checks")
	return cmd
}
