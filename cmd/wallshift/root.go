package main

import (
	"strings"

	"github.com/spf13/cobra"

	"wallshift/internal/config"
)

func newRootCommand() *cobra.Command {
	var socketFlag string
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "wallshift",
		Short:         "Control the wallshift wallpaper rotation daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&socketFlag, "socket", "", "Path to the wallshiftd control socket")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	resolve := func() string { return resolveSocket(socketFlag, configFlag) }

	rootCmd.AddCommand(newNextCommand(resolve))
	rootCmd.AddCommand(newPreviousCommand(resolve))
	rootCmd.AddCommand(newPauseCommand(resolve))
	rootCmd.AddCommand(newResumeCommand(resolve))
	rootCmd.AddCommand(newTogglePauseCommand(resolve))
	rootCmd.AddCommand(newReloadCommand(resolve))
	rootCmd.AddCommand(newStatusCommand(resolve))
	rootCmd.AddCommand(newConfigCommand(&configFlag))

	return rootCmd
}

// resolveSocket picks the control socket: the explicit flag wins, then the
// config file's setting, then the runtime-dir default.
func resolveSocket(socketFlag, configFlag string) string {
	if s := strings.TrimSpace(socketFlag); s != "" {
		return s
	}
	if cfg, _, err := config.Load(configFlag); err == nil {
		return cfg.SocketPath()
	}
	return config.DefaultSocketPath()
}
