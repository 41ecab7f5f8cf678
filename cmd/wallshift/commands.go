package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wallshift/internal/ipc"
)

func newNextCommand(socket func() string) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Advance to the next wallpaper",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := ipc.Send(socket(), ipc.Request{Command: ipc.CommandNext, Output: output})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Advance only this output")
	return cmd
}

func newPreviousCommand(socket func() string) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "previous",
		Short: "Return to the previous wallpaper",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := ipc.Send(socket(), ipc.Request{Command: ipc.CommandPrevious, Output: output})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Step back only this output")
	return cmd
}

func newPauseCommand(socket func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause automatic rotation",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := ipc.Send(socket(), ipc.Request{Command: ipc.CommandPause})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
}

func newResumeCommand(socket func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Resume automatic rotation",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := ipc.Send(socket(), ipc.Request{Command: ipc.CommandResume})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
}

func newTogglePauseCommand(socket func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-pause",
		Short: "Toggle automatic rotation on or off",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := ipc.Send(socket(), ipc.Request{Command: ipc.CommandTogglePause})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
}

func newReloadCommand(socket func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Reload the daemon configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := ipc.Send(socket(), ipc.Request{Command: ipc.CommandReload})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
}

func newStatusCommand(socket func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show rotation state for every output",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := ipc.Send(socket(), ipc.Request{Command: ipc.CommandStatus})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderStatus(resp, stdoutIsTerminal()))
			return nil
		},
	}
}
