package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"wallshift/internal/ipc"
)

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// renderStatus formats a status response. Terminals get a rounded table;
// pipes get plain tab-separated lines.
func renderStatus(resp *ipc.Response, terminal bool) string {
	var b strings.Builder

	if resp.Paused {
		b.WriteString("Rotation: paused\n")
	} else {
		b.WriteString("Rotation: running\n")
	}

	if len(resp.Outputs) == 0 {
		b.WriteString("No outputs.\n")
		return b.String()
	}

	if terminal {
		b.WriteString(statusTable(resp))
		b.WriteString("\n")
		return b.String()
	}

	for _, out := range resp.Outputs {
		fmt.Fprintf(&b, "%s\t%s\t%s\t%s\t%s\n",
			out.Output, out.Queue, out.CurrentImage,
			queuePosition(out), formatRemaining(out, resp.Paused))
	}
	return b.String()
}

// statusTable renders the per-output table shown on terminals. The two
// trailing columns hold numbers and countdowns, so they align right.
func statusTable(resp *ipc.Response) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"OUTPUT", "QUEUE", "CURRENT IMAGE", "POSITION", "NEXT CHANGE"})
	for _, out := range resp.Outputs {
		tw.AppendRow(table.Row{
			out.Output,
			out.Queue,
			out.CurrentImage,
			queuePosition(out),
			formatRemaining(out, resp.Paused),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// queuePosition renders the one-based "shown/total" cycle position.
func queuePosition(out ipc.OutputStatus) string {
	return fmt.Sprintf("%d/%d", out.QueuePosition+1, out.QueueSize)
}

func formatRemaining(out ipc.OutputStatus, paused bool) string {
	if paused {
		return "paused"
	}
	if out.RemainingSeconds <= 0 {
		return "ready"
	}
	d := time.Duration(out.RemainingSeconds) * time.Second
	return d.String()
}
