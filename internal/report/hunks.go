// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/urfave/cli/v3"

	"github.com/covctl/covctl/internal/differ"
)

// WriteHunks renders the annotated source hunks for one class file. Each line
// carries a gutter marker: "+" newly missed, "-" no longer missed, space for
// context. Hunks are separated by an elision marker.
func WriteHunks(name string, hunks []differ.Hunk, cmd *cli.Command, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	if len(hunks) == 0 {
		return
	}

	colorize := ColorEnabled(cmd)
	worse, better := deltaColors()
	worseStyle := lipgloss.NewStyle().Foreground(worse)
	betterStyle := lipgloss.NewStyle().Foreground(better)

	fmt.Fprintf(w, "%s\n", name)

	for i, hunk := range hunks {
		if i > 0 {
			fmt.Fprintln(w, "  ...")
		}

		for _, line := range hunk.Lines {
			marker := " "
			switch line.Status {
			case differ.StatusNewMiss:
				marker = "+"
			case differ.StatusFixedMiss:
				marker = "-"
			}

			out := fmt.Sprintf("%s %5d  %s", marker, line.Number, line.Text)
			if colorize {
				switch line.Status {
				case differ.StatusNewMiss:
					out = worseStyle.Render(out)
				case differ.StatusFixedMiss:
					out = betterStyle.Render(out)
				}
			}
			fmt.Fprintln(w, out)
		}
	}
}
