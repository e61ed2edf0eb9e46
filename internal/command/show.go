// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/covctl/covctl/internal/config"
	"github.com/covctl/covctl/internal/fetch"
	"github.com/covctl/covctl/internal/meta"
	"github.com/covctl/covctl/internal/report"
)

// showCommandAction is the action handler for the "show" subcommand. It
// renders a coverage report for a single snapshot.
func showCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "show"

	uri := cmd.Args().First()
	if uri == "" {
		return fmt.Errorf("usage: covctl show COVERAGE_FILE")
	}
	if cmd.String("output") == "rawdiff" {
		return fmt.Errorf("rawdiff output requires two snapshots; use covctl diff")
	}

	snap, err := fetch.Snapshot(ctx, uri, cmd.String("source-dir"))
	if err != nil {
		return err
	}

	reporter := &report.Reporter{Snapshot: snap}
	rows, err := reporter.Rows()
	if err != nil {
		return err
	}

	return report.SpitRows(rows, cmd, os.Stdout)
}

// showCommandBuilder constructs the cli.Command for "show", wiring metadata,
// flags, and the action handler.
func showCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "report coverage of one snapshot",
		UsageText: "covctl show COVERAGE_FILE [options]",
		Flags: append(NewGlobalFlags(),
			NewSourceDirFlag("source-dir", "show", m.Config.Source),
		),
		Action:   showCommandAction,
		Metadata: map[string]interface{}{"meta": m},
	}
}
