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
	"github.com/covctl/covctl/internal/differ"
	"github.com/covctl/covctl/internal/fetch"
	"github.com/covctl/covctl/internal/meta"
	"github.com/covctl/covctl/internal/report"
)

// diffCommandAction is the action handler for the "diff" subcommand. It
// compares two coverage snapshots and renders the delta report, optionally
// followed by annotated source hunks.
func diffCommandAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	config.Config.Namespace = "diff"

	oldURI, newURI, err := resolveDiffArgs(cmd)
	if err != nil || oldURI == "" {
		return err
	}

	oldSnap, err := fetch.Snapshot(ctx, oldURI, cmd.String("source1"))
	if err != nil {
		return err
	}
	newSnap, err := fetch.Snapshot(ctx, newURI, cmd.String("source2"))
	if err != nil {
		return err
	}

	d := differ.New(oldSnap, newSnap, differ.WithContext(cmd.Int("context")))

	// Short circuit the low-level structural diff.
	if cmd.String("output") == "rawdiff" {
		out, err := d.RawDiff(report.ColorEnabled(cmd))
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, out)
		return nil
	}

	includeSource := !cmd.Bool("no-source")
	reporter := &report.DeltaReporter{Diff: d, IncludeSource: includeSource}
	rows, err := reporter.Rows()
	if err != nil {
		return err
	}

	if err := report.SpitDeltaRows(rows, includeSource, cmd, os.Stdout); err != nil {
		return err
	}

	if cmd.Bool("hunks") && includeSource && cmd.String("output") == "text" {
		for _, name := range d.ClassFiles() {
			hunks, err := d.ClassSourceHunks(name)
			if err != nil {
				return err
			}
			report.WriteHunks(name, hunks, cmd, os.Stdout)
		}
	}

	return nil
}

// resolveDiffArgs produces the old and new snapshot URIs, either from the two
// positional arguments or interactively via --pick over a directory of
// coverage files. An empty oldURI with nil error means the picker was
// dismissed.
func resolveDiffArgs(cmd *cli.Command) (oldURI, newURI string, err error) {
	args := cmd.Args().Slice()

	if cmd.Bool("pick") {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}

		files, err := fetch.ListCoverageFiles(dir)
		if err != nil {
			return "", "", err
		}
		if len(files) < 2 {
			return "", "", fmt.Errorf("need at least two coverage files in %s to diff", dir)
		}

		selected := SelectCoverageFiles(files)
		log.Debugf("selected: %d", len(selected))
		if len(selected) != 2 {
			return "", "", nil
		}

		return selected[0].Path, selected[1].Path, nil
	}

	if len(args) != 2 {
		return "", "", fmt.Errorf("usage: covctl diff OLD_COVERAGE_FILE NEW_COVERAGE_FILE")
	}

	return args[0], args[1], nil
}

// diffCommandBuilder constructs the cli.Command for "diff", wiring metadata,
// flags, and the action handler.
func diffCommandBuilder(m meta.Meta) *cli.Command {
	// The hunk context window default can come from the config file.
	contextDefault, _ := config.GetInt("diff.context", differ.DefaultContext)

	return &cli.Command{
		Name:      "diff",
		Usage:     "report the coverage delta between two snapshots",
		UsageText: "covctl diff OLD_COVERAGE_FILE NEW_COVERAGE_FILE [options]",
		Flags: append(NewGlobalFlags(),
			&cli.IntFlag{
				Name:  "context",
				Usage: "unchanged lines kept around each change in hunks",
				Value: contextDefault,
			},
			&cli.BoolFlag{
				Name:        "hunks",
				Usage:       "print annotated source hunks for changed files",
				HideDefault: true,
			},
			&cli.BoolFlag{
				Name:        "no-source",
				Usage:       "omit per-line missed detail from the report",
				HideDefault: true,
			},
			&cli.BoolFlag{
				Name:        "pick",
				Usage:       "interactively pick two coverage files from a directory",
				HideDefault: true,
			},
			NewSourceDirFlag("source1", "diff", m.Config.Source),
			NewSourceDirFlag("source2", "diff", m.Config.Source),
		),
		Action:   diffCommandAction,
		Metadata: map[string]interface{}{"meta": m},
	}
}
