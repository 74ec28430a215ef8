/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/friendsincode/grimnir_timer/internal/clock"
	"github.com/friendsincode/grimnir_timer/internal/protocol"
	"github.com/friendsincode/grimnir_timer/internal/seed"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Apply a YAML schedule",
	Long:  "Program slots from a YAML schedule file. Every rule goes through the same validation as the serial protocol.",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var importDryRun bool

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Print the generated commands without applying them")
}

func runImport(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open schedule: %w", err)
	}
	defer f.Close()

	doc, err := seed.Parse(f)
	if err != nil {
		return err
	}
	lines, err := doc.Commands(cfg.Slots)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if importDryRun {
		for _, line := range lines {
			fmt.Fprintf(out, "#%s%c\n", line, protocol.Terminator)
		}
		return nil
	}

	ctx := context.Background()
	store, codec, img, err := openSchedule(ctx)
	if err != nil {
		return err
	}
	defer img.Close()

	dispatcher := protocol.NewDispatcher(store, codec, img, clock.NewSystemClock(), out, nil, logger)
	for _, line := range lines {
		replies, err := dispatcher.Execute(ctx, line)
		if err != nil {
			return fmt.Errorf("%s: %s", line, protocol.ReplyFor(err))
		}
		for _, reply := range replies {
			fmt.Fprintln(out, reply)
		}
	}
	logger.Info().Int("commands", len(lines)).Str("file", args[0]).Msg("schedule imported")
	return nil
}
