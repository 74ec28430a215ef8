/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/friendsincode/grimnir_timer/internal/clock"
	"github.com/friendsincode/grimnir_timer/internal/protocol"
)

var execCmd = &cobra.Command{
	Use:   "exec COMMANDS",
	Short: "Run protocol commands against the stored schedule",
	Long: `Feed protocol text to the configured image without a device attached.
Commands are separated by ';', for example:

  grimnirtimer exec "#pg1,0111110,06,00,07,30;#st;"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

func init() {
	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	ctx := context.Background()
	store, codec, img, err := openSchedule(ctx)
	if err != nil {
		return err
	}
	defer img.Close()

	text := strings.Join(args, "")
	if !strings.HasSuffix(text, string(protocol.Terminator)) {
		text += string(protocol.Terminator)
	}

	dispatcher := protocol.NewDispatcher(store, codec, img, clock.NewSystemClock(), cmd.OutOrStdout(), nil, logger)
	machine := protocol.NewMachine(dispatcher, cfg.MaxCommandLength, logger)
	machine.FeedAll(ctx, []byte(text))
	return nil
}
