/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/friendsincode/grimnir_timer/internal/clock"
	"github.com/friendsincode/grimnir_timer/internal/protocol"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the stored schedule",
	Long:  "Print the status report for the schedule held in the configured image, evaluated against the host clock",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	ctx := context.Background()
	store, _, img, err := openSchedule(ctx)
	if err != nil {
		return err
	}
	defer img.Close()

	out := cmd.OutOrStdout()
	for _, line := range protocol.RenderStatus(store.Rules(), clock.NewSystemClock().Now()) {
		fmt.Fprintln(out, line)
	}
	return nil
}
