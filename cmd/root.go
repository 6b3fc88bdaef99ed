// Copyright 2024 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/stratastor/warren/cmd/config"
	"github.com/stratastor/warren/cmd/health"
	"github.com/stratastor/warren/cmd/serve"
	"github.com/stratastor/warren/cmd/status"
	"github.com/stratastor/warren/cmd/version"
	cfg "github.com/stratastor/warren/config"
)

func NewRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "warren",
		Short: "Warren: StrataSTOR storage orchestration agent",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// The first load wins; later GetConfig calls reuse it.
			_ = cfg.LoadConfig(configPath)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file")

	rootCmd.AddCommand(serve.NewServeCmd())
	rootCmd.AddCommand(version.NewVersionCmd())
	rootCmd.AddCommand(health.NewHealthCmd())
	rootCmd.AddCommand(status.NewStatusCmd())
	rootCmd.AddCommand(config.NewConfigCmd())

	return rootCmd
}
