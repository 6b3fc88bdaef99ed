package health

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stratastor/warren/config"
	"github.com/stratastor/warren/pkg/health"
)

func NewHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check Warren health",
		RunE: func(cmd *cobra.Command, args []string) error {
			checker, err := health.NewHealthChecker(config.GetConfig())
			if err != nil {
				return err
			}
			report, err := checker.CheckHealth(cmd.Context())
			if err != nil {
				fmt.Println("Health check failed: ", err)
				return nil
			}
			fmt.Printf("Status: %s\nVersion: %s\nUptime: %s\n", report.Status, report.Version, report.Uptime)
			return nil
		},
	}
}
