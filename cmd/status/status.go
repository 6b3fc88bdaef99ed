/*
 * Copyright 2024-2025 Raamsri Kumar <raam@tinkershack.in>
 * Copyright 2024-2025 The StrataSTOR Authors and Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package status

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stratastor/warren/config"
	"github.com/stratastor/warren/pkg/health"
	"github.com/stratastor/warren/pkg/lifecycle"
)

func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check Warren server status and exports divergence",
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, running, err := lifecycle.RunningPID(config.GetPIDFilePath())
			if err != nil {
				return err
			}
			if !running {
				fmt.Println("Warren server is not running")
				return nil
			}
			fmt.Printf("Warren server is running (PID: %d)\n", pid)

			checker, err := health.NewHealthChecker(config.GetConfig())
			if err != nil {
				return err
			}
			report, err := checker.Divergence(cmd.Context())
			if err != nil {
				fmt.Println("Exports divergence: unknown:", err)
				return nil
			}
			if report.InSync {
				fmt.Println("Exports file and NFS server are in sync")
				return nil
			}
			fmt.Println("Exports file and NFS server have diverged; run `exportfs -ra` to reconcile")
			for _, k := range report.Divergence.FileOnly {
				fmt.Printf("  file only: %s %s\n", k.Path, k.Client)
			}
			for _, k := range report.Divergence.LiveOnly {
				fmt.Printf("  live only: %s %s\n", k.Path, k.Client)
			}
			return nil
		},
	}
}
