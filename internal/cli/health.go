package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewHealthCmd создаёт команду проверки живости сервиса.
func NewHealthCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check service health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			health, err := client.Health()
			if err != nil {
				return err
			}

			out.Print(
				[]string{"STATUS", "VERSION", "UPTIME_S", "STARTED", "FINISHED"},
				[][]string{{
					health.Status,
					health.Version,
					fmt.Sprintf("%.0f", health.UptimeS),
					strconv.Itoa(health.StartedJobs),
					strconv.Itoa(health.FinishedJobs),
				}},
				health,
			)
			return nil
		},
	}
}
