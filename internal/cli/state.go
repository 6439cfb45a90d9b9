package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// NewStateCmd создаёт группу команд для просмотра состояния сервиса.
func NewStateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect service state",
	}

	cmd.AddCommand(
		newStateShowCmd(clientFn, outputFn),
		newStateLogsCmd(clientFn, outputFn),
	)

	return cmd
}

func newStateShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show job counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			state, err := client.GetState()
			if err != nil {
				return err
			}

			out.Print(
				[]string{"STARTED", "FINISHED", "IN_FLIGHT", "LOG_LINES"},
				[][]string{{
					strconv.Itoa(state.StartedJobs),
					strconv.Itoa(state.FinishedJobs),
					strconv.Itoa(state.StartedJobs - state.FinishedJobs),
					strconv.Itoa(len(state.Logs)),
				}},
				state,
			)
			return nil
		},
	}
}

func newStateLogsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var tail int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the service event log",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			state, err := client.GetState()
			if err != nil {
				return err
			}

			logs := state.Logs
			if tail > 0 && len(logs) > tail {
				logs = logs[len(logs)-tail:]
			}

			if out.jsonMode {
				out.JSON(logs)
				return nil
			}
			out.Lines(logs)
			return nil
		},
	}

	cmd.Flags().IntVar(&tail, "tail", 0, "Show only the last N log lines")

	return cmd
}
