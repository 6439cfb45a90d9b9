package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewJobCmd создаёт группу команд для работы с задачами.
func NewJobCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Manage separation jobs",
	}

	cmd.AddCommand(
		newJobSubmitCmd(clientFn, outputFn),
	)

	return cmd
}

func newJobSubmitCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "submit SOURCE DESTINATION",
		Short: "Submit a separation job",
		Long: `Submit a separation job.

SOURCE is the address of the input audio object (e.g. gs://bucket/track.mp3).
DESTINATION is the address prefix for the separated stems (e.g. gs://bucket/stems/).

The command returns as soon as the job is accepted; use "state show"
to follow its progress.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			err := client.SubmitJob(SubmitJobRequest{
				SourceAddress:      args[0],
				DestinationAddress: args[1],
			})
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Job accepted: %s -> %s", args[0], args[1]))
			return nil
		},
	}
}
