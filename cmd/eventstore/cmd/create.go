package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/eventstore/pkg/event"
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an event",
	Long: `Create an event and print it as JSON. The store assigns the id and
created_at timestamp.

Example:
  eventstore create --title "Go meetup" --date 2024-01-01 --time 18:00 --max-attendant 20`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEvents(cmd, func(s *session) error {
			e, err := s.events.Create(payloadFromFlags(cmd, event.Payload{}))
			if err != nil {
				return err
			}
			return printEvent(cmd, e)
		})
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	addPayloadFlags(createCmd)
}
