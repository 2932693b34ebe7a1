package cmd

import (
	"github.com/spf13/cobra"
)

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an event",
	Long: `Replace the fields of an event and print the result as JSON.
Fields without a flag keep their stored value.

Example:
  eventstore update 0 --title "Go meetup (moved)" --date 2024-01-02`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withEvents(cmd, func(s *session) error {
			current, err := s.events.Read(id)
			if err != nil {
				return err
			}

			e, err := s.events.Update(id, payloadFromFlags(cmd, current.Payload()))
			if err != nil {
				return err
			}
			return printEvent(cmd, e)
		})
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
	addPayloadFlags(updateCmd)
}
