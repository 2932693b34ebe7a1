package cmd

import (
	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an event",
	Long: `Delete an event by id and print the removed record as JSON.

Example:
  eventstore delete 0`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withEvents(cmd, func(s *session) error {
			e, err := s.events.Delete(id)
			if err != nil {
				return err
			}
			return printEvent(cmd, e)
		})
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
