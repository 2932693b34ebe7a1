package cmd

import (
	"github.com/spf13/cobra"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get an event by id",
	Long: `Get an event by id and print it as JSON.

Example:
  eventstore get 0`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return withEvents(cmd, func(s *session) error {
			e, err := s.events.Read(id)
			if err != nil {
				return err
			}
			return printEvent(cmd, e)
		})
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
