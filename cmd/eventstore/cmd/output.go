package cmd

import (
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/ssargent/eventstore/pkg/event"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// printEvent writes e to the command's output as indented JSON
func printEvent(cmd *cobra.Command, e event.Event) error {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format event: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

// parseID parses a decimal event id argument
func parseID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid event id %q: must be a non-negative integer", arg)
	}
	return id, nil
}

// addPayloadFlags registers the event field flags on cmd
func addPayloadFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "Event title")
	cmd.Flags().String("date", "", "Event date")
	cmd.Flags().String("time", "", "Event time")
	cmd.Flags().Uint32("max-attendant", 0, "Maximum number of attendees")
	cmd.Flags().String("attachment-url", "", "URL of an attachment")
}

// payloadFromFlags overlays explicitly set flags onto base
func payloadFromFlags(cmd *cobra.Command, base event.Payload) event.Payload {
	flags := cmd.Flags()
	if flags.Changed("title") {
		base.Title, _ = flags.GetString("title")
	}
	if flags.Changed("date") {
		base.Date, _ = flags.GetString("date")
	}
	if flags.Changed("time") {
		base.Time, _ = flags.GetString("time")
	}
	if flags.Changed("max-attendant") {
		base.MaxAttendant, _ = flags.GetUint32("max-attendant")
	}
	if flags.Changed("attachment-url") {
		base.AttachmentURL, _ = flags.GetString("attachment-url")
	}
	return base
}
