package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Show the economic calendar, soonest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := hub.Calendar.Load(cmd.Context(), false); err != nil {
			return err
		}
		events := hub.Calendar.Items()

		if asJSON {
			return printJSON(events)
		}

		printHeader("Economic events (%d)", len(events))
		for _, ev := range events {
			switch ev.ImpactLevel {
			case "high":
				errColor.Printf("%-7s", ev.ImpactLevel)
			default:
				labelColor.Printf("%-7s", ev.ImpactLevel)
			}
			fmt.Printf(" %s  %s %s  %s  forecast %s  previous %s\n",
				fmtTime(ev.EventTime), ev.Country, ev.Currency, ev.Title,
				deref(ev.ForecastValue), deref(ev.PreviousValue))
		}
		return nil
	},
}
