package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var bannersCmd = &cobra.Command{
	Use:   "banners",
	Short: "Browse active promotional banners",
}

var bannersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active banners",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := hub.Banners.Load(cmd.Context(), false); err != nil {
			return err
		}
		banners := hub.Banners.Items()

		if asJSON {
			return printJSON(banners)
		}

		printHeader("Banners (%d)", len(banners))
		for _, b := range banners {
			labelColor.Printf("%-36s", b.ID)
			fmt.Printf(" clicks %-5d %s -> %s\n", b.ClickCount, b.ImageURL, b.LinkURL)
		}
		return nil
	},
}

var bannersClickCmd = &cobra.Command{
	Use:   "click <banner-id>",
	Short: "Record a click on a banner",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return hub.Banners.RecordClick(cmd.Context(), id)
	},
}

func init() {
	bannersCmd.AddCommand(bannersListCmd)
	bannersCmd.AddCommand(bannersClickCmd)
}
