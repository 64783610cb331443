package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	signalPair       string
	signalDirection  string
	signalEntry      float64
	signalStop       float64
	signalTarget     float64
	signalNotes      string
	signalImagePath  string
	signalUserID     string
	signalLikeUserID string
	signalPips       float64
)

var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "Browse and publish trading signals",
}

var signalsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List trading signals, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := hub.Signals.Load(cmd.Context(), false); err != nil {
			return err
		}
		signals := hub.Signals.Items()

		if asJSON {
			return printJSON(signals)
		}

		printHeader("Trading signals (%d)", len(signals))
		for _, s := range signals {
			author := "-"
			if s.Author != nil {
				author = deref(s.Author.FullName)
			}
			labelColor.Printf("%-10s", s.Pair)
			fmt.Printf(" %-4s entry %.5f  status %-6s  likes %-3d  %s  by %s\n",
				s.Direction, s.EntryPrice, s.Status, s.LikesCount,
				fmtTime(s.CreatedAt), author)
		}
		return nil
	},
}

var signalsPublishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a new trading signal",
	RunE: func(cmd *cobra.Command, args []string) error {
		row := map[string]any{
			"user_id":     signalUserID,
			"pair":        signalPair,
			"direction":   signalDirection,
			"entry_price": signalEntry,
			"status":      "open",
		}
		if signalStop != 0 {
			row["stop_loss"] = signalStop
		}
		if signalTarget != 0 {
			row["take_profit"] = signalTarget
		}
		if signalNotes != "" {
			row["notes"] = signalNotes
		}

		if signalImagePath != "" {
			data, err := os.ReadFile(signalImagePath)
			if err != nil {
				return err
			}
			url, err := hub.Signals.UploadImage(cmd.Context(), signalImagePath, data)
			if err != nil {
				return err
			}
			row["image_url"] = url
		}

		created, err := hub.Signals.Create(cmd.Context(), row)
		if err != nil {
			return err
		}

		if asJSON {
			return printJSON(created)
		}
		fmt.Printf("published signal %s (%s %s)\n", created.ID, created.Pair, created.Direction)
		return nil
	},
}

var signalsCloseCmd = &cobra.Command{
	Use:   "close <signal-id>",
	Short: "Close a signal and record its pip result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		closed, err := hub.Signals.Close(cmd.Context(), id, signalPips)
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(closed)
		}
		fmt.Printf("closed signal %s at %+.1f pips\n", closed.ID, signalPips)
		return nil
	},
}

var signalsLikeCmd = &cobra.Command{
	Use:   "like <signal-id>",
	Short: "Toggle your like on a signal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return hub.Signals.ToggleLike(cmd.Context(), id, signalLikeUserID)
	},
}

func init() {
	signalsPublishCmd.Flags().StringVar(&signalUserID, "user", "", "Publishing user id")
	signalsPublishCmd.Flags().StringVar(&signalPair, "pair", "", "Instrument pair, e.g. EURUSD")
	signalsPublishCmd.Flags().StringVar(&signalDirection, "direction", "buy", "buy or sell")
	signalsPublishCmd.Flags().Float64Var(&signalEntry, "entry", 0, "Entry price")
	signalsPublishCmd.Flags().Float64Var(&signalStop, "stop", 0, "Stop loss")
	signalsPublishCmd.Flags().Float64Var(&signalTarget, "target", 0, "Take profit")
	signalsPublishCmd.Flags().StringVar(&signalNotes, "notes", "", "Free-form notes")
	signalsPublishCmd.Flags().StringVar(&signalImagePath, "image", "", "Chart image to attach")
	_ = signalsPublishCmd.MarkFlagRequired("user")
	_ = signalsPublishCmd.MarkFlagRequired("pair")
	_ = signalsPublishCmd.MarkFlagRequired("entry")

	signalsCloseCmd.Flags().Float64Var(&signalPips, "pips", 0, "Realized pips, negative for a loss")
	_ = signalsCloseCmd.MarkFlagRequired("pips")

	signalsLikeCmd.Flags().StringVar(&signalLikeUserID, "user", "", "Liking user id")
	_ = signalsLikeCmd.MarkFlagRequired("user")

	signalsCmd.AddCommand(signalsListCmd)
	signalsCmd.AddCommand(signalsPublishCmd)
	signalsCmd.AddCommand(signalsCloseCmd)
	signalsCmd.AddCommand(signalsLikeCmd)
}
