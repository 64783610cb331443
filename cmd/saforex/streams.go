package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/saforex/saforex-go/internal/content"
	"github.com/spf13/cobra"
)

var streamsCmd = &cobra.Command{
	Use:   "streams",
	Short: "Browse live streams",
}

var streamsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List streams, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := hub.Streams.Load(cmd.Context(), false); err != nil {
			return err
		}
		streams := hub.Streams.Items()

		if asJSON {
			return printJSON(streams)
		}

		printHeader("Streams (%d)", len(streams))
		printStreams(streams)
		return nil
	},
}

var streamsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the stream list live until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		hub.Streams.SetOnPublish(func(streams []content.LiveStream) {
			printHeader("Streams (%d)", len(streams))
			printStreams(streams)
			fmt.Println()
		})
		if err := hub.Streams.Start(cmd.Context()); err != nil {
			return err
		}

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		return nil
	},
}

func printStreams(streams []content.LiveStream) {
	for _, s := range streams {
		if s.IsLive {
			liveColor.Printf("%-7s", "LIVE")
		} else {
			labelColor.Printf("%-7s", "ended")
		}
		author := "-"
		if s.Author != nil {
			author = deref(s.Author.FullName)
		}
		fmt.Printf(" %s  viewers %-4d  started %s  by %s\n",
			s.Title, s.ViewersCount, fmtTime(s.StartedAt), author)
	}
}

func init() {
	streamsCmd.AddCommand(streamsListCmd)
	streamsCmd.AddCommand(streamsWatchCmd)
}
