package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	analysisUserID     string
	analysisTitle      string
	analysisContent    string
	analysisInstrument string
	analysisMediaPath  string
	analysisLikeUserID string
)

var analysesCmd = &cobra.Command{
	Use:   "analyses",
	Short: "Browse and publish market analyses",
}

var analysesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List published analyses, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := hub.Analyses.Load(cmd.Context(), false); err != nil {
			return err
		}
		analyses := hub.Analyses.Items()

		if asJSON {
			return printJSON(analyses)
		}

		printHeader("Market analyses (%d)", len(analyses))
		for _, a := range analyses {
			author := "-"
			if a.Author != nil {
				author = deref(a.Author.FullName)
			}
			labelColor.Printf("%-10s", a.Instrument)
			fmt.Printf(" %s  likes %-3d views %-4d  %s  by %s\n",
				a.Title, a.LikesCount, a.ViewsCount, fmtTime(a.CreatedAt), author)
		}
		return nil
	},
}

var analysesPublishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a new analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		row := map[string]any{
			"user_id":    analysisUserID,
			"title":      analysisTitle,
			"content":    analysisContent,
			"instrument": analysisInstrument,
			"status":     "published",
		}

		// market_analysis has no media column; attached charts are
		// uploaded first and referenced from the body.
		if analysisMediaPath != "" {
			data, err := os.ReadFile(analysisMediaPath)
			if err != nil {
				return err
			}
			url, err := hub.Analyses.UploadMedia(cmd.Context(), analysisMediaPath, data)
			if err != nil {
				return err
			}
			row["content"] = fmt.Sprintf("%s\n\n![chart](%s)", analysisContent, url)
		}

		created, err := hub.Analyses.Create(cmd.Context(), row)
		if err != nil {
			return err
		}

		if asJSON {
			return printJSON(created)
		}
		fmt.Printf("published analysis %s (%s)\n", created.ID, created.Title)
		return nil
	},
}

var analysesArchiveCmd = &cobra.Command{
	Use:   "archive <analysis-id>",
	Short: "Archive an analysis (removes it from the published list)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return hub.Analyses.Delete(cmd.Context(), id)
	},
}

var analysesLikeCmd = &cobra.Command{
	Use:   "like <analysis-id>",
	Short: "Toggle your like on an analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return hub.Analyses.ToggleLike(cmd.Context(), id, analysisLikeUserID)
	},
}

func init() {
	analysesPublishCmd.Flags().StringVar(&analysisUserID, "user", "", "Publishing user id")
	analysesPublishCmd.Flags().StringVar(&analysisTitle, "title", "", "Analysis title")
	analysesPublishCmd.Flags().StringVar(&analysisContent, "content", "", "Analysis body")
	analysesPublishCmd.Flags().StringVar(&analysisInstrument, "instrument", "", "Instrument, e.g. XAUUSD")
	analysesPublishCmd.Flags().StringVar(&analysisMediaPath, "media", "", "Chart image to attach")
	_ = analysesPublishCmd.MarkFlagRequired("user")
	_ = analysesPublishCmd.MarkFlagRequired("title")
	_ = analysesPublishCmd.MarkFlagRequired("content")
	_ = analysesPublishCmd.MarkFlagRequired("instrument")

	analysesLikeCmd.Flags().StringVar(&analysisLikeUserID, "user", "", "Liking user id")
	_ = analysesLikeCmd.MarkFlagRequired("user")

	analysesCmd.AddCommand(analysesListCmd)
	analysesCmd.AddCommand(analysesPublishCmd)
	analysesCmd.AddCommand(analysesArchiveCmd)
	analysesCmd.AddCommand(analysesLikeCmd)
}
