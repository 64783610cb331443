package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	postUserID    string
	postTitle     string
	postContent   string
	postType      string
	postMediaPath string
	postPages     int
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Browse and publish content posts",
}

var postsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List published posts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := hub.Posts.Load(cmd.Context(), false); err != nil {
			return err
		}
		for page := 1; page < postPages && hub.Posts.HasMore(); page++ {
			if err := hub.Posts.LoadMore(cmd.Context()); err != nil {
				return err
			}
		}
		posts := hub.Posts.Items()

		if asJSON {
			return printJSON(posts)
		}

		printHeader("Posts (%d)", len(posts))
		for _, p := range posts {
			author := "-"
			if p.Author != nil {
				author = deref(p.Author.FullName)
			}
			labelColor.Printf("%-8s", p.Type)
			fmt.Printf(" %s  %s  by %s\n", p.Title, fmtTime(p.CreatedAt), author)
		}
		if hub.Posts.HasMore() {
			fmt.Println("... more available")
		}
		return nil
	},
}

var postsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a new post",
	RunE: func(cmd *cobra.Command, args []string) error {
		row := map[string]any{
			"user_id": postUserID,
			"title":   postTitle,
			"content": postContent,
			"type":    postType,
			"status":  "published",
		}

		if postMediaPath != "" {
			data, err := os.ReadFile(postMediaPath)
			if err != nil {
				return err
			}
			url, err := hub.Posts.UploadMedia(cmd.Context(), postMediaPath, data)
			if err != nil {
				return err
			}
			row["media_url"] = url
		}

		created, err := hub.Posts.Create(cmd.Context(), row)
		if err != nil {
			return err
		}

		if asJSON {
			return printJSON(created)
		}
		fmt.Printf("published post %s (%s)\n", created.ID, created.Title)
		return nil
	},
}

var postsDeleteCmd = &cobra.Command{
	Use:   "delete <post-id>",
	Short: "Delete a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return hub.Posts.Delete(cmd.Context(), id)
	},
}

func init() {
	postsListCmd.Flags().IntVar(&postPages, "pages", 1, "Number of pages to fetch")

	postsCreateCmd.Flags().StringVar(&postUserID, "user", "", "Publishing user id")
	postsCreateCmd.Flags().StringVar(&postTitle, "title", "", "Post title")
	postsCreateCmd.Flags().StringVar(&postContent, "content", "", "Post body")
	postsCreateCmd.Flags().StringVar(&postType, "type", "text", "text, image, video or link")
	postsCreateCmd.Flags().StringVar(&postMediaPath, "media", "", "Image to attach")
	_ = postsCreateCmd.MarkFlagRequired("user")
	_ = postsCreateCmd.MarkFlagRequired("title")
	_ = postsCreateCmd.MarkFlagRequired("content")

	postsCmd.AddCommand(postsListCmd)
	postsCmd.AddCommand(postsCreateCmd)
	postsCmd.AddCommand(postsDeleteCmd)
}
