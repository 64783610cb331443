package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Administer the user directory",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List user accounts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := hub.Users.Load(cmd.Context(), false); err != nil {
			return err
		}
		users := hub.Users.Items()

		if asJSON {
			return printJSON(users)
		}

		printHeader("Users (%d)", len(users))
		for _, u := range users {
			state := "active"
			if u.IsBanned {
				state = "banned"
			}
			labelColor.Printf("%-36s", u.ID)
			lastLogin := "-"
			if u.LastLogin != nil {
				lastLogin = fmtTime(*u.LastLogin)
			}
			fmt.Printf(" %-24s %-7s last login %s\n", deref(u.FullName), state, lastLogin)
		}
		return nil
	},
}

var usersBanCmd = &cobra.Command{
	Use:   "ban <user-id>",
	Short: "Ban a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return hub.Users.SetBanned(cmd.Context(), id, true)
	},
}

var usersUnbanCmd = &cobra.Command{
	Use:   "unban <user-id>",
	Short: "Lift a user's ban",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return hub.Users.SetBanned(cmd.Context(), id, false)
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <user-id>",
	Short: "Delete a user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return hub.Users.Delete(cmd.Context(), id)
	},
}

func init() {
	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersBanCmd)
	usersCmd.AddCommand(usersUnbanCmd)
	usersCmd.AddCommand(usersDeleteCmd)
}
