package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(unlinkCmd)
	rootCmd.AddCommand(commitsCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(profileCmd)

	historyCmd.Flags().IntP("limit", "l", 20, "number of entries to show (1-20)")

	profileCmd.AddCommand(profileAddCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileUseCmd)

	profileAddCmd.Flags().String("name", "default", "profile name")
	profileAddCmd.Flags().String("server", "http://localhost:8080", "tracker server URL")
	profileAddCmd.Flags().String("chat-user-id", "", "your chat user ID (required)")
	_ = profileAddCmd.MarkFlagRequired("chat-user-id")
}

// clientForProfile resolves the active profile into an API client.
func clientForProfile() (*APIClient, *Profile, error) {
	profile, err := GetCurrentProfile()
	if err != nil {
		return nil, nil, err
	}
	return NewAPIClientFromProfile(profile), profile, nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Print the GitHub link URL to open in a browser",
	RunE: func(_ *cobra.Command, _ []string) error {
		client, profile, err := clientForProfile()
		if err != nil {
			return err
		}

		linkURL, err := client.LinkURL(profile.ChatUserID)
		if err != nil {
			return err
		}

		fmt.Println("Open this URL in your browser to link your GitHub account:")
		fmt.Println(linkURL)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the link status for your account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, profile, err := clientForProfile()
		if err != nil {
			return err
		}

		status, err := client.GetStatus(cmd.Context(), profile.ChatUserID)
		if err != nil {
			return err
		}

		if viper.GetString("output") == "json" {
			return printJSON(status)
		}

		fmt.Printf("Linked GitHub account: %s\n", status.GitHubLogin)
		fmt.Printf("Verified at:           %s\n", status.VerifiedAt.Local().Format(time.RFC1123))
		if status.RecentCommitCount != nil {
			fmt.Printf("Recent commits:        %d\n", *status.RecentCommitCount)
		}
		return nil
	},
}

var unlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Remove the GitHub account link",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, profile, err := clientForProfile()
		if err != nil {
			return err
		}

		if err := client.Unlink(cmd.Context(), profile.ChatUserID); err != nil {
			return err
		}

		fmt.Println("GitHub account unlinked.")
		return nil
	},
}

var commitsCmd = &cobra.Command{
	Use:   "commits",
	Short: "List recent commits available for hour logging",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, profile, err := clientForProfile()
		if err != nil {
			return err
		}

		commits, err := client.GetCommits(cmd.Context(), profile.ChatUserID)
		if err != nil {
			return err
		}

		if viper.GetString("output") == "json" {
			return printJSON(commits)
		}

		if len(commits) == 0 {
			fmt.Println("No commits in the recent window.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SHA\tREPO\tWHEN\tMESSAGE")
		for _, commit := range commits {
			sha := commit.SHA
			if len(sha) > 10 {
				sha = sha[:10]
			}
			message := commit.Message
			if len(message) > 60 {
				message = message[:57] + "..."
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				sha, commit.Repo, commit.CommittedAt.Local().Format("Jan 02 15:04"), message)
		}
		return w.Flush()
	},
}

var logCmd = &cobra.Command{
	Use:   "log <commit-sha> <hours>",
	Short: "Record volunteer hours against a commit",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, profile, err := clientForProfile()
		if err != nil {
			return err
		}

		hours, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid hours value %q: %w", args[1], err)
		}

		log, err := client.LogHours(cmd.Context(), profile.ChatUserID, args[0], hours)
		if err != nil {
			return err
		}

		fmt.Printf("Logged %g hours against %s.\n", log.Hours, log.CommitSHA)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show your logged hours, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, profile, err := clientForProfile()
		if err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt("limit")
		history, err := client.GetHistory(cmd.Context(), profile.ChatUserID, limit)
		if err != nil {
			return err
		}

		if viper.GetString("output") == "json" {
			return printJSON(history)
		}

		if len(history.Logs) == 0 {
			fmt.Println("No hours logged yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "LOGGED\tCOMMIT\tHOURS")
		for _, log := range history.Logs {
			sha := log.CommitSHA
			if len(sha) > 10 {
				sha = sha[:10]
			}
			fmt.Fprintf(w, "%s\t%s\t%g\n", log.LoggedAt.Local().Format("Jan 02 15:04"), sha, log.Hours)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Printf("\nTotal: %g hours across %d entries\n", history.TotalHours, len(history.Logs))
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage CLI profiles",
}

var profileAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a profile",
	RunE: func(cmd *cobra.Command, _ []string) error {
		name, _ := cmd.Flags().GetString("name")
		server, _ := cmd.Flags().GetString("server")
		chatUserID, _ := cmd.Flags().GetString("chat-user-id")

		profile := Profile{Name: name, ServerURL: server, ChatUserID: chatUserID}
		if err := AddProfile(profile); err != nil {
			return err
		}

		// Fail early on an unreachable server rather than at first use.
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		if err := NewAPIClient(server).Health(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: server not reachable: %v\n", err)
		}

		fmt.Printf("Profile '%s' saved.\n", name)
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	RunE: func(_ *cobra.Command, _ []string) error {
		profiles, err := ListProfiles()
		if err != nil {
			return err
		}

		if len(profiles) == 0 {
			fmt.Println("No profiles configured.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSERVER\tCHAT USER ID")
		for _, profile := range profiles {
			fmt.Fprintf(w, "%s\t%s\t%s\n", profile.Name, profile.ServerURL, profile.ChatUserID)
		}
		return w.Flush()
	},
}

var profileUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the default profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if err := SetCurrentProfile(args[0]); err != nil {
			return err
		}
		fmt.Printf("Default profile set to '%s'.\n", args[0])
		return nil
	},
}
