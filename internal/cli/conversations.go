// internal/cli/conversations.go
package synod

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mwiater/synod/internal/storage"
)

var conversationsJSON bool

// conversationsCmd groups the conversation record subcommands.
var conversationsCmd = &cobra.Command{
	Use:   "conversations",
	Short: "Inspect stored conversations",
}

// conversationsListCmd represents 'conversations list'.
var conversationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored conversations, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := storage.New(GetConfig().DataDirPath())
		summaries, err := store.List()
		if err != nil {
			return err
		}
		if conversationsJSON {
			return json.NewEncoder(os.Stdout).Encode(summaries)
		}
		if len(summaries) == 0 {
			fmt.Println("No conversations stored.")
			return nil
		}
		idText := color.New(color.FgCyan).SprintFunc()
		for _, s := range summaries {
			fmt.Printf("%s  %s  %q (%d messages)\n",
				s.CreatedAt.Format("2006-01-02 15:04"), idText(s.ID), s.Title, s.MessageCount)
		}
		return nil
	},
}

// conversationsShowCmd represents 'conversations show'.
var conversationsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one conversation in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := storage.New(GetConfig().DataDirPath())
		conv, err := store.Get(args[0])
		if err != nil {
			return err
		}
		if conversationsJSON {
			return json.NewEncoder(os.Stdout).Encode(conv)
		}
		roleText := color.New(color.FgGreen, color.Bold).SprintFunc()
		fmt.Printf("%s (%s)\n", conv.Title, conv.CreatedAt.Format("2006-01-02 15:04"))
		for _, msg := range conv.Messages {
			fmt.Printf("\n%s\n", roleText(msg.Role+":"))
			if msg.Content != "" {
				fmt.Println(msg.Content)
			}
			if msg.Stage3 != nil {
				fmt.Println(msg.Stage3.Response)
			}
		}
		return nil
	},
}

func init() {
	conversationsCmd.PersistentFlags().BoolVar(&conversationsJSON, "json", false, "print raw JSON")
	conversationsCmd.AddCommand(conversationsListCmd)
	conversationsCmd.AddCommand(conversationsShowCmd)
	rootCmd.AddCommand(conversationsCmd)
}
