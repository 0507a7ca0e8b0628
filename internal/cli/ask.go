// internal/cli/ask.go
package synod

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mwiater/synod/internal/council"
	"github.com/mwiater/synod/internal/tui"
)

var askPlain bool

// askCmd represents the 'ask' command.
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Put a question to the council",
	Long: `The 'ask' command sends a question to every council model, has the models
rank each other's anonymized answers, and prints the chairman's synthesis.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := buildEngine(GetConfig())
		if err != nil {
			return err
		}
		if askPlain {
			return runPlain(cmd.Context(), engine, args[0])
		}
		return tui.Run(engine, args[0])
	},
}

func init() {
	askCmd.Flags().BoolVar(&askPlain, "plain", false, "print plain output instead of the interactive view")
	rootCmd.AddCommand(askCmd)
}

var (
	stageHeading = color.New(color.FgGreen, color.Bold).SprintFunc()
	modelName    = color.New(color.FgCyan).SprintFunc()
	dimText      = color.New(color.Faint).SprintFunc()
)

// runPlain runs the council and prints progress line by line.
func runPlain(ctx context.Context, engine *council.Engine, question string) error {
	result := engine.RunStream(ctx, question, func(ev council.Event) {
		switch ev.Type {
		case council.EventStage1Start:
			fmt.Printf("%s %s\n", stageHeading("Stage 1:"), dimText(fmt.Sprintf("collecting answers from %d models", len(engine.Roster()))))
		case council.EventStage2Start:
			fmt.Printf("%s %s\n", stageHeading("Stage 2:"), dimText("cross-ranking anonymized answers"))
		case council.EventStage3Start:
			fmt.Printf("%s %s\n", stageHeading("Stage 3:"), dimText(fmt.Sprintf("chairman synthesis by %s", engine.Chairman())))
		}
	})

	if len(result.Metadata.AggregateRankings) > 0 {
		fmt.Printf("\n%s\n", stageHeading("Council standings:"))
		for i, entry := range result.Metadata.AggregateRankings {
			fmt.Printf("  %d. %s %s\n", i+1, modelName(entry.Model),
				dimText(fmt.Sprintf("(average rank %.2f across %d rankings)", entry.AverageRank, entry.RankingsCount)))
		}
	}

	fmt.Printf("\n%s\n\n%s\n", stageHeading("Final answer:"), result.Stage3.Response)
	return nil
}
