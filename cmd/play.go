package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/wordmax/internal/session"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a quiz or flashcard session",
	RunE: func(cmd *cobra.Command, args []string) error {
		day, _ := cmd.Flags().GetString("day")
		modeName, _ := cmd.Flags().GetString("mode")
		mode, err := session.ParseMode(modeName)
		if err != nil {
			return err
		}
		return runApp(cmd, playOptions{Day: day, Mode: mode})
	},
}

func init() {
	playCmd.Flags().String("day", "", "Day to open (e.g. Day3 or day3); defaults to the first day")
	playCmd.Flags().String("mode", "quiz", "Presentation: quiz or flashcard")
}
