package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved content results, newest first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	studio, err := loadStudio()
	if err != nil {
		return err
	}

	results, err := studio.Storage.ListResults()
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println(infoStyle.Render("No saved results in " + studio.Storage.OutputDir()))
		return nil
	}

	for _, r := range results {
		flags := ""
		if r.GeneratedImageURL != "" {
			flags += " 🖼"
		}
		if r.VideoPrompt != "" {
			flags += " 🎬"
		}
		line := fmt.Sprintf("%s  %s  %-4s %s%s", r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Mode, r.Topic, flags)
		if r.HasDiagnostic() {
			line = warnStyle.Render(line)
		}
		fmt.Println(line)
	}
	return nil
}
