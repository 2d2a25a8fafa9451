package cmd

import (
	"fmt"
	"strings"

	"cilastudio/internal/app/model"

	"github.com/spf13/cobra"
)

var toolComment string

var toolCmd = &cobra.Command{
	Use:   "tool <audio|hashtags|reply> <result>",
	Short: "Run a creator tool against a saved result",
	Long: `Creator tools:
  audio     suggest trending sounds for the post
  hashtags  generate up to 30 hashtags
  reply     answer a follower comment (requires --comment)`,
	Args: cobra.ExactArgs(2),
	RunE: runTool,
}

func init() {
	toolCmd.Flags().StringVar(&toolComment, "comment", "", "Follower comment to reply to")
	rootCmd.AddCommand(toolCmd)
}

func runTool(cmd *cobra.Command, args []string) error {
	tool, err := model.ParseToolType(args[0])
	if err != nil {
		return err
	}

	studio, err := loadStudio()
	if err != nil {
		return err
	}

	result, err := studio.Storage.LoadResult(args[1])
	if err != nil {
		return err
	}

	var output string
	err = runWithSpinner("Running "+strings.ToLower(string(tool))+" tool", func() error {
		var err error
		output, err = studio.Service.GenerateToolOutput(cmd.Context(), studio.APIKey, tool, result.ToolContext(toolComment))
		return err
	})
	if err != nil {
		return err
	}

	fmt.Println(output)
	return nil
}
