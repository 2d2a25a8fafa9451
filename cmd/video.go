package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var videoCmd = &cobra.Command{
	Use:   "video <result>",
	Short: "Draft a short-video generation prompt for a saved result",
	Args:  cobra.ExactArgs(1),
	RunE:  runVideo,
}

func init() {
	rootCmd.AddCommand(videoCmd)
}

func runVideo(cmd *cobra.Command, args []string) error {
	studio, err := loadStudio()
	if err != nil {
		return err
	}

	result, err := studio.Storage.LoadResult(args[0])
	if err != nil {
		return err
	}

	err = runWithSpinner("Drafting video prompt", func() error {
		return studio.Service.AttachVideoPrompt(cmd.Context(), studio.APIKey, studio.Tier, result)
	})
	if err != nil {
		return err
	}

	path, err := studio.Storage.SaveResult(*result)
	if err != nil {
		return err
	}

	fmt.Println(labelStyle.Render("Video prompt: ") + result.VideoPrompt)
	fmt.Println(infoStyle.Render("Saved: " + path))
	return nil
}
