package cmd

import (
	"fmt"

	"cilastudio/internal/app/model"

	"github.com/spf13/cobra"
)

var topicCmd = &cobra.Command{
	Use:   "topic",
	Short: "Discover a trending Bandung topic",
	Long:  `Ask Gemini, grounded with Google Search, for one trending Bandung lifestyle topic.`,
	Args:  cobra.NoArgs,
	RunE:  runTopic,
}

func init() {
	rootCmd.AddCommand(topicCmd)
}

func runTopic(cmd *cobra.Command, args []string) error {
	studio, err := loadStudio()
	if err != nil {
		return err
	}

	var topic model.TrendingTopic
	err = runWithSpinner("Searching Bandung trends", func() error {
		var err error
		topic, err = studio.Service.DiscoverTopic(cmd.Context(), studio.APIKey, studio.Tier)
		return err
	})
	if err != nil {
		return err
	}

	fmt.Println(labelStyle.Render("Topic: ") + topic.Topic)
	if topic.Context != "" {
		fmt.Println(labelStyle.Render("Why: ") + topic.Context)
	}
	return nil
}
