package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cilastudio/internal/app"
	"cilastudio/internal/app/model"

	"github.com/spf13/cobra"
)

var (
	planTopic         string
	planTrending      bool
	planMode          string
	planStyle         string
	planAngle         string
	planPose          string
	planProductFocus  string
	planProductImage  string
	planLocationImage string
	planCount         int
	planNoSave        bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate caption, image prompt and story idea variations",
	Long: `Generate one or more content plans for a topic.

With the default camera angle each variation gets its own angle from the
rotation Eye Level, Low, High, Dutch. Results are saved to the output directory.`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&planTopic, "topic", "t", "", "Topic for the post")
	planCmd.Flags().BoolVar(&planTrending, "trending", false, "Discover a trending topic first")
	planCmd.Flags().StringVarP(&planMode, "mode", "m", "", "Content mode: SUN or MOON (default from config)")
	planCmd.Flags().StringVarP(&planStyle, "style", "s", "", "Visual style (default from config)")
	planCmd.Flags().StringVar(&planAngle, "angle", string(model.AngleDefault), "Camera angle")
	planCmd.Flags().StringVar(&planPose, "pose", string(model.PoseDefault), "Subject pose")
	planCmd.Flags().StringVar(&planProductFocus, "product-focus", "", "Product to feature")
	planCmd.Flags().StringVar(&planProductImage, "product-image", "", "Path to a product photo")
	planCmd.Flags().StringVar(&planLocationImage, "location-image", "", "Path to a location photo")
	planCmd.Flags().IntVarP(&planCount, "count", "n", 1, "Number of variations")
	planCmd.Flags().BoolVar(&planNoSave, "no-save", false, "Print results without saving them")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	if planTopic == "" && !planTrending {
		return errors.New("please provide --topic or --trending")
	}

	studio, err := loadStudio()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	req, err := planRequest(studio)
	if err != nil {
		return err
	}

	if planTrending {
		err = runWithSpinner("Searching Bandung trends", func() error {
			topic, err := studio.Service.DiscoverTopic(ctx, studio.APIKey, studio.Tier)
			req.Topic = topic.String()
			return err
		})
		if err != nil {
			return err
		}
	}

	var results []model.ContentResult
	title := fmt.Sprintf("Writing %d variation(s) for %q", planCount, req.Topic)
	err = runWithSpinner(title, func() error {
		var err error
		results, err = studio.Service.GenerateBatch(ctx, studio.APIKey, studio.Tier, req, planCount)
		return err
	})
	if err != nil {
		return err
	}

	for i, r := range results {
		path := ""
		if !planNoSave {
			if path, err = studio.Storage.SaveResult(r); err != nil {
				return err
			}
		}
		fmt.Println(renderResult(i, r, path))
	}
	return nil
}

func planRequest(studio *app.BuildResult) (model.GenerationRequest, error) {
	modeFlag := firstNonEmpty(planMode, studio.Config.Studio.DefaultMode)
	mode, err := model.ParseMode(modeFlag)
	if err != nil {
		return model.GenerationRequest{}, err
	}
	style, err := model.ParseVisualStyle(firstNonEmpty(planStyle, studio.Config.Studio.DefaultStyle))
	if err != nil {
		return model.GenerationRequest{}, err
	}
	angle, err := model.ParseCameraAngle(planAngle)
	if err != nil {
		return model.GenerationRequest{}, err
	}
	pose, err := model.ParseSubjectPose(planPose)
	if err != nil {
		return model.GenerationRequest{}, err
	}

	product, err := app.LoadImage(planProductImage)
	if err != nil {
		return model.GenerationRequest{}, fmt.Errorf("product image: %w", err)
	}
	location, err := app.LoadImage(planLocationImage)
	if err != nil {
		return model.GenerationRequest{}, fmt.Errorf("location image: %w", err)
	}

	req := model.GenerationRequest{
		Topic:         strings.TrimSpace(planTopic),
		Mode:          mode,
		VisualStyle:   style,
		CameraAngle:   angle,
		SubjectPose:   pose,
		ProductFocus:  strings.TrimSpace(planProductFocus),
		ProductImage:  product,
		LocationImage: location,
	}
	slog.Debug("Plan request", "mode", req.Mode, "style", req.VisualStyle, "angle", req.CameraAngle, "pose", req.SubjectPose,
		"product_image", product.Present(), "location_image", location.Present())
	return req, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
