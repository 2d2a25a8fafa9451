package cmd

import (
	"errors"
	"fmt"

	"cilastudio/internal/app"
	"cilastudio/internal/app/model"

	"github.com/spf13/cobra"
)

var (
	imageReference string
	imageModel     string
)

var imageCmd = &cobra.Command{
	Use:   "image <result>",
	Short: "Synthesize the portrait photo for a saved result",
	Long: `Render the 9:16 photo for a saved content result using a reference
face photo. <result> is a result ID or the path to its JSON file.`,
	Args: cobra.ExactArgs(1),
	RunE: runImage,
}

func init() {
	imageCmd.Flags().StringVarP(&imageReference, "reference", "r", "", "Reference face photo (default from config)")
	imageCmd.Flags().StringVar(&imageModel, "model", string(model.ImageNanoBanana), "Image model: nano-banana or nano-banana-pro")
	rootCmd.AddCommand(imageCmd)
}

func runImage(cmd *cobra.Command, args []string) error {
	studio, err := loadStudio()
	if err != nil {
		return err
	}

	result, err := studio.Storage.LoadResult(args[0])
	if err != nil {
		return err
	}

	variant, err := model.ParseImageModel(imageModel)
	if err != nil {
		return err
	}

	refPath := firstNonEmpty(imageReference, studio.Config.Studio.ReferenceImage)
	if refPath == "" {
		return errors.New("please provide --reference or set studio.reference_image")
	}
	reference, err := app.LoadImage(refPath)
	if err != nil {
		return fmt.Errorf("reference image: %w", err)
	}

	err = runWithSpinner("Synthesizing image", func() error {
		return studio.Service.AttachImage(cmd.Context(), studio.APIKey, studio.Tier, result, variant, reference)
	})
	if errors.Is(err, app.ErrDiagnosticResult) {
		return fmt.Errorf("result %s has no usable plan (%s): %w", result.ID, result.Caption, err)
	}
	if err != nil {
		return err
	}

	imagePath, err := studio.Storage.SaveImage(result.ID, result.GeneratedImageURL)
	if err != nil {
		return err
	}
	if _, err := studio.Storage.SaveResult(*result); err != nil {
		return err
	}

	fmt.Println(successStyle.Render("✓ Image saved: ") + infoStyle.Render(imagePath))
	return nil
}
