package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cilastudio/internal/app"
	"cilastudio/internal/app/model"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const (
	actionImage     = "image"
	actionAllImages = "all-images"
	actionVideo     = "video"
	actionTool      = "tool"
	actionNew       = "new"
	actionQuit      = "quit"

	imageWorkers = 2
)

var studioCmd = &cobra.Command{
	Use:   "studio",
	Short: "Interactive content studio",
	Long:  `Plan a batch of posts interactively, then render images, video prompts and tool outputs for them.`,
	Args:  cobra.NoArgs,
	RunE:  runStudio,
}

func init() {
	rootCmd.AddCommand(studioCmd)
}

type studioSession struct {
	*app.BuildResult
	ctx   context.Context
	board *app.Board
}

func runStudio(cmd *cobra.Command, args []string) error {
	studio, err := loadStudio()
	if err != nil {
		return err
	}
	if strings.TrimSpace(studio.APIKey) == "" {
		if err := promptAPIKey(studio); err != nil {
			return err
		}
	}

	s := &studioSession{BuildResult: studio, ctx: cmd.Context(), board: app.NewBoard()}
	fmt.Println(titleStyle.Render(fmt.Sprintf("✨ Cila Studio (%s)", s.Tier)))

	if err := s.newBatch(); err != nil {
		return err
	}

	for {
		action, err := s.chooseAction()
		if err != nil {
			return err
		}

		switch action {
		case actionQuit:
			return nil
		case actionNew:
			err = s.newBatch()
		case actionAllImages:
			err = s.allImages()
		default:
			err = s.followUp(action)
		}

		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		if err != nil {
			fmt.Println(warnStyle.Render("✗ " + err.Error()))
		}
	}
}

func promptAPIKey(studio *app.BuildResult) error {
	var key string
	if err := huh.NewInput().
		Title("Gemini API Key").
		Description("https://aistudio.google.com/apikey").
		EchoMode(huh.EchoModePassword).
		Value(&key).
		Validate(required("Gemini API Key")).
		Run(); err != nil {
		return err
	}
	studio.APIKey = strings.TrimSpace(key)
	return nil
}

func (s *studioSession) newBatch() error {
	cfg := s.Config.Studio
	var (
		topic, productFocus, productPath, locationPath string
		discover                                       bool
	)
	count := 1
	angle := model.AngleDefault
	pose := model.PoseDefault
	mode, err := model.ParseMode(cfg.DefaultMode)
	if err != nil {
		mode = model.ModeSun
	}
	style, err := model.ParseVisualStyle(cfg.DefaultStyle)
	if err != nil {
		style = model.StyleDefault
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Discover a trending Bandung topic?").
				Value(&discover),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Topic").
				Placeholder("Ngopi sore di Dago").
				Value(&topic).
				Validate(required("Topic")),
		).WithHideFunc(func() bool { return discover }),
		huh.NewGroup(
			huh.NewSelect[model.ContentMode]().
				Title("Mode").
				Options(huh.NewOptions(model.Modes()...)...).
				Value(&mode),
			huh.NewSelect[model.VisualStyle]().
				Title("Visual style").
				Options(huh.NewOptions(model.VisualStyles()...)...).
				Value(&style),
			huh.NewSelect[model.CameraAngle]().
				Title("Camera angle").
				Options(huh.NewOptions(model.CameraAngles()...)...).
				Value(&angle),
			huh.NewSelect[model.SubjectPose]().
				Title("Subject pose").
				Options(huh.NewOptions(model.SubjectPoses()...)...).
				Value(&pose),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Product focus").
				Description("Optional").
				Value(&productFocus),
			huh.NewInput().
				Title("Product photo path").
				Description("Optional").
				Value(&productPath),
			huh.NewInput().
				Title("Location photo path").
				Description("Optional").
				Value(&locationPath),
			huh.NewSelect[int]().
				Title("Variations").
				Options(variationOptions(s.Service.MaxVariations())...).
				Value(&count),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	product, err := app.LoadImage(strings.TrimSpace(productPath))
	if err != nil {
		return fmt.Errorf("product image: %w", err)
	}
	location, err := app.LoadImage(strings.TrimSpace(locationPath))
	if err != nil {
		return fmt.Errorf("location image: %w", err)
	}

	req := model.GenerationRequest{
		Topic:         strings.TrimSpace(topic),
		Mode:          mode,
		VisualStyle:   style,
		CameraAngle:   angle,
		SubjectPose:   pose,
		ProductFocus:  strings.TrimSpace(productFocus),
		ProductImage:  product,
		LocationImage: location,
	}

	if discover {
		err := runWithSpinner("Searching Bandung trends", func() error {
			t, err := s.Service.DiscoverTopic(s.ctx, s.APIKey, s.Tier)
			req.Topic = t.String()
			return err
		})
		if err != nil {
			return err
		}
	}

	var results []model.ContentResult
	err = runWithSpinner(fmt.Sprintf("Writing %d variation(s) for %q", count, req.Topic), func() error {
		var err error
		results, err = s.Service.GenerateBatch(s.ctx, s.APIKey, s.Tier, req, count)
		return err
	})
	if err != nil {
		return err
	}

	s.board.Add(results...)
	for i, r := range results {
		path, err := s.Storage.SaveResult(r)
		if err != nil {
			slog.Warn("Failed to save result", "id", r.ID, "error", err)
		}
		fmt.Println(renderResult(i, r, path))
	}
	return nil
}

func (s *studioSession) chooseAction() (string, error) {
	var action string
	err := huh.NewSelect[string]().
		Title(fmt.Sprintf("What next? (%d result(s) on the board)", s.board.Len())).
		Options(
			huh.NewOption("Synthesize image", actionImage),
			huh.NewOption("Synthesize images for every result", actionAllImages),
			huh.NewOption("Draft video prompt", actionVideo),
			huh.NewOption("Creator tool", actionTool),
			huh.NewOption("New batch", actionNew),
			huh.NewOption("Quit", actionQuit),
		).
		Value(&action).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return actionQuit, nil
	}
	return action, err
}

func (s *studioSession) chooseResult() (model.ContentResult, error) {
	results := s.board.List()
	if len(results) == 0 {
		return model.ContentResult{}, errors.New("board is empty")
	}

	options := make([]huh.Option[string], 0, len(results))
	for _, r := range results {
		label := fmt.Sprintf("%s • %s • %s", r.Topic, r.VisualStyle, truncate(r.Caption, 48))
		options = append(options, huh.NewOption(label, r.ID))
	}

	var id string
	if err := huh.NewSelect[string]().
		Title("Result").
		Options(options...).
		Value(&id).
		Run(); err != nil {
		return model.ContentResult{}, err
	}

	r, ok := s.board.Get(id)
	if !ok {
		return model.ContentResult{}, fmt.Errorf("result %s not found", id)
	}
	return r, nil
}

func (s *studioSession) followUp(action string) error {
	r, err := s.chooseResult()
	if err != nil {
		return err
	}

	switch action {
	case actionImage:
		return s.image(r)
	case actionVideo:
		return s.video(r)
	case actionTool:
		return s.tool(r)
	}
	return fmt.Errorf("unknown action %q", action)
}

func (s *studioSession) chooseImageSetup() (model.ImageModel, *model.Image, error) {
	variant := model.ImageNanoBanana
	if s.Tier == model.TierPro {
		variant = model.ImageNanoBananaPro
	}
	refPath := s.Config.Studio.ReferenceImage

	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[model.ImageModel]().
				Title("Image model").
				Options(huh.NewOptions(model.ImageModels()...)...).
				Value(&variant),
			huh.NewInput().
				Title("Reference face photo").
				Value(&refPath).
				Validate(required("Reference face photo")),
		),
	).Run(); err != nil {
		return "", nil, err
	}

	reference, err := app.LoadImage(strings.TrimSpace(refPath))
	if err != nil {
		return "", nil, fmt.Errorf("reference image: %w", err)
	}
	return variant, reference, nil
}

func (s *studioSession) image(r model.ContentResult) error {
	if !r.CanSynthesizeImage() {
		return fmt.Errorf("result has no usable plan: %s", r.Caption)
	}
	variant, reference, err := s.chooseImageSetup()
	if err != nil {
		return err
	}
	return runWithSpinner("Synthesizing image", func() error {
		return s.attachImage(r.ID, variant, reference)
	})
}

func (s *studioSession) allImages() error {
	variant, reference, err := s.chooseImageSetup()
	if err != nil {
		return err
	}

	var ids []string
	for _, r := range s.board.List() {
		if r.CanSynthesizeImage() && r.GeneratedImageURL == "" && !r.GeneratingImage {
			ids = append(ids, r.ID)
		}
	}
	if len(ids) == 0 {
		fmt.Println(infoStyle.Render("Nothing to render"))
		return nil
	}

	return runWithSpinner(fmt.Sprintf("Synthesizing %d image(s)", len(ids)), func() error {
		var g errgroup.Group
		g.SetLimit(imageWorkers)
		for _, id := range ids {
			g.Go(func() error {
				if err := s.attachImage(id, variant, reference); err != nil {
					slog.Warn("Image synthesis failed", "id", id, "error", err)
				}
				return nil
			})
		}
		return g.Wait()
	})
}

// attachImage renders the image for one board result, marking it busy for the duration.
func (s *studioSession) attachImage(id string, variant model.ImageModel, reference *model.Image) error {
	r, ok := s.board.Get(id)
	if !ok {
		return fmt.Errorf("result %s not found", id)
	}
	s.board.Update(id, func(r *model.ContentResult) { r.GeneratingImage = true })
	defer s.board.Update(id, func(r *model.ContentResult) { r.GeneratingImage = false })

	if err := s.Service.AttachImage(s.ctx, s.APIKey, s.Tier, &r, variant, reference); err != nil {
		return err
	}
	s.board.Update(id, func(stored *model.ContentResult) { stored.GeneratedImageURL = r.GeneratedImageURL })

	path, err := s.Storage.SaveImage(id, r.GeneratedImageURL)
	if err != nil {
		return err
	}
	if _, err := s.Storage.SaveResult(r); err != nil {
		return err
	}
	slog.Info("Image saved", "id", id, "path", path)
	return nil
}

func (s *studioSession) video(r model.ContentResult) error {
	s.board.Update(r.ID, func(r *model.ContentResult) { r.GeneratingVideoPrompt = true })
	defer s.board.Update(r.ID, func(r *model.ContentResult) { r.GeneratingVideoPrompt = false })

	err := runWithSpinner("Drafting video prompt", func() error {
		return s.Service.AttachVideoPrompt(s.ctx, s.APIKey, s.Tier, &r)
	})
	if err != nil {
		return err
	}
	s.board.Update(r.ID, func(stored *model.ContentResult) { stored.VideoPrompt = r.VideoPrompt })
	if _, err := s.Storage.SaveResult(r); err != nil {
		return err
	}

	fmt.Println(labelStyle.Render("Video prompt: ") + r.VideoPrompt)
	return nil
}

func (s *studioSession) tool(r model.ContentResult) error {
	var (
		tool    = model.ToolAudio
		comment string
	)
	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[model.ToolType]().
				Title("Tool").
				Options(
					huh.NewOption("Trending audio ideas", model.ToolAudio),
					huh.NewOption("Hashtags", model.ToolHashtags),
					huh.NewOption("Reply to a comment", model.ToolReply),
				).
				Value(&tool),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Follower comment").
				Value(&comment).
				Validate(required("Comment")),
		).WithHideFunc(func() bool { return tool != model.ToolReply }),
	).Run(); err != nil {
		return err
	}

	var output string
	err := runWithSpinner("Running "+strings.ToLower(string(tool))+" tool", func() error {
		var err error
		output, err = s.Service.GenerateToolOutput(s.ctx, s.APIKey, tool, r.ToolContext(comment))
		return err
	})
	if err != nil {
		return err
	}

	fmt.Println(cardStyle.Render(output))
	return nil
}

func variationOptions(limit int) []huh.Option[int] {
	counts := make([]int, 0, limit)
	for i := 1; i <= limit; i++ {
		counts = append(counts, i)
	}
	return huh.NewOptions(counts...)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
