package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"cilastudio/internal/app/model"
	"cilastudio/pkg/config"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

const envPath = ".env"

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for Cila Studio",
	Long:  `Configure the Gemini API key and tier, create the output directory and write a starter config.yaml.`,
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("✨ Cila Studio Setup"))

	cfg := config.Default()

	steps := []struct {
		name string
		fn   func(*config.Config) error
	}{
		{"Configuring environment", configureEnv},
		{"Configuring studio", configureStudio},
		{"Creating directories", createDirectories},
		{"Writing config", writeConfig},
	}

	for _, step := range steps {
		if err := step.fn(cfg); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	printNextSteps()
	return nil
}

func configureEnv(cfg *config.Config) error {
	if _, err := os.Stat(envPath); err == nil {
		var overwrite bool
		if err := huh.NewConfirm().
			Title("Found existing .env file").
			Description("Overwrite?").
			Value(&overwrite).
			Run(); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println(infoStyle.Render("Kept existing .env"))
			return nil
		}
	}

	var apiKey string
	tier := model.TierFree

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Gemini API Key").
				Description("https://aistudio.google.com/apikey").
				EchoMode(huh.EchoModePassword).
				Value(&apiKey).
				Validate(required("Gemini API Key")),
			huh.NewSelect[model.Tier]().
				Title("Tier").
				Description("PRO uses the pro text and image models").
				Options(
					huh.NewOption("FREE (flash models)", model.TierFree),
					huh.NewOption("PRO (pro models)", model.TierPro),
				).
				Value(&tier),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	cfg.Studio.Tier = string(tier)
	return writeEnvFile(map[string]string{
		"GEMINI_API_KEY": strings.TrimSpace(apiKey),
		"CILA_TIER":      string(tier),
	})
}

func configureStudio(cfg *config.Config) error {
	mode, _ := model.ParseMode(cfg.Studio.DefaultMode)
	style, _ := model.ParseVisualStyle(cfg.Studio.DefaultStyle)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Reference face photo").
				Description("Used for every image synthesis (optional)").
				Value(&cfg.Studio.ReferenceImage).
				Validate(optionalImage),
			huh.NewInput().
				Title("Output directory").
				Value(&cfg.Studio.OutputDir).
				Validate(required("Output directory")),
			huh.NewSelect[model.ContentMode]().
				Title("Default mode").
				Options(huh.NewOptions(model.Modes()...)...).
				Value(&mode),
			huh.NewSelect[model.VisualStyle]().
				Title("Default visual style").
				Options(huh.NewOptions(model.VisualStyles()...)...).
				Value(&style),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	cfg.Studio.ReferenceImage = strings.TrimSpace(cfg.Studio.ReferenceImage)
	cfg.Studio.DefaultMode = string(mode)
	cfg.Studio.DefaultStyle = string(style)
	return nil
}

func createDirectories(cfg *config.Config) error {
	if err := os.MkdirAll(cfg.Studio.OutputDir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", cfg.Studio.OutputDir, err)
	}
	fmt.Println(successStyle.Render("✓ Created " + cfg.Studio.OutputDir))
	return nil
}

func writeConfig(cfg *config.Config) error {
	if _, err := os.Stat(configPath); err == nil {
		var overwrite bool
		if err := huh.NewConfirm().
			Title("Found existing " + configPath).
			Description("Overwrite?").
			Value(&overwrite).
			Run(); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println(infoStyle.Render("Kept existing " + configPath))
			return nil
		}
	}

	if err := config.Save(cfg, configPath); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Created " + configPath))
	return nil
}

func writeEnvFile(env map[string]string) error {
	f, err := os.Create(envPath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	for _, key := range []string{"GEMINI_API_KEY", "CILA_TIER"} {
		if val, ok := env[key]; ok && val != "" {
			_, _ = fmt.Fprintf(f, "%s=%s\n", key, val)
		}
	}

	fmt.Println(successStyle.Render("✓ Created .env file"))
	return nil
}

func printNextSteps() {
	fmt.Println()
	fmt.Println(titleStyle.Render("Next steps:"))
	fmt.Println("  1. Run: cilastudio topic")
	fmt.Println("  2. Run: cilastudio plan -t \"Ngopi sore di Dago\" -n 4")
	fmt.Println("  3. Or explore interactively: cilastudio studio")
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func optionalImage(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s does not exist", path)
	}
	return nil
}
