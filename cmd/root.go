package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"cilastudio/internal/app"
	"cilastudio/internal/app/model"
	"cilastudio/pkg/config"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	apiKeyFlag string
	tierFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "cilastudio",
	Short: "Bilingual social content studio for Bandung lifestyle creators",
	Long: `Cila Studio plans Instagram/TikTok posts with Google Gemini.

It discovers trending Bandung topics, writes Indonesian/Sundanese captions
with matching photo prompts, synthesizes portrait images, drafts video
prompts and runs small creator tools (audio ideas, hashtags, replies).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "Path to config file")
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&tierFlag, "tier", "", "Service tier: FREE or PRO")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		setupLogger()
	}
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func setupLogger() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

// loadStudio builds the service from config, letting --api-key and --tier win over file and env values.
func loadStudio() (*app.BuildResult, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if key := strings.TrimSpace(apiKeyFlag); key != "" {
		cfg.GeminiAPIKey = key
	}
	if tierFlag != "" {
		t, err := model.ParseTier(tierFlag)
		if err != nil {
			return nil, err
		}
		cfg.Studio.Tier = string(t)
	}

	return app.BuildService(cfg)
}
