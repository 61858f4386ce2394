package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"wiki-quiz/internal/cli"
	"wiki-quiz/internal/client"
	"wiki-quiz/internal/config"
	"wiki-quiz/internal/domain"
	"wiki-quiz/internal/i18n"
	"wiki-quiz/internal/logger"
	"wiki-quiz/internal/player"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "quiz",
		Short:        "Play multiple-choice quizzes generated from Wikipedia articles",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.String("api", "", "Quiz API base URL (default from config client.api_url)")
	pf.StringP("lang", "l", "", "UI language (en, ru)")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(playCmd(), retakeCmd(), listCmd(), showCmd())
	return root
}

func playCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play [url]",
		Short: "Generate a quiz from a Wikipedia article and play it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			articleURL, _ := cmd.Flags().GetString("url")
			if articleURL == "" && len(args) == 1 {
				articleURL = args[0]
			}
			if strings.TrimSpace(articleURL) == "" {
				return fmt.Errorf("a Wikipedia URL is required (--url)")
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return a.runner.Play(ctx, articleURL)
			})
		},
	}
	cmd.Flags().StringP("url", "u", "", "Wikipedia article URL")
	return cmd
}

func retakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retake <id>",
		Short: "Play a stored quiz again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return a.runner.Retake(ctx, args[0])
			})
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List past quizzes with their scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return a.runner.List(ctx)
			})
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a stored quiz with its answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return a.runner.Show(ctx, args[0])
			})
		},
	}
}

type app struct {
	runner   *cli.Runner
	recorder *player.AsyncScoreRecorder
}

// withApp loads configuration, applies flag overrides and runs fn with a
// context cancelled on SIGINT or SIGTERM.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	if err := logger.Initialize(cfg.Logger); err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Get().Named("quiz")
	log.Debug("Client configuration", zap.String("api", cfg.Client.APIURL), zap.String("lang", cfg.Client.Lang))

	tr, err := i18n.New(cfg.Client.Lang)
	if err != nil {
		return err
	}

	api := client.New(cfg.Client, nil)
	recorder := player.NewAsyncScoreRecorder(api, cfg.Client.Timeout, log)
	p := player.New(api, domain.NewShuffler(), recorder, log)
	a := &app{
		runner:   cli.NewRunner(p, api, recorder, tr, cmd.InOrStdin(), cmd.OutOrStdout(), log),
		recorder: recorder,
	}
	defer a.recorder.Wait()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := fn(ctx, a); err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			log.Debug("Interrupted")
			return nil
		}
		return err
	}
	return nil
}

// applyFlags lets explicitly set flags and WIKIQUIZ_* variables override the
// loaded configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())
	v.SetEnvPrefix("WIKIQUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if s := v.GetString("api"); s != "" {
		cfg.Client.APIURL = s
	}
	if s := v.GetString("lang"); s != "" {
		cfg.Client.Lang = s
	}
	if s := v.GetString("log-level"); s != "" {
		cfg.Logger.Level = s
	}
}
