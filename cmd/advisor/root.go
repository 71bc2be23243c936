package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/comigor/advisor-go/internal/advisor"
	"github.com/comigor/advisor-go/internal/config"
	"github.com/comigor/advisor-go/internal/llm"
	"github.com/comigor/advisor-go/internal/logger"
	"github.com/comigor/advisor-go/internal/session"
	"github.com/comigor/advisor-go/internal/store"
)

var version = "dev"

var (
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "A computer science advising chat backed by a generative-text service",
	Long: `advisor answers computer science questions by streaming replies from an
OpenAI-compatible service. Greetings, farewells and off-topic messages get
fixed replies. The conversation is loaded at start and saved on exit.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or $CONFIG_PATH)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(serveCmd, chatCmd, mcpCmd)
}

// app is everything a command needs for one session.
type app struct {
	cfg     *config.Config
	store   store.Store
	session *session.Session
	advisor *advisor.Advisor
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	logger.SetLevel(cfg.Log.Level)

	st, err := store.Open(cfg.Store)
	if err != nil {
		return nil, err
	}
	sess, err := session.Load(ctx, st, cfg.Store.Key)
	if err != nil {
		st.Close()
		return nil, err
	}

	llmClient := llm.NewClient(cfg.LLM)
	logger.L.Info("llm client configured", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model, "base_url", cfg.LLM.BaseURL)
	return &app{
		cfg:     cfg,
		store:   st,
		session: sess,
		advisor: advisor.New(llmClient, sess),
	}, nil
}

// teardown saves the session once and releases the store.
func (a *app) teardown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	saveErr := a.session.Save(ctx)
	if saveErr != nil {
		logger.L.Error("failed to save session", "error", saveErr)
	}
	if err := a.store.Close(); err != nil {
		logger.L.Warn("store close error", "error", err)
	}
	return saveErr
}
