package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/liemdt/zbot/internal/config"
	"github.com/liemdt/zbot/internal/gateway"
)

// configInitCmd walks the operator through a minimal configuration and
// writes it to the given path (default ./zbot.yaml).
func configInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Interactively create a configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := "zbot.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists, refusing to overwrite", path)
			}
			return runConfigInit(path)
		},
	}
	return cmd
}

func runConfigInit(path string) error {
	var (
		botToken   string
		geminiKey  string
		webhookURL string
		memBackend = "memory"
		genSecret  = true
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Zalo bot token").
				Description("From the Zalo bot platform (required)").
				Value(&botToken).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("bot token is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Gemini API key").
				Description("Leave empty to run without AI replies").
				Value(&geminiKey),
			huh.NewInput().
				Title("Webhook URL").
				Description("Public HTTPS URL of this server's /webhook endpoint").
				Value(&webhookURL),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Conversation storage").
				Options(
					huh.NewOption("In-memory (lost on restart)", "memory"),
					huh.NewOption("SQLite file", "sqlite"),
				).
				Value(&memBackend),
			huh.NewConfirm().
				Title("Generate a webhook secret now?").
				Value(&genSecret),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	var cfg config.Config
	cfg.Zalo.BotToken = botToken
	cfg.Zalo.WebhookURL = webhookURL
	cfg.Gemini.APIKey = geminiKey
	cfg.Memory.Backend = memBackend
	if genSecret {
		secret, err := gateway.GenerateSecret()
		if err != nil {
			return err
		}
		cfg.Zalo.WebhookSecret = secret
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", path)
	fmt.Println("Start the bot with: zbot start -c", path)
	return nil
}
