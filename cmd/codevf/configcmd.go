package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/codevf/codevf-go/internal/config"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}
	cmd.AddCommand(configInitCmd(), configCheckCmd())
	return cmd
}

func configCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <path>",
		Short: "Validate a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}
			fmt.Println("Configuration valid.")
			return nil
		},
	}
}

func configInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create the configuration file",
		RunE: func(_ *cobra.Command, _ []string) error {
			path, err := config.DefaultPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
			}

			cfg, err := runInitForm()
			if err != nil {
				return err
			}

			raw, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
				return err
			}
			// The file may hold the API key; keep it private.
			if err := os.WriteFile(path, raw, 0o600); err != nil {
				return err
			}

			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")
	return cmd
}

// runInitForm collects the required settings interactively.
func runInitForm() (*config.Config, error) {
	var (
		apiKey     string
		projectID  string
		maxCredits = strconv.Itoa(50)
		mode       = "standard"
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("CodeVF API key").
				Description("Leave empty to rely on the CODEVF_API_KEY environment variable.").
				EchoMode(huh.EchoModePassword).
				Value(&apiKey),
			huh.NewInput().
				Title("Project ID").
				Description("Organises tasks on the CodeVF side.").
				Value(&projectID).
				Validate(requirePositiveInt),
			huh.NewInput().
				Title("Max credits per request").
				Value(&maxCredits).
				Validate(requirePositiveInt),
			huh.NewSelect[string]().
				Title("Service mode").
				Options(
					huh.NewOption("standard", "standard"),
					huh.NewOption("fast", "fast"),
				).
				Value(&mode),
		),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}

	pid, _ := strconv.ParseInt(strings.TrimSpace(projectID), 10, 64)
	credits, _ := strconv.Atoi(strings.TrimSpace(maxCredits))

	return &config.Config{
		APIKey:     apiKey,
		ProjectID:  pid,
		MaxCredits: credits,
		Mode:       mode,
	}, nil
}

func requirePositiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n <= 0 {
		return fmt.Errorf("must be greater than zero")
	}
	return nil
}
