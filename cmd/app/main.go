package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/skald/internal"
	pkgconfig "github.com/starford/skald/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func mcp(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.RunMCP(cfg)
}

func export(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	target, err := internal.ExportDeck(ctx, cfg, cmd.String("deck"), cmd.String("theme"), cmd.String("out"))
	if err != nil {
		return err
	}
	fmt.Println(target)
	return nil
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:   "skald",
		Usage:  "Presentation generator with a deck library, AI drafting, and PPTX export",
		Action: serve,
		Flags:  []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP server (default)",
				Action: serve,
				Flags:  []cli.Flag{configFlag},
			},
			{
				Name:   "mcp",
				Usage:  "Serve deck tools over the Model Context Protocol on stdio",
				Action: mcp,
				Flags:  []cli.Flag{configFlag},
			},
			{
				Name:   "export",
				Usage:  "Render a deck from the library to a .pptx file",
				Action: export,
				Flags: []cli.Flag{
					configFlag,
					&cli.StringFlag{
						Name:     "deck",
						Usage:    "Deck id to export",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "theme",
						Usage: "Theme id (defaults to clean-white)",
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "Output directory",
						Value: ".",
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
