// Command alder builds and serves a small static site.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/alderfall/alder/internal/build"
	"github.com/alderfall/alder/internal/config"
	"github.com/alderfall/alder/internal/devserver"
)

var banner = `
   _    _     _
  / \  | | __| | ___ _ __
 / _ \ | |/ _` + "`" + ` |/ _ \ '__|
/ ___ \| | (_| |  __/ |
/_/   \_\_|\__,_|\___|_|
`

var version = "0.1.0"

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	root := &cobra.Command{
		Use:           "alder",
		Short:         "A small, reactive static-site toolkit",
		Long:          banner,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var configPath string
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to site.config.yaml")

	root.AddCommand(
		buildCmd(log, &configPath),
		devCmd(log, &configPath),
		versionCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "alder:", err)
		os.Exit(1)
	}
}

func buildCmd(log *slog.Logger, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Render content/ to dist/",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			_, err = build.Run(cfg, log)
			return err
		},
	}
}

func devCmd(log *slog.Logger, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "dev",
		Short: "Build, serve and live-reload on content changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			rebuild := func() error {
				_, err := build.Run(cfg, log)
				return err
			}
			if err := rebuild(); err != nil {
				return err
			}

			srv := devserver.New(cfg, log, rebuild)
			go func() {
				if err := srv.Watch(cfg.ContentDir); err != nil {
					log.Error("watcher stopped", "err", err)
				}
			}()

			return srv.ListenAndServe(fmt.Sprintf(":%d", cfg.DevPort))
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the alder version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("alder", version)
			return nil
		},
	}
}
