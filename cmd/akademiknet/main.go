package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	appconfig "github.com/karagozeren/akademiknet/config"
	"github.com/karagozeren/akademiknet/internal/catalog"
	"github.com/karagozeren/akademiknet/internal/facade"
	"github.com/karagozeren/akademiknet/internal/launcher"
	"github.com/karagozeren/akademiknet/internal/mcpserver"
	"github.com/karagozeren/akademiknet/internal/scraper"
	"github.com/karagozeren/akademiknet/internal/server"
	"github.com/karagozeren/akademiknet/internal/session"
)

func main() {
	var configPath string
	root := &cobra.Command{Use: "akademiknet", Short: "Academic directory scrape orchestrator"}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file path")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the orchestration HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := appconfig.LoadConfig(configPath)
			st, err := session.NewStore(cfg.Sessions.DataDir)
			if err != nil {
				return err
			}
			ln, err := launcher.NewExec(cfg.Server.WorkerBinary, configPath)
			if err != nil {
				return err
			}
			cat, err := catalog.Load(cfg.Catalog.FieldsFile)
			if err != nil {
				return err
			}
			return server.New(cfg, st, ln, cat).Run()
		},
	}

	scrape := &cobra.Command{
		Use:   "scrape",
		Short: "Run one scrape worker phase (normally spawned by serve)",
	}

	var name, sessionID, email, field, profileURL string
	var specialties []string

	profiles := &cobra.Command{
		Use:   "profiles",
		Short: "Phase 1: discover researcher profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := appconfig.LoadConfig(configPath)
			st, err := session.NewStore(cfg.Sessions.DataDir)
			if err != nil {
				return err
			}
			ln, err := launcher.NewExec(cfg.Server.WorkerBinary, configPath)
			if err != nil {
				return err
			}
			ctx := context.Background()
			br, err := scraper.NewBrowser(ctx, cfg.Directory)
			if err != nil {
				return err
			}
			defer br.Close()

			d := &scraper.Discovery{
				Store:        st,
				Source:       br,
				Launcher:     ln,
				MaxProfiles:  cfg.Scraper.MaxProfiles,
				MaxEmailScan: cfg.Scraper.MaxEmailScan,
				MaxPages:     cfg.Scraper.MaxPages,
			}
			return d.Run(ctx, scraper.DiscoveryParams{
				Name:        name,
				SessionID:   sessionID,
				Email:       email,
				Field:       field,
				Specialties: specialties,
			})
		},
	}
	profiles.Flags().StringVar(&name, "name", "", "researcher name (required)")
	profiles.Flags().StringVar(&sessionID, "session", "", "session id (required)")
	profiles.Flags().StringVar(&email, "email", "", "exact email to match")
	profiles.Flags().StringVar(&field, "field", "", "field name filter")
	profiles.Flags().StringSliceVar(&specialties, "specialties", nil, "specialty name filters")
	_ = profiles.MarkFlagRequired("name")
	_ = profiles.MarkFlagRequired("session")

	collaborators := &cobra.Command{
		Use:   "collaborators",
		Short: "Phase 2: expand a profile's collaborator graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := appconfig.LoadConfig(configPath)
			st, err := session.NewStore(cfg.Sessions.DataDir)
			if err != nil {
				return err
			}
			ctx := context.Background()
			br, err := scraper.NewBrowser(ctx, cfg.Directory)
			if err != nil {
				return err
			}
			defer br.Close()

			e := &scraper.Expansion{
				Store:        st,
				Source:       br,
				Pause:        cfg.Scraper.CollabPause,
				DefaultPhoto: cfg.Scraper.DefaultPhotoPath,
			}
			return e.Run(ctx, name, sessionID, profileURL)
		},
	}
	collaborators.Flags().StringVar(&name, "name", "", "researcher name (required)")
	collaborators.Flags().StringVar(&sessionID, "session", "", "session id (required)")
	collaborators.Flags().StringVar(&profileURL, "url", "", "profile url (required)")
	_ = collaborators.MarkFlagRequired("name")
	_ = collaborators.MarkFlagRequired("session")
	_ = collaborators.MarkFlagRequired("url")

	scrape.AddCommand(profiles, collaborators)

	mcp := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the research tools over stdio JSON-RPC",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := appconfig.LoadConfig(configPath)
			client := facade.NewClient(cfg.Facade)
			return mcpserver.New(client).Serve(os.Stdin, os.Stdout)
		},
	}

	root.AddCommand(serve, scrape, mcp)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
