package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/oxword/internal/cli"
	"github.com/at-ishikawa/oxword/internal/enrichment"
)

func newBrowseCommand() *cobra.Command {
	var level LevelFlag
	pageSize := PageSizeFlag(0)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the word list interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			entries, err := newEntryLoader(cfg.WordStore, cfg.Server.BulkLimit).FetchAll(ctx)
			if err != nil {
				return fmt.Errorf("failed to load dictionary data: %w", err)
			}

			store, closeStore, err := openCacheStore(cfg.Cache)
			if err != nil {
				return err
			}
			defer closeWithLog("cache", closeStore)

			client := enrichment.NewHTTPClient(cfg.WordStore.BaseURL)
			defer closeWithLog("enrichment client", client.Close)

			size := int(pageSize)
			if size == 0 {
				size = cfg.Browser.PageSize
			}
			browser := cli.NewBrowserCLI(entries, size, client, store, os.Stdin, cmd.OutOrStdout())
			if level == "" && cfg.Browser.Level != "" {
				if err := level.Set(cfg.Browser.Level); err != nil {
					return err
				}
			}
			if level != "" {
				browser.View().SetLevel(level.Level())
			}
			return browser.Run(ctx)
		},
	}
	cmd.Flags().Var(&level, "level", "initial CEFR level filter")
	cmd.Flags().Var(&pageSize, "page-size", "entries per page")
	return cmd
}
