package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/oxword/internal/enrichment"
)

func newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear the lookup cache",
	}
	cmd.AddCommand(newCacheClearCommand(), newCacheStatsCommand())
	return cmd
}

func newCacheClearCommand() *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, closeStore, err := openCacheStore(cfg.Cache)
			if err != nil {
				return err
			}
			defer closeWithLog("cache", closeStore)

			if namespace == "" {
				store.ClearAll()
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "Cleared all cache namespaces")
				return err
			}
			store.ClearNamespace(namespace)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Cleared cache namespace %q\n", namespace)
			return err
		},
	}
	cmd.Flags().StringVar(&namespace, "namespace", "", "namespace to clear (default: all)")
	return cmd
}

func newCacheStatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the number of live cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, closeStore, err := openCacheStore(cfg.Cache)
			if err != nil {
				return err
			}
			defer closeWithLog("cache", closeStore)

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "backend: %s\n%s: %d\n",
				cfg.Cache.Backend, enrichment.CacheNamespace, store.Len(enrichment.CacheNamespace))
			return err
		},
	}
	return cmd
}
