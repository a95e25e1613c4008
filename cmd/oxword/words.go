package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/oxword/internal/dictionary"
	"github.com/at-ishikawa/oxword/internal/enrichment"
	"github.com/at-ishikawa/oxword/internal/pdf"
	"github.com/at-ishikawa/oxword/internal/wordlist"
)

func newWordsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "words",
		Short: "Query the word list without the interactive browser",
	}
	cmd.AddCommand(
		newWordsListCommand(),
		newWordsLookupCommand(),
		newWordsExportPDFCommand(),
	)
	return cmd
}

func newWordsListCommand() *cobra.Command {
	var search string
	var sortByLevel bool
	var page int
	level := LevelFlag(dictionary.LevelAll)
	pageSize := PageSizeFlag(0)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of the filtered word list",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			entries, err := newEntryLoader(cfg.WordStore, cfg.Server.BulkLimit).FetchAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load dictionary data: %w", err)
			}

			size := int(pageSize)
			if size == 0 {
				size = cfg.Browser.PageSize
			}
			result := wordlist.Apply(entries, wordlist.Query{
				Search:      search,
				Level:       level.Level(),
				SortByLevel: sortByLevel,
				Page:        page,
				PageSize:    size,
			})

			out := cmd.OutOrStdout()
			if len(result.Entries) == 0 {
				_, err := fmt.Fprintln(out, "No words found")
				return err
			}
			for _, entry := range result.Entries {
				if _, err := fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\n",
					entry.Ordinal, entry.Level, entry.PartOfSpeech, entry.Headword, entry.Translation,
				); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintf(out, "Page %d of %d (%d words)\n", result.Page, result.TotalPages, result.Total)
			return err
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive headword substring")
	cmd.Flags().Var(&level, "level", "CEFR level filter")
	cmd.Flags().BoolVar(&sortByLevel, "sort-by-level", false, "sort by CEFR level")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().Var(&pageSize, "page-size", "entries per page")
	return cmd
}

func newWordsLookupCommand() *cobra.Command {
	var level LevelFlag

	cmd := &cobra.Command{
		Use:   "lookup <term>",
		Short: "Print the enrichment record of a word",
		Args:  cobra.ExactArgs(1),
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

			client := enrichment.NewHTTPClient(cfg.WordStore.BaseURL)
			defer closeWithLog("enrichment client", client.Close)

			coordinator := enrichment.NewCoordinator(client, store)
			defer coordinator.Close()

			state := coordinator.Enrich(cmd.Context(), args[0], level.Level())
			if state.Result == nil {
				return errors.New(state.Err)
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(state.Result)
		},
	}
	cmd.Flags().Var(&level, "level", "CEFR level of the word")
	return cmd
}

func newWordsExportPDFCommand() *cobra.Command {
	var search string
	var sortByLevel bool
	var outputDirectory string
	var fileName string
	var templatePath string
	level := LevelFlag(dictionary.LevelAll)

	cmd := &cobra.Command{
		Use:   "export-pdf",
		Short: "Export the filtered word list to a PDF file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			entries, err := newEntryLoader(cfg.WordStore, cfg.Server.BulkLimit).FetchAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load dictionary data: %w", err)
			}

			filtered := wordlist.Filter(entries, wordlist.Query{
				Search:      search,
				Level:       level.Level(),
				SortByLevel: sortByLevel,
			})
			if len(filtered) == 0 {
				return errors.New("no words match the filters")
			}

			if outputDirectory == "" {
				outputDirectory = cfg.Outputs.PDFDirectory
			}
			if err := os.MkdirAll(outputDirectory, 0755); err != nil {
				return fmt.Errorf("os.MkdirAll(%s) > %w", outputDirectory, err)
			}

			pdfPath, err := pdf.ExportEntries(pdf.Document{
				Description: pdf.Describe(len(filtered), level.Level(), search),
				Entries:     filtered,
			}, pdf.ExportOptions{
				OutputDirectory: outputDirectory,
				FileName:        fileName,
				TemplatePath:    templatePath,
			})
			if err != nil {
				return fmt.Errorf("pdf.ExportEntries > %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("Exported"), filepath.Clean(pdfPath))
			return err
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive headword substring")
	cmd.Flags().Var(&level, "level", "CEFR level filter")
	cmd.Flags().BoolVar(&sortByLevel, "sort-by-level", false, "sort by CEFR level")
	cmd.Flags().StringVar(&outputDirectory, "output", "", "output directory (default: outputs.pdf_directory)")
	cmd.Flags().StringVar(&fileName, "name", "", "file name without extension")
	cmd.Flags().StringVar(&templatePath, "template", "", "markdown template path")
	return cmd
}
