package main

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/oxword/internal/config"
	"github.com/at-ishikawa/oxword/internal/database"
	"github.com/at-ishikawa/oxword/internal/datasync"
	"github.com/at-ishikawa/oxword/internal/dictionary"
)

const (
	connectAttempts = 5
	connectDelay    = time.Second
)

func newDBCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the word store database",
	}
	cmd.AddCommand(
		newDBMigrateCommand(),
		newDBImportCommand(),
		newDBExportCommand(),
	)
	return cmd
}

func openDatabase(cmd *cobra.Command) (*config.Config, *sqlx.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("database.Open() > %w", err)
	}
	if err := database.WaitForConnection(cmd.Context(), db, connectAttempts, connectDelay); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("database.WaitForConnection() > %w", err)
	}
	return cfg, db, nil
}

func newDBMigrateCommand() *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDatabase(cmd)
			if err != nil {
				return err
			}
			defer closeWithLog("database", db.Close)

			direction := database.Up
			if down {
				direction = database.Down
			}
			if err := database.Migrate(cmd.Context(), db, direction); err != nil {
				return fmt.Errorf("database.Migrate() > %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s\n", direction)
			return err
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "roll back the latest migration")
	return cmd
}

func newDBImportCommand() *cobra.Command {
	var dryRun bool
	var updateExisting bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import words from a YAML file into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			wordsFile, err := datasync.ReadWordsFile(args[0])
			if err != nil {
				return fmt.Errorf("datasync.ReadWordsFile() > %w", err)
			}

			_, db, err := openDatabase(cmd)
			if err != nil {
				return err
			}
			defer closeWithLog("database", db.Close)

			out := cmd.OutOrStdout()
			importer := datasync.NewImporter(dictionary.NewDBWordRepository(db), out)
			opts := datasync.ImportOptions{
				DryRun:         dryRun,
				UpdateExisting: updateExisting,
			}
			result, err := importer.ImportWords(cmd.Context(), wordsFile.Words, opts)
			if err != nil {
				return fmt.Errorf("importer.ImportWords() > %w", err)
			}

			_, _ = fmt.Fprintln(out, "\nImport Summary:")
			if opts.DryRun {
				_, _ = fmt.Fprintln(out, "  (dry-run mode, no changes made)")
			}
			_, err = fmt.Fprintf(out, "  Words: %d new, %d skipped, %d updated, %d invalid\n",
				result.WordsNew, result.WordsSkipped, result.WordsUpdated, result.WordsInvalid)
			return err
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without modifying the database")
	cmd.Flags().BoolVar(&updateExisting, "update-existing", false, "Update existing records with new data")
	return cmd
}

func newDBExportCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export the words in the database to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDatabase(cmd)
			if err != nil {
				return err
			}
			defer closeWithLog("database", db.Close)

			if limit <= 0 {
				limit = cfg.Server.BulkLimit
			}
			wordsFile, err := datasync.NewExporter(dictionary.NewDBWordRepository(db)).Export(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("exporter.Export() > %w", err)
			}
			if err := datasync.WriteWordsFile(args[0], wordsFile); err != nil {
				return fmt.Errorf("datasync.WriteWordsFile() > %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d words to %s\n", len(wordsFile.Words), args[0])
			return err
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of words (default: server.bulk_limit)")
	return cmd
}
