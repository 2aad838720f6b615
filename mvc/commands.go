package mvc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"soriblog/app/bootstrap"
	"soriblog/app/config"
	"soriblog/app/repositories"
	"soriblog/app/sessions"
)

// NewRootCommand builds the soriblog command tree.
func NewRootCommand(version string) *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "soriblog",
		Short:         "A small server-rendered blog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "optional config file (yaml, toml, json or env)")

	load := func() (*config.Config, error) {
		return config.Load(configFile)
	}

	root.AddCommand(
		serveCommand(load),
		initCommand(load),
		cleanCommand(load),
		sessionsCommand(load),
		backupCommand(load),
		restoreCommand(load),
		versionCommand(version),
	)
	return root
}

type loader func() (*config.Config, error)

func serveCommand(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the blog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			log := bootstrap.NewLogger(cfg, cmd.OutOrStdout())

			app, err := bootstrap.NewApp(cfg, log)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.Run(ctx)
		},
	}
}

func initCommand(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			db, err := repositories.Open(cfg.DBPath, nil)
			if err != nil {
				return err
			}
			if err := repositories.Close(db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database initialized at %s\n", cfg.DBPath)
			return nil
		},
	}
}

func cleanCommand(load loader) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the database and all sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if !exists(cfg.DBPath) && !exists(cfg.SessionDir) {
				fmt.Fprintln(out, "Nothing to clean")
				return nil
			}
			if !yes && !confirm(cmd.InOrStdin(), out, "Are you sure you want to clean the database? This cannot be undone.") {
				fmt.Fprintln(out, "Operation cancelled")
				return nil
			}

			for _, path := range sqliteFiles(cfg.DBPath) {
				if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("failed to remove %s: %w", path, err)
				}
			}
			if cfg.SessionDir != "" {
				if err := os.RemoveAll(cfg.SessionDir); err != nil {
					return fmt.Errorf("failed to remove sessions: %w", err)
				}
			}
			fmt.Fprintln(out, "Database cleaned successfully")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func sessionsCommand(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect or drop login sessions",
	}

	withStore := func(fn func(*cobra.Command, *sessions.Store) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			store, err := sessions.Open(cfg.SessionDir, cfg.SessionTTL, nil)
			if err != nil {
				return err
			}
			defer store.Close()
			return fn(cmd, store)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "purge",
			Short: "Log everyone out",
			RunE: withStore(func(cmd *cobra.Command, store *sessions.Store) error {
				if err := store.Purge(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "All sessions purged")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "count",
			Short: "Print the number of live sessions",
			RunE: withStore(func(cmd *cobra.Command, store *sessions.Store) error {
				n, err := store.Count()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), n)
				return nil
			}),
		},
	)
	return cmd
}

func backupCommand(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Write a snapshot of the database to the backup directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if !exists(cfg.DBPath) {
				return fmt.Errorf("no database at %s", cfg.DBPath)
			}
			if err := os.MkdirAll(cfg.BackupDir, 0o755); err != nil {
				return fmt.Errorf("failed to create backup directory: %w", err)
			}

			target := filepath.Join(cfg.BackupDir, fmt.Sprintf("backup_%d.db", time.Now().Unix()))
			if err := backup(cmd.Context(), cfg.DBPath, target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database backed up successfully to %s\n", target)
			return nil
		},
	}
}

func restoreCommand(load loader) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace the database with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			source := args[0]

			if !exists(source) {
				return fmt.Errorf("backup file does not exist: %s", source)
			}
			if exists(cfg.DBPath) && !yes &&
				!confirm(cmd.InOrStdin(), out, "Existing database found. Do you want to replace it?") {
				fmt.Fprintln(out, "Operation cancelled")
				return nil
			}

			if err := restore(source, cfg.DBPath); err != nil {
				return err
			}
			fmt.Fprintln(out, "Database restored successfully")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func versionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "soriblog version %s\n", version)
		},
	}
}

// backup copies the live database with VACUUM INTO, which is consistent
// even while the server is writing.
func backup(ctx context.Context, dbPath, target string) error {
	db, err := repositories.Open(dbPath, nil)
	if err != nil {
		return err
	}
	defer repositories.Close(db)

	if err := db.WithContext(ctx).Exec("VACUUM INTO ?", target).Error; err != nil {
		return fmt.Errorf("failed to back up database: %w", err)
	}
	return nil
}

// restore copies source over dbPath and checks the result opens as a blog
// database.
func restore(source, dbPath string) error {
	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("failed to open backup: %w", err)
	}
	defer in.Close()

	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	for _, path := range sqliteFiles(dbPath)[1:] {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	out, err := os.Create(dbPath)
	if err != nil {
		return fmt.Errorf("failed to create database file: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to restore database: %w", err)
	}
	if err := out.Close(); err != nil {
		return err
	}

	db, err := repositories.Open(dbPath, nil)
	if err != nil {
		return fmt.Errorf("restored file is not usable: %w", err)
	}
	return repositories.Close(db)
}

// sqliteFiles lists the database file followed by its journal side files.
func sqliteFiles(dbPath string) []string {
	return []string{dbPath, dbPath + "-wal", dbPath + "-shm", dbPath + "-journal"}
}

func exists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.TrimSpace(line)
	return answer == "y" || answer == "Y"
}
