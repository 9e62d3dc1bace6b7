// Package service implements the inkwell command line: the blog server and
// the commands that manage its storage and content.
package service

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"inkwell/app/config"
	"inkwell/app/logging"
	"inkwell/app/repositories"
)

// cli carries the state shared by every command once the root has run.
type cli struct {
	configPath string
	verbose    bool
	yes        bool

	cfg    *config.Config
	logger *zap.Logger
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// NewRootCommand builds the inkwell command tree.
func NewRootCommand() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "inkwell",
		Short:         "A small blog with tags, comments, sharing and search",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			if c.verbose {
				cfg.Log.Level = "debug"
			}
			logger, err := logging.New(cfg.Log)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "YAML config file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		c.serveCommand(),
		c.initCommand(),
		c.migrateCommand(),
		c.cleanCommand(),
		c.backupCommand(),
		c.restoreCommand(),
		c.authorCommand(),
		c.postCommand(),
		c.commentCommand(),
		c.tagCommand(),
	)
	return root
}

func (c *cli) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the blog server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return RunAppServer(ctx, c.cfg, c.logger)
		},
	}
}

func (c *cli) initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if c.cfg.Storage.Driver != config.DriverBadger {
				if err := c.migrate(); err != nil {
					return err
				}
				fmt.Fprintln(out, "Database initialized successfully")
				return nil
			}

			path := c.cfg.Storage.BadgerPath
			if _, err := os.Stat(path); err == nil {
				fmt.Fprintln(out, "Database already exists. Use 'clean' first if you want to reinitialize.")
				return nil
			}
			if err := os.MkdirAll(path, 0o755); err != nil {
				return fmt.Errorf("create database directory: %w", err)
			}
			db, err := repositories.OpenBadger(path, c.logger)
			if err != nil {
				return err
			}
			if err := db.Close(); err != nil {
				return err
			}
			fmt.Fprintln(out, "Database initialized successfully")
			return nil
		},
	}
}

func (c *cli) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the SQL schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Storage.Driver == config.DriverBadger {
				fmt.Fprintln(cmd.OutOrStdout(), "The badger store has no schema to migrate")
				return nil
			}
			if err := c.migrate(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema migrated successfully")
			return nil
		},
	}
}

func (c *cli) migrate() error {
	store, err := openStore(c.cfg, c.logger, true)
	if err != nil {
		return err
	}
	return store.Close()
}

func (c *cli) cleanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete the blog database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var path string
			switch c.cfg.Storage.Driver {
			case config.DriverBadger:
				path = c.cfg.Storage.BadgerPath
			case config.DriverSQLite:
				path = c.cfg.Storage.SQLitePath
			default:
				return fmt.Errorf("clean is not supported for the %s driver", c.cfg.Storage.Driver)
			}

			if _, err := os.Stat(path); os.IsNotExist(err) {
				fmt.Fprintln(out, "Database is already clean (does not exist)")
				return nil
			}
			if !c.yes && !confirm(cmd.InOrStdin(), out, "Are you sure you want to clean the database? This cannot be undone.") {
				fmt.Fprintln(out, "Operation cancelled")
				return nil
			}
			if err := os.RemoveAll(path); err != nil {
				return fmt.Errorf("clean database: %w", err)
			}
			fmt.Fprintln(out, "Database cleaned successfully")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&c.yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

var errBadgerOnly = errors.New("backup and restore are only supported for the badger driver")

func (c *cli) backupCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create a backup of the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Storage.Driver != config.DriverBadger {
				return errBadgerOnly
			}
			out := cmd.OutOrStdout()
			path := c.cfg.Storage.BadgerPath
			if _, err := os.Stat(path); os.IsNotExist(err) {
				fmt.Fprintln(out, "No database exists to backup")
				return nil
			}

			if output == "" {
				output = filepath.Join(c.cfg.Storage.BackupDir, fmt.Sprintf("backup_%d.db", time.Now().Unix()))
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return fmt.Errorf("create backup directory: %w", err)
			}

			db, err := repositories.OpenBadger(path, c.logger)
			if err != nil {
				return err
			}
			defer db.Close()

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create backup file: %w", err)
			}
			defer f.Close()

			if _, err := db.Backup(f, 0); err != nil {
				return fmt.Errorf("backup database: %w", err)
			}
			fmt.Fprintf(out, "Database backed up successfully to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Backup file (default: <backup_dir>/backup_<unix time>.db)")
	return cmd
}

func (c *cli) restoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore the database from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Storage.Driver != config.DriverBadger {
				return errBadgerOnly
			}
			return c.restore(cmd, args[0])
		},
	}
	cmd.Flags().BoolVarP(&c.yes, "yes", "y", false, "Replace an existing database without asking")
	return cmd
}

func (c *cli) restore(cmd *cobra.Command, backupFile string) error {
	out := cmd.OutOrStdout()
	path := c.cfg.Storage.BadgerPath

	fi, err := os.Stat(backupFile)
	if os.IsNotExist(err) {
		return fmt.Errorf("backup file does not exist: %s", backupFile)
	}
	if err != nil {
		return err
	}
	if fi.Size() == 0 {
		return fmt.Errorf("backup file is empty: %s", backupFile)
	}

	if _, err := os.Stat(path); err == nil {
		if !c.yes && !confirm(cmd.InOrStdin(), out, "Existing database found. Do you want to replace it?") {
			fmt.Fprintln(out, "Operation cancelled")
			return nil
		}
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("remove existing database: %w", err)
		}
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}

	db, err := repositories.OpenBadger(path, c.logger)
	if err != nil {
		return err
	}
	defer db.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		return fmt.Errorf("open backup file: %w", err)
	}
	defer f.Close()

	err = func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic occurred during restore: %v", r)
			}
		}()
		return db.Load(f, 4)
	}()
	if err != nil {
		return fmt.Errorf("restore database: %w", err)
	}

	fmt.Fprintln(out, "Database restored successfully")
	return nil
}
