package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"dbstash/action"
	"dbstash/config"
	db "dbstash/database"
	utils "dbstash/internal/utils"
	"dbstash/store"

	"github.com/urfave/cli/v2"
)

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "backup",
			Usage: "Back up the configured tables from the source database",
		},
		&cli.BoolFlag{
			Name:  "restore",
			Usage: "Restore the configured tables into the destination database",
		},
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Configuration file (default: dbstash.yaml in current directory or parents)",
		},
		&cli.StringFlag{
			Name:    "directory",
			Aliases: []string{"d"},
			Value:   ".",
			Usage:   "Directory where the per-table JSON files are stored and read",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Tell what's going on",
		},
	}
}

// Run is the application action: validates arguments, loads configuration,
// then runs the backup and/or restore pass in that order.
func Run(c *cli.Context) error {
	doBackup := c.Bool("backup")
	doRestore := c.Bool("restore")
	if !doBackup && !doRestore {
		return cli.Exit("an action is required, either --backup or --restore", 2)
	}

	dir := c.String("directory")
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return cli.Exit(fmt.Sprintf("the directory %s does not exist", dir), 2)
	}

	level := slog.LevelWarn
	if c.Bool("verbose") {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	configPath := c.String("file")
	if configPath == "" {
		configPath, err = utils.FindConfigFile()
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	st := store.New(dir)

	if doBackup {
		if err := runSide("backup", cfg.Backup, cfg.Tables, action.NewBackup(st, logger), logger); err != nil {
			return err
		}
	}
	if doRestore {
		if err := runSide("restore", cfg.Restore, cfg.Tables, action.NewRestore(st, logger), logger); err != nil {
			return err
		}
	}
	return nil
}

// runSide connects one side, runs its processor over the configured tables
// and renders the summary. The report is rendered even when the run aborts,
// so already-committed tables stay visible.
func runSide(side string, dbCfg db.Config, tables []string, proc action.Processor, logger *slog.Logger) error {
	if err := config.Validate(side, dbCfg); err != nil {
		return cli.Exit(err.Error(), 2)
	}
	if dbCfg.Password == "" {
		pw, err := utils.ReadPassword(fmt.Sprintf("%s password for %s@%s: ", side, dbCfg.User, dbCfg.Host))
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
		dbCfg.Password = pw
	}

	conn, err := db.Connect(dbCfg)
	if err != nil {
		return cli.Exit(fmt.Sprintf("%s: %v", side, err), 1)
	}
	defer conn.Close()

	logger.Info("starting", "action", side, "tables", len(tables))
	report, runErr := proc.Process(tables, conn)
	report.Render(os.Stdout)
	if runErr != nil {
		return cli.Exit(fmt.Sprintf("%s failed: %v", side, runErr), 1)
	}
	return nil
}
