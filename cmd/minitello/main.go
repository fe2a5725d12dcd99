package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/minitello/minitello/internal/cli"
	"github.com/minitello/minitello/internal/db"
	"github.com/minitello/minitello/internal/repository"
	"github.com/minitello/minitello/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.minitello/minitello.db
	dbPath := os.Getenv("MINITELLO_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".minitello", "minitello.db")
	}

	// Acting user: env var, falling back to the OS username.
	userID := os.Getenv("MINITELLO_USER")
	if userID == "" {
		userID = os.Getenv("USER")
	}
	if userID == "" {
		userID = "local"
	}

	// Open database
	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	stepRepo := repository.NewSQLiteStepRepo(database)
	memberRepo := repository.NewSQLiteMembershipRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Structured use-case logging goes to stderr only when requested, so
	// normal CLI output stays clean. Piped output gets no logging at all.
	var logWriter io.Writer
	if os.Getenv("MINITELLO_LOG") != "" && isatty.IsTerminal(os.Stderr.Fd()) {
		logWriter = os.Stderr
	}
	observer := service.NewLogUseCaseObserver(logWriter)

	app := &cli.App{
		Projects: service.NewProjectService(stepRepo, memberRepo, uow, observer),
		Steps:    service.NewStepService(stepRepo, memberRepo, uow, observer),
		UserID:   userID,
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
