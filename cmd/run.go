package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/parley/internal/app"
	"github.com/abhisek/parley/internal/catalog"
	"github.com/abhisek/parley/internal/config"
	"github.com/abhisek/parley/internal/logger"
	"github.com/abhisek/parley/internal/speech"
)

// loadConfig reads --config and the environment, then applies --content.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("content"); p != "" {
		cfg.ContentPath = p
	}
	return cfg, nil
}

// loadCatalog returns the catalog at path, or the built-in one.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}

// closeInto calls closeFn and reports its failure through err unless an
// earlier error is already set.
func closeInto(err *error, what string, closeFn func() error) {
	if cerr := closeFn(); cerr != nil && *err == nil {
		*err = fmt.Errorf("%s: %w", what, cerr)
	}
}

// runApp wires configuration, logging, content and speech, then launches
// the TUI. startID optionally opens a scenario or topic directly.
func runApp(cmd *cobra.Command, startID string) (err error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	base, closeLog, err := logger.Setup(cfg)
	if err != nil {
		return err
	}
	defer closeInto(&err, "close log", closeLog)
	log := logger.WithSession(base, uuid.NewString())

	cat, err := loadCatalog(cfg.ContentPath)
	if err != nil {
		return err
	}
	log.Info("catalog loaded",
		"version", cat.Version(),
		"scenarios", len(cat.Scenarios()),
		"topics", len(cat.Topics()),
	)

	speaker, err := speech.New(cfg.SpeechCommand, log)
	if err != nil {
		logger.WithError(log, err).Warn("speech disabled")
	}
	log.Debug("speech ready", "speaker", fmt.Sprintf("%T", speaker))

	return app.Run(app.Deps{
		Catalog: cat,
		Config:  cfg,
		Logger:  log,
		Speaker: speaker,
	}, startID)
}

