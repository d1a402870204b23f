// Package container provides dependency injection for the expense tracker.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"github.com/nikcich/ExpenseTrackerV2/internal/common"
	"github.com/nikcich/ExpenseTrackerV2/internal/config"
	"github.com/nikcich/ExpenseTrackerV2/internal/logging"
	"github.com/nikcich/ExpenseTrackerV2/internal/parser"
	"github.com/nikcich/ExpenseTrackerV2/internal/report"
	"github.com/nikcich/ExpenseTrackerV2/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation: all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	engine    *parser.Engine
	rowReader *common.RowReader
	store     *store.ExpenseStore
	reporter  *report.ReportGenerator
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	return NewContainerWithLogger(cfg, nil)
}

// NewContainerWithLogger is NewContainer with an explicit logger. A nil
// logger is built from cfg.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	// Create logger first as it's needed by other components
	if logger == nil {
		logger = config.ConfigureLoggingFromConfig(cfg)
	}

	engine := parser.NewEngine(logger, cfg.Processing.Workers, cfg.Processing.ChunkSize)
	rowReader := common.NewRowReader(cfg.Delimiter(), logger)
	expenseStore := store.NewExpenseStore(cfg.Store.File, logger)
	reporter := report.NewReportGenerator(logger)

	logger.Debug("Container initialized successfully",
		logging.Field{Key: logging.FieldWorkers, Value: cfg.Processing.Workers},
		logging.Field{Key: "chunk_size", Value: cfg.Processing.ChunkSize},
		logging.Field{Key: logging.FieldFile, Value: cfg.Store.File})

	return &Container{
		logger:    logger,
		config:    cfg,
		engine:    engine,
		rowReader: rowReader,
		store:     expenseStore,
		reporter:  reporter,
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetEngine returns the matching and parsing engine.
func (c *Container) GetEngine() *parser.Engine {
	return c.engine
}

// GetRowReader returns the delimited-text reader configured with the
// input delimiter.
func (c *Container) GetRowReader() *common.RowReader {
	return c.rowReader
}

// GetStore returns the expense store.
func (c *Container) GetStore() *store.ExpenseStore {
	return c.store
}

// GetReportGenerator returns the report renderer.
func (c *Container) GetReportGenerator() *report.ReportGenerator {
	return c.reporter
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
