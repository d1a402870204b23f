// Package root contains the root command for the application
package root

import (
	"fmt"
	"sync"

	"github.com/nikcich/ExpenseTrackerV2/internal/config"
	"github.com/nikcich/ExpenseTrackerV2/internal/container"
	"github.com/nikcich/ExpenseTrackerV2/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input      string
	Output     string
	ConfigFile string
}

var (
	// Log is the shared logger instance for commands
	Log = logging.GetLogger()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "expenses",
		Short: "Identify bank statement exports and import them as expenses.",
		Long: `expenses recognizes CSV exports from supported banks and card issuers,
normalizes every row into an expense and keeps them in a local store that can
be exported or summarized.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: setup,
	}

	// SharedFlags holds the flags accessible to all commands
	SharedFlags = CommonFlags{}

	mu           sync.RWMutex
	appContainer *container.Container
	initOnce     sync.Once
)

// Init initializes the root command and all flags
func Init() {
	initOnce.Do(func() {
		Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file or directory")
		Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (stdout when empty)")
		Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default searches for config.yaml)")
	})
}

// setup loads .env and the configuration, then wires the container used by
// every subcommand. A container installed with SetContainer is kept.
func setup(cmd *cobra.Command, args []string) error {
	if GetContainer() != nil {
		return nil
	}

	config.LoadEnv(Log)
	cfg, err := config.Load(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	SetContainer(c)
	return nil
}

// GetContainer returns the wired application container, or nil before
// the first command runs.
func GetContainer() *container.Container {
	mu.RLock()
	defer mu.RUnlock()
	return appContainer
}

// SetContainer installs c as the application container and makes its
// logger the shared one. Passing nil resets the state.
func SetContainer(c *container.Container) {
	mu.Lock()
	defer mu.Unlock()
	appContainer = c
	if c != nil {
		Log = c.GetLogger()
		logging.SetLogger(Log)
	}
}
