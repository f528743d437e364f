package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"dirtally/internal/analyzer"
	"dirtally/internal/config"
	"dirtally/internal/filter"
	"dirtally/internal/logging"
	"dirtally/internal/metadata"
	"dirtally/internal/walker"
)

var (
	// Global flags
	configPath string
	envFile    string

	sectionTitleColor = color.New(color.FgBlue, color.Bold)
)

// rootCmd is the root command for dirtally.
var rootCmd = &cobra.Command{
	Use:     "dirtally",
	Version: "dev",
	Short:   "Directory snapshot and line/word/token tally tool",
	Long: `dirtally snapshots a directory tree with per-file line, word and token
counts, aggregates them per directory and verifies saved snapshots against
the filesystem.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "dirtally.yaml", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "snapshots",
		Title: sectionTitleColor.Sprint("Snapshots:"),
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "service",
		Title: sectionTitleColor.Sprint("Service:"),
	})

	for _, cmd := range []*cobra.Command{analyzeCmd, verifyCmd, renderCmd, diffCmd, checkCmd, summaryCmd} {
		cmd.GroupID = "snapshots"
		rootCmd.AddCommand(cmd)
	}
	serveCmd.GroupID = "service"
	rootCmd.AddCommand(serveCmd)
}

// app holds what every command builds from the global flags.
type app struct {
	cfg *config.Config
	log *logging.Logger
}

func loadApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.LoadConfig(configPath, envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log}, nil
}

func newLogger(cfg *config.Config, w io.Writer) (*logging.Logger, error) {
	level := logging.ParseLevel(cfg.LogLevel)
	if cfg.LogToFile {
		return logging.NewFile(cfg.LogFilePath, level)
	}
	return logging.New(w, level), nil
}

func (a *app) walker() *walker.Walker {
	return walker.New(filter.New(a.cfg), metadata.NewExtractor(a.log, a.cfg.MetadataCacheSize), a.log)
}

func (a *app) analyzer() *analyzer.Analyzer {
	return analyzer.New(a.cfg, a.walker(), a.log)
}

func (a *app) close() {
	_ = a.log.Close()
}
