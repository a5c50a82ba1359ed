// Package main provides the CLI entrypoint for paomem.
package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/paomem/internal/config"
	"github.com/verte-zerg/paomem/internal/dataset"
	"github.com/verte-zerg/paomem/internal/ledger"
	"github.com/verte-zerg/paomem/internal/model"
	"github.com/verte-zerg/paomem/internal/quiz"
	"github.com/verte-zerg/paomem/internal/report"
	"github.com/verte-zerg/paomem/internal/selection"
	"github.com/verte-zerg/paomem/internal/tui"
)

const (
	defaultVeryRecentHours = 2
	defaultRecentHours     = 8
	defaultWeakTop         = 15
	defaultComboCount      = 8
)

var dataPath string

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "paomem",
		Short:         "PAO memory trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTrainCmd,
	}

	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "PAO dataset CSV path")

	rootCmd.AddCommand(newTrainCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func newTrainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Run an interactive training session",
		Args:  cobra.NoArgs,
		RunE:  runTrainCmd,
	}
}

func newBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "List all associations with their accuracy",
		Args:  cobra.NoArgs,
		RunE:  runBrowseCmd,
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show detailed statistics",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

// environment bundles the loaded state shared by all modes.
type environment struct {
	cfg    model.Config
	data   map[string]model.Association
	ledger *ledger.Ledger
}

func loadEnvironment(cmd *cobra.Command) (environment, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return environment{}, fmt.Errorf("failed to load config: %w", err)
	}

	cfg := model.Config{
		DataPath:        config.DefaultDataPath(),
		VeryRecentHours: defaultVeryRecentHours,
		RecentHours:     defaultRecentHours,
		WeakTop:         defaultWeakTop,
		ComboCount:      defaultComboCount,
	}
	applyStringConfig(&cfg.DataPath, fileCfg.Data.Path)
	applyIntConfig(&cfg.VeryRecentHours, fileCfg.Train.VeryRecentHours)
	applyIntConfig(&cfg.RecentHours, fileCfg.Train.RecentHours)
	applyIntConfig(&cfg.WeakTop, fileCfg.Train.WeakTop)
	applyIntConfig(&cfg.ComboCount, fileCfg.Train.ComboCount)
	if cmd.Flags().Changed("data") {
		cfg.DataPath = dataPath
	}
	if err := validateConfig(cfg); err != nil {
		return environment{}, err
	}

	data, err := dataset.Load(cfg.DataPath)
	if err != nil {
		return environment{}, datasetLoadError(cfg.DataPath, err)
	}

	led := ledger.New(time.Now)
	if err := led.Load(config.DefaultStatsPath()); err != nil {
		logErrf("warning: starting with fresh stats: %v\n", err)
	}

	return environment{cfg: cfg, data: data, ledger: led}, nil
}

func runTrainCmd(cmd *cobra.Command, _ []string) error {
	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	engine := selection.New(env.data, env.ledger, rnd, env.cfg)
	session := quiz.NewSession(env.data, env.ledger, engine, rnd)

	trainModel := tui.NewModel(env.data, env.ledger, session)
	program := tea.NewProgram(trainModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		// Save what we have before reporting the failure.
		if serr := env.ledger.Save(config.DefaultStatsPath()); serr != nil {
			logErrf("failed to save stats: %v\n", serr)
		}
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	if err := env.ledger.Save(config.DefaultStatsPath()); err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}
	counters := env.ledger.Session()
	fmt.Fprintf(cmd.OutOrStdout(), "Training session ended: %d/%d correct. Progress saved.\n",
		counters.Correct, counters.Total)
	return nil
}

func runBrowseCmd(cmd *cobra.Command, _ []string) error {
	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := renderPreamble(out, env); err != nil {
		return err
	}
	return report.RenderBrowse(out, env.data, env.ledger)
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := renderPreamble(out, env); err != nil {
		return err
	}
	return report.RenderBreakdown(out, env.data, env.ledger)
}

// renderPreamble prints the banner and overall summary shown before any
// read-only mode's output.
func renderPreamble(out io.Writer, env environment) error {
	if err := report.RenderHeader(out); err != nil {
		return err
	}
	if err := report.RenderSummary(out, env.data, env.ledger); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out, "")
	return err
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(target, value *string) {
	if value == nil {
		return
	}
	*target = *value
}

func applyIntConfig(target, value *int) {
	if value == nil {
		return
	}
	*target = *value
}

func validateConfig(cfg model.Config) error {
	if cfg.DataPath == "" {
		return fmt.Errorf("dataset path must not be empty")
	}
	if cfg.VeryRecentHours <= 0 {
		return fmt.Errorf("very-recent-hours must be > 0")
	}
	if cfg.RecentHours <= 0 {
		return fmt.Errorf("recent-hours must be > 0")
	}
	if cfg.WeakTop <= 0 {
		return fmt.Errorf("weak-top must be > 0")
	}
	if cfg.ComboCount <= 0 {
		return fmt.Errorf("combo-count must be > 0")
	}
	return nil
}

func datasetLoadError(path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load PAO dataset: %v", err),
		fmt.Sprintf("expected dataset at: %s", path),
		"The CSV must have Number, Person, Action and Object columns.",
		"Point at another file with: paomem --data <path>",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# paomem configuration
# Uncomment a value to enable it. The --data flag overrides the config value.

[data]
# path = %q

[train]
# very-recent-hours = %d   # Window for the high-frequency repetition pool
# recent-hours = %d        # Window for the secondary repetition pool
# weak-top = %d            # Number of weakest keys considered for selection
# combo-count = %d         # Synthetic sequences generated per selection
`,
		config.DefaultDataPath(),
		defaultVeryRecentHours,
		defaultRecentHours,
		defaultWeakTop,
		defaultComboCount,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
