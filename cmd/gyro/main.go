// Package main provides the CLI entrypoint for gyro.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/gyro/internal/alphabet"
	"github.com/verte-zerg/gyro/internal/config"
	"github.com/verte-zerg/gyro/internal/engine"
	"github.com/verte-zerg/gyro/internal/generator"
	"github.com/verte-zerg/gyro/internal/logging"
	"github.com/verte-zerg/gyro/internal/stats"
	"github.com/verte-zerg/gyro/internal/store"
	"github.com/verte-zerg/gyro/internal/tui"
)

var play playOptions

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	play = playOptions{}
	rootCmd := &cobra.Command{
		Use:           "gyro",
		Short:         "TUI reflex and reaction trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	def := engine.DefaultConfig()
	f := rootCmd.Flags()
	f.StringVar(&play.configPath, "config", config.DefaultConfigPath(), "config file (.toml, .yaml or .yml)")
	f.StringVar(&play.preset, "preset", engine.DefaultPreset, "named configuration, see gyro presets")
	f.StringVar(&play.alphabet, "alphabet", alphabet.Default, "named symbol set, see gyro alphabets")
	f.StringVar(&play.alphabetFile, "alphabet-file", "", "load symbols from a file, one or more per line")
	f.BoolVar(&play.noAmbiguous, "no-ambiguous", false, "drop look-alike symbols such as 0/O and 1/l/I")
	f.IntVar(&play.candidates, "candidates", def.Candidates, "candidates shown per trial")
	f.StringVar(&play.decoys, "decoys", def.Decoys.String(), "decoy policy: distinct or independent")
	f.DurationVar(&play.dwell, "dwell", 0, "hover time that selects a candidate; 0 selects by click")
	f.DurationVar(&play.timeout, "timeout", def.InitialTimeout, "initial trial timeout")
	f.StringVar(&play.policy, "policy", "decay", "timeout policy: decay or stepped")
	f.DurationVar(&play.decayStep, "decay-step", engine.DefaultDecayStep, "timeout reduction per correct answer")
	f.DurationVar(&play.decayFloor, "decay-floor", engine.DefaultDecayFloor, "shortest decayed timeout")
	f.StringVar(&play.table, "table", "", "per-block timeouts for the stepped policy, e.g. 10s,7s,5s")
	f.IntVar(&play.levels, "levels", 0, "finish after this many levels; 0 plays forever")
	f.IntVar(&play.levelsPerBlock, "levels-per-block", 0, "levels summarized per block; 0 disables blocks")
	f.IntVar(&play.trialsPerLevel, "trials-per-level", 1, "trials needed to advance a level")
	f.BoolVar(&play.advanceOnResolve, "advance-on-resolve", true, "count correct and incorrect answers toward the level")
	f.BoolVar(&play.advanceOnMiss, "advance-on-miss", true, "count expired trials toward the level")
	f.BoolVar(&play.missAsIncorrect, "miss-as-incorrect", false, "tally expired trials as incorrect")
	f.StringVar(&play.onTimeout, "on-timeout", engine.TimeoutMiss.String(), "expired trial action: miss or game-over")
	f.Int64Var(&play.seed, "seed", 0, "random seed; 0 seeds from the clock")
	f.DurationVar(&play.tick, "tick", tui.DefaultTick, "clock resolution")
	f.BoolVar(&play.report, "report", false, "print a report of this run on exit")
	f.StringVar(&play.logLevel, "log-level", "info", "log level: trace, debug, info, warn or error")
	f.StringVar(&play.logFile, "log-file", "", "append logs to this file")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newPresetsCmd())
	rootCmd.AddCommand(newAlphabetsCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(play.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyFileConfig(cmd, &play, fileCfg); err != nil {
		return err
	}

	cfg, label, err := buildEngineConfig(play)
	if err != nil {
		return err
	}

	logPath := play.logFile
	if logPath == "" && play.set["log-level"] {
		logPath = config.DefaultLogPath()
	}
	logger, closeLog, err := logging.OpenFile(logPath, play.logLevel)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeLog(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()
	logger.Info("starting", "preset", play.preset, "alphabet", label, "seed", play.seed)

	st, err := store.OpenMemory()
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	state, err := engine.New(cfg, generator.NewSource(uint64(play.seed)))
	if err != nil {
		return err
	}
	m, err := tui.NewModel(state, st, tui.Options{
		Preset:   play.preset,
		Alphabet: label,
		Tick:     play.tick,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	if !play.report {
		return nil
	}
	return printReport(cmd, st, logger)
}

func printReport(cmd *cobra.Command, st *store.Store, logger *slog.Logger) error {
	report, err := stats.BuildReport(context.Background(), st)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	logger.Debug("report built", "sessions", len(report.Sessions), "trials", len(report.Reactions))
	if err := stats.RenderReport(cmd.OutOrStdout(), report, stats.TerminalWidth()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
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

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List named configurations",
		Args:  cobra.NoArgs,
		RunE:  runPresetsCmd,
	}
}

func runPresetsCmd(cmd *cobra.Command, _ []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	for _, p := range engine.Presets() {
		name := p.Name
		if name == engine.DefaultPreset {
			name += " (default)"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", name, p.Description); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return w.Flush()
}

func newAlphabetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "alphabets",
		Short: "List named symbol sets and alphabet files",
		Args:  cobra.NoArgs,
		RunE:  runAlphabetsCmd,
	}
}

func runAlphabetsCmd(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	for _, name := range alphabet.Names() {
		symbols, err := alphabet.Named(name)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "%s\t%s\n", name, string(symbols)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	files, err := alphabetFiles(config.DefaultAlphabetDir())
	if err != nil {
		return err
	}
	for _, file := range files {
		if _, err := fmt.Fprintf(out, "%s\t(file)\n", file); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func alphabetFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read alphabet directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".txt"))
	}
	sort.Strings(names)
	return names, nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# gyro configuration
# Uncomment a value to enable it. CLI flags override config values.
# Unset trial values come from the preset.

[trial]
# preset = %q             # classic, dwell, levels, blocks or trials
# alphabet = %q           # Named symbol set
# alphabet-file = ""         # File in %s or a path
# no-ambiguous = false       # Drop look-alike symbols
# candidates = %d            # Candidates per trial
# decoys = "distinct"        # distinct or independent
# dwell = "700ms"            # Hover selection time; "0s" selects by click
# timeout = "10s"            # Initial trial timeout
# policy = "decay"           # decay or stepped
# decay-step = "500ms"       # Reduction per correct answer
# decay-floor = "5s"         # Shortest decayed timeout
# table = "10s,7s,5s"        # Stepped per-block timeouts
# levels = 30                # Level bound; 0 plays forever
# levels-per-block = 10      # 0 disables blocks
# trials-per-level = 1
# advance-on-resolve = true
# advance-on-miss = true
# miss-as-incorrect = false
# on-timeout = "miss"        # miss or game-over
# seed = 0                   # 0 seeds from the clock

[ui]
# tick = "10ms"              # Clock resolution
# report = false             # Print a report on exit
# log-level = "info"         # trace, debug, info, warn or error
# log-file = ""              # Defaults to %s when log-level is set
`,
		engine.DefaultPreset,
		alphabet.Default,
		config.DefaultAlphabetDir(),
		engine.DefaultCandidates,
		config.DefaultLogPath(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
