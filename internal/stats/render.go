package stats

import (
	"fmt"
	"io"
	"os"
	"sort"

	"golang.org/x/term"

	"github.com/verte-zerg/gyro/internal/model"
)

const terminalWidthBackup = 80

// TerminalWidth returns the width of stdout, or 80 when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// RenderReport prints every section of r sized to width.
func RenderReport(w io.Writer, r Report, width int) error {
	if err := RenderSummary(w, r.Sessions); err != nil {
		return err
	}
	if r.Empty() {
		return nil
	}
	if err := RenderLedger(w, r.Blocks); err != nil {
		return err
	}
	if err := RenderSymbolTable(w, r.Symbols); err != nil {
		return err
	}
	return RenderReactionCurve(w, r.Reactions, 5, width)
}

// RenderSummary prints totals over all sessions.
func RenderSummary(w io.Writer, sessions []model.SessionRecord) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions recorded.")
		return err
	}
	var correct, incorrect, missed, finished, bestLevel int
	for _, s := range sessions {
		correct += s.Correct
		incorrect += s.Incorrect
		missed += s.Missed
		if s.Finished {
			finished++
		}
		bestLevel = max(bestLevel, s.LevelReached)
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d (%d finished)", len(sessions), finished),
		fmt.Sprintf("Trials: %d correct, %d incorrect, %d missed", correct, incorrect, missed),
		fmt.Sprintf("Accuracy: %.2f%%", Accuracy(correct, incorrect, missed)*100),
		fmt.Sprintf("Best level: %d", bestLevel),
		"",
	}
	return writeLines(w, lines)
}

// BlockRows formats ledger blocks for tables.
func BlockRows(blocks []model.BlockAggregate) [][]string {
	rows := make([][]string, 0, len(blocks))
	for _, b := range blocks {
		rows = append(rows, []string{
			fmt.Sprintf("%d", b.Block+1),
			fmt.Sprintf("%d", b.Sessions),
			fmt.Sprintf("%d", b.Correct),
			fmt.Sprintf("%d", b.Incorrect),
			fmt.Sprintf("%d", b.Missed),
			fmt.Sprintf("%.2f%%", Accuracy(b.Correct, b.Incorrect, b.Missed)*100),
		})
	}
	return rows
}

// BlockHeaders are the column titles matching BlockRows.
var BlockHeaders = []string{"Block", "Sessions", "Correct", "Incorrect", "Missed", "Accuracy"}

// RenderLedger prints finalized blocks summed across sessions.
func RenderLedger(w io.Writer, blocks []model.BlockAggregate) error {
	if len(blocks) == 0 {
		return writeLines(w, []string{"No finalized blocks.", ""})
	}
	cols := make([]column, len(BlockHeaders))
	for i, h := range BlockHeaders {
		cols[i] = column{title: h, right: true}
	}
	lines := append([]string{"Blocks"}, formatTable(cols, BlockRows(blocks))...)
	return writeLines(w, append(lines, ""))
}

// SymbolRows formats per-symbol aggregates, weakest symbols first.
func SymbolRows(aggs []model.SymbolAggregate) [][]string {
	sorted := append([]model.SymbolAggregate(nil), aggs...)
	sort.Slice(sorted, func(i, j int) bool {
		ai := Accuracy(sorted[i].Correct, sorted[i].Incorrect, sorted[i].Missed)
		aj := Accuracy(sorted[j].Correct, sorted[j].Incorrect, sorted[j].Missed)
		if ai == aj {
			return sorted[i].Symbol < sorted[j].Symbol
		}
		return ai < aj
	})
	rows := make([][]string, 0, len(sorted))
	for _, a := range sorted {
		rows = append(rows, []string{
			a.Symbol,
			fmt.Sprintf("%.2f%%", Accuracy(a.Correct, a.Incorrect, a.Missed)*100),
			fmt.Sprintf("%.0f", MeanReaction(a.ReactionSumMs, a.ReactionCount)),
			fmt.Sprintf("%d", a.Correct),
			fmt.Sprintf("%d", a.Incorrect),
			fmt.Sprintf("%d", a.Missed),
		})
	}
	return rows
}

// SymbolHeaders are the column titles matching SymbolRows.
var SymbolHeaders = []string{"Symbol", "Accuracy", "Avg Reaction (ms)", "Correct", "Incorrect", "Missed"}

// RenderSymbolTable prints per-target-symbol aggregates.
func RenderSymbolTable(w io.Writer, aggs []model.SymbolAggregate) error {
	if len(aggs) == 0 {
		return writeLines(w, []string{"No symbol stats.", ""})
	}
	cols := make([]column, len(SymbolHeaders))
	for i, h := range SymbolHeaders {
		cols[i] = column{title: h, right: i > 0}
	}
	lines := append([]string{"Per-Symbol"}, formatTable(cols, SymbolRows(aggs))...)
	return writeLines(w, append(lines, ""))
}

// ReactionCurve smooths reaction times and squeezes them into width glyphs.
func ReactionCurve(reactions []int64, window, width int) string {
	values := make([]float64, len(reactions))
	for i, ms := range reactions {
		values[i] = float64(ms)
	}
	return Sparkline(Resample(MovingAverage(values, window), width))
}

// RenderReactionCurve prints a sparkline of correct-trial reaction times.
func RenderReactionCurve(w io.Writer, reactions []int64, window, width int) error {
	if len(reactions) == 0 {
		return nil
	}
	lo, hi := reactions[0], reactions[0]
	for _, ms := range reactions[1:] {
		lo = min(lo, ms)
		hi = max(hi, ms)
	}
	lines := []string{
		fmt.Sprintf("Reaction (ms, moving average %d): min %d, max %d", window, lo, hi),
		ReactionCurve(reactions, window, max(10, width-2)),
		"",
	}
	return writeLines(w, lines)
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
