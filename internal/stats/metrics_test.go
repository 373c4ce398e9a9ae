package stats

import (
	"math"
	"testing"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name                       string
		correct, incorrect, missed int
		want                       float64
	}{
		{"empty", 0, 0, 0, 0},
		{"all correct", 5, 0, 0, 1},
		{"misses count against", 2, 1, 1, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Accuracy(tt.correct, tt.incorrect, tt.missed); math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Accuracy = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMeanReaction(t *testing.T) {
	if got := MeanReaction(1500, 3); got != 500 {
		t.Fatalf("MeanReaction = %v, want 500", got)
	}
	if got := MeanReaction(100, 0); got != 0 {
		t.Fatalf("MeanReaction with no samples = %v, want 0", got)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("MovingAverage = %v, want %v", got, want)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{1, 5, 9}); got != " +@" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3}); got != "++" {
		t.Fatalf("flat sparkline = %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("empty sparkline should be empty")
	}
}

func TestResample(t *testing.T) {
	got := Resample([]float64{1, 3, 5, 7}, 2)
	if len(got) != 2 || got[0] != 2 || got[1] != 6 {
		t.Fatalf("unexpected resample %v", got)
	}
	if got := Resample([]float64{1, 2}, 10); len(got) != 2 {
		t.Fatalf("short series should be kept, got %v", got)
	}
}

func TestFormatTableAlignsColumns(t *testing.T) {
	lines := formatTable([]column{
		{title: "Symbol"},
		{title: "Accuracy", right: true},
		{title: "Correct", right: true},
	}, [][]string{
		{"a", "97.50%", "12"},
		{"あ", "8.00%", "3"},
	})
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Symbol Accuracy Correct" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "a        97.50%      12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "あ        8.00%       3" {
		t.Fatalf("wide glyph misaligned: %q", lines[2])
	}
}
