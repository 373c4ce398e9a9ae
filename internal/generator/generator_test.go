package generator

import (
	"math/rand"
	"testing"
)

// scriptedRand replays fixed Intn results and never shuffles.
type scriptedRand struct {
	ints []int
	pos  int
}

func (s *scriptedRand) Intn(n int) int {
	v := s.ints[s.pos%len(s.ints)] % n
	s.pos++
	return v
}

func (s *scriptedRand) Shuffle(int, func(i, j int)) {}

func TestGenerateTargetPresent(t *testing.T) {
	alphabet := []rune("abcdefghijklmnopqrstuvwxyz0123456789")
	for _, policy := range []DecoyPolicy{DecoysDistinct, DecoysIndependent} {
		g := New(alphabet, 4, policy)
		rnd := rand.New(rand.NewSource(7))
		for i := 0; i < 500; i++ {
			round := g.Generate(rnd)
			if len(round.Candidates) != 4 {
				t.Fatalf("%s: expected 4 candidates, got %d", policy, len(round.Candidates))
			}
			occurrences := 0
			for _, c := range round.Candidates {
				if c == round.Target {
					occurrences++
				}
			}
			if occurrences == 0 {
				t.Fatalf("%s: target %q missing from %q", policy, round.Target, string(round.Candidates))
			}
			if policy == DecoysDistinct && occurrences != 1 {
				t.Fatalf("distinct: target %q appears %d times in %q", round.Target, occurrences, string(round.Candidates))
			}
		}
	}
}

func TestGenerateDistinctSkipsTargetIndex(t *testing.T) {
	// target index 1 ('b'); decoy draws 1 and 2 map past the target to 'c' and 'd'.
	rnd := &scriptedRand{ints: []int{1, 0, 1, 2}}
	round := New([]rune("abcd"), 4, DecoysDistinct).Generate(rnd)
	if round.Target != 'b' {
		t.Fatalf("expected target b, got %q", round.Target)
	}
	if got := string(round.Candidates); got != "bacd" {
		t.Fatalf("unexpected candidates %q", got)
	}
}

func TestGenerateIndependentAllowsDuplicates(t *testing.T) {
	rnd := &scriptedRand{ints: []int{2}}
	round := New([]rune("abcd"), 4, DecoysIndependent).Generate(rnd)
	if got := string(round.Candidates); got != "cccc" {
		t.Fatalf("expected independent draws to repeat the target, got %q", got)
	}
}

func TestGenerateShufflesDisplayOrder(t *testing.T) {
	g := New([]rune("abcdefghijklmnopqrstuvwxyz"), 4, DecoysDistinct)
	rnd := rand.New(rand.NewSource(42))
	positions := map[int]bool{}
	for i := 0; i < 200; i++ {
		round := g.Generate(rnd)
		for pos, c := range round.Candidates {
			if c == round.Target {
				positions[pos] = true
			}
		}
	}
	if len(positions) != 4 {
		t.Fatalf("expected target to appear in every slot over many rounds, saw %v", positions)
	}
}

func TestGenerateSingleSymbolAlphabet(t *testing.T) {
	round := New([]rune("x"), 4, DecoysDistinct).Generate(rand.New(rand.NewSource(1)))
	if string(round.Candidates) != "xxxx" {
		t.Fatalf("unexpected candidates %q", string(round.Candidates))
	}
}
