// Package generator builds randomized trial rounds.
package generator

// Rand is the randomness the generator consumes. *Source and a math/rand
// *rand.Rand both satisfy it.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// DecoyPolicy controls whether decoys may repeat the target.
type DecoyPolicy int

const (
	// DecoysDistinct never draws the target as a decoy, so the target occurs
	// exactly once among the candidates. Decoys may still repeat each other.
	DecoysDistinct DecoyPolicy = iota
	// DecoysIndependent draws every decoy uniformly from the whole alphabet.
	DecoysIndependent
)

func (p DecoyPolicy) String() string {
	switch p {
	case DecoysDistinct:
		return "distinct"
	case DecoysIndependent:
		return "independent"
	default:
		return "unknown"
	}
}

// Round is a target symbol and its candidates in display order.
type Round struct {
	Target     rune
	Candidates []rune
}

// Generator produces rounds from a fixed alphabet.
type Generator struct {
	alphabet []rune
	count    int
	decoys   DecoyPolicy
}

// New returns a Generator drawing count candidates from alphabet.
// The caller guarantees a non-empty alphabet and count >= 1.
func New(alphabet []rune, count int, decoys DecoyPolicy) *Generator {
	return &Generator{
		alphabet: append([]rune(nil), alphabet...),
		count:    count,
		decoys:   decoys,
	}
}

// Generate draws a target uniformly, adds count-1 decoys and shuffles them.
func (g *Generator) Generate(rnd Rand) Round {
	targetIdx := rnd.Intn(len(g.alphabet))
	target := g.alphabet[targetIdx]

	candidates := make([]rune, 0, g.count)
	candidates = append(candidates, target)
	for len(candidates) < g.count {
		candidates = append(candidates, g.decoy(rnd, targetIdx))
	}
	rnd.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	return Round{Target: target, Candidates: candidates}
}

func (g *Generator) decoy(rnd Rand, targetIdx int) rune {
	if g.decoys == DecoysIndependent || len(g.alphabet) < 2 {
		return g.alphabet[rnd.Intn(len(g.alphabet))]
	}
	// Draw from the alphabet with the target's index removed.
	idx := rnd.Intn(len(g.alphabet) - 1)
	if idx >= targetIdx {
		idx++
	}
	return g.alphabet[idx]
}
