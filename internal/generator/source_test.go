package generator

import (
	"reflect"
	"testing"
)

func TestSourceCopiesForkIndependently(t *testing.T) {
	g := New([]rune("abcdefghijklmnop"), 4, DecoysDistinct)
	src := NewSource(11)
	fork := src

	first := g.Generate(&src)
	if reflect.DeepEqual(src, fork) {
		t.Fatalf("drawing from src should not touch fork")
	}
	second := g.Generate(&src)
	if got := g.Generate(&fork); !reflect.DeepEqual(got, first) {
		t.Fatalf("fork should replay the first round: %+v vs %+v", got, first)
	}
	if got := g.Generate(&fork); !reflect.DeepEqual(got, second) {
		t.Fatalf("fork should replay the second round: %+v vs %+v", got, second)
	}
}

func TestSourceSeedDeterministic(t *testing.T) {
	g := New([]rune("0123456789"), 4, DecoysIndependent)
	s1, s2 := NewSource(5), NewSource(5)
	for i := 0; i < 10; i++ {
		a, b := g.Generate(&s1), g.Generate(&s2)
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("round %d differs for equal seeds: %+v vs %+v", i, a, b)
		}
	}
}
