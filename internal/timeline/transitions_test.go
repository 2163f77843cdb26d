package timeline

import (
	"math/rand"
	"testing"
)

func plainSegments(n int) []Segment {
	segments := make([]Segment, n)
	for i := range segments {
		segments[i] = Segment{ImagePath: "img.png", Duration: 3.0}
	}
	return segments
}

func entryCapable(kind TransitionKind) bool {
	return kind == TransitionCrossFadeIn || kind == TransitionFadeInColor
}

func exitCapable(kind TransitionKind) bool {
	return kind == TransitionCrossFadeOut || kind == TransitionFadeOutColor
}

func TestApplySingleSegmentUntouched(t *testing.T) {
	a := NewApplier(rand.New(rand.NewSource(1)))
	segments := a.Apply(plainSegments(1))

	if segments[0].Entry != nil || segments[0].Exit != nil {
		t.Error("single segment must have no transitions")
	}
}

func TestApplyEmptySequence(t *testing.T) {
	a := NewApplier(rand.New(rand.NewSource(1)))
	if got := a.Apply(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %d segments", len(got))
	}
}

func TestApplyEdgesAndInteriors(t *testing.T) {
	a := NewApplier(rand.New(rand.NewSource(42)))
	segments := a.Apply(plainSegments(4))

	if segments[0].Entry != nil {
		t.Error("first segment must have no entry transition")
	}
	if segments[len(segments)-1].Exit != nil {
		t.Error("last segment must have no exit transition")
	}

	// Every interior boundary gets exactly one exit and one entry.
	for i, seg := range segments {
		if i > 0 {
			if seg.Entry == nil {
				t.Fatalf("segment %d missing entry transition", i)
			}
			if !entryCapable(seg.Entry.Kind) {
				t.Errorf("segment %d entry has exit-only kind %s", i, seg.Entry.Kind)
			}
			if seg.Entry.Duration != TransitionDuration {
				t.Errorf("segment %d entry duration %f", i, seg.Entry.Duration)
			}
		}
		if i < len(segments)-1 {
			if seg.Exit == nil {
				t.Fatalf("segment %d missing exit transition", i)
			}
			if !exitCapable(seg.Exit.Kind) {
				t.Errorf("segment %d exit has entry-only kind %s", i, seg.Exit.Kind)
			}
		}
	}
}

func TestApplyColorOnlyForColorKinds(t *testing.T) {
	a := NewApplier(rand.New(rand.NewSource(7)))
	segments := a.Apply(plainSegments(20))

	for i, seg := range segments {
		for _, tr := range []*Transition{seg.Entry, seg.Exit} {
			if tr == nil {
				continue
			}
			isColorKind := tr.Kind == TransitionFadeInColor || tr.Kind == TransitionFadeOutColor
			if isColorKind && tr.Color == nil {
				t.Errorf("segment %d: color kind %s without color", i, tr.Kind)
			}
			if !isColorKind && tr.Color != nil {
				t.Errorf("segment %d: crossfade kind %s carries a color", i, tr.Kind)
			}
		}
	}
}

func TestApplyReproducibleWithFixedSeed(t *testing.T) {
	first := NewApplier(rand.New(rand.NewSource(99))).Apply(plainSegments(6))
	second := NewApplier(rand.New(rand.NewSource(99))).Apply(plainSegments(6))

	for i := range first {
		a, b := first[i], second[i]
		if (a.Entry == nil) != (b.Entry == nil) || (a.Exit == nil) != (b.Exit == nil) {
			t.Fatalf("segment %d transition presence differs", i)
		}
		if a.Entry != nil && (a.Entry.Kind != b.Entry.Kind || !sameColor(a.Entry.Color, b.Entry.Color)) {
			t.Errorf("segment %d entry differs between identical seeds", i)
		}
		if a.Exit != nil && (a.Exit.Kind != b.Exit.Kind || !sameColor(a.Exit.Color, b.Exit.Color)) {
			t.Errorf("segment %d exit differs between identical seeds", i)
		}
	}
}

func TestApplyLeavesDurationsAlone(t *testing.T) {
	segments := plainSegments(3)
	segments[1].Duration = 7.5

	NewApplier(rand.New(rand.NewSource(5))).Apply(segments)

	if segments[1].Duration != 7.5 {
		t.Errorf("duration mutated to %f", segments[1].Duration)
	}
}

func sameColor(a, b *RGB) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
