package timeline

import "math/rand"

// TransitionDuration is the fixed length of every boundary effect, in seconds.
const TransitionDuration = 0.5

// Kinds applicable to each side of a boundary.
var (
	entryKinds = []TransitionKind{TransitionCrossFadeIn, TransitionFadeInColor}
	exitKinds  = []TransitionKind{TransitionCrossFadeOut, TransitionFadeOutColor}
)

// Applier assigns entry and exit transitions to a segment sequence.
// Segment 0 gets no entry and the last segment gets no exit; every interior
// boundary draws one entry-capable kind and one exit-capable kind uniformly
// at random. Color-based kinds additionally draw a random RGB triple.
//
// The random source is injected so a fixed seed yields a reproducible
// sequence of choices in tests; the randomness itself is purely cosmetic.
type Applier struct {
	rng *rand.Rand
}

func NewApplier(rng *rand.Rand) *Applier {
	return &Applier{rng: rng}
}

// Apply decorates segments in place with transition metadata and returns the
// same slice. Duration and ordering are untouched.
func (a *Applier) Apply(segments []Segment) []Segment {
	for i := range segments {
		if i > 0 {
			segments[i].Entry = a.pick(entryKinds)
		}
		if i < len(segments)-1 {
			segments[i].Exit = a.pick(exitKinds)
		}
	}
	return segments
}

func (a *Applier) pick(kinds []TransitionKind) *Transition {
	kind := kinds[a.rng.Intn(len(kinds))]

	t := &Transition{
		Kind:     kind,
		Duration: TransitionDuration,
	}

	if kind == TransitionFadeInColor || kind == TransitionFadeOutColor {
		t.Color = &RGB{
			R: uint8(a.rng.Intn(256)),
			G: uint8(a.rng.Intn(256)),
			B: uint8(a.rng.Intn(256)),
		}
	}
	return t
}
