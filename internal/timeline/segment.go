package timeline

// Duration rules for assembled segments, in seconds.
const (
	// DurationFloor is the minimum permitted segment duration regardless of
	// how short the resolved narration audio turns out to be.
	DurationFloor = 2.0

	// DefaultSegmentDuration is used when a scene has no narration audio.
	DefaultSegmentDuration = 3.0
)

// TransitionKind identifies a visual effect at a segment boundary.
type TransitionKind string

const (
	TransitionCrossFadeIn  TransitionKind = "crossfade_in"
	TransitionCrossFadeOut TransitionKind = "crossfade_out"
	TransitionFadeInColor  TransitionKind = "fade_in_color"
	TransitionFadeOutColor TransitionKind = "fade_out_color"
)

// RGB is the color parameter for the color-based fade kinds.
type RGB struct {
	R, G, B uint8
}

// Transition is the effect metadata attached to one side of a segment.
// Color is set only for the color-based kinds.
type Transition struct {
	Kind     TransitionKind
	Duration float64
	Color    *RGB
}

// Segment is one scene's timed visual+audio unit within the assembled video.
// Created fresh per job run by the Builder, decorated by the Applier, and
// consumed by the assembler; never persisted.
type Segment struct {
	ImagePath string
	AudioPath string // empty = no narration for this scene
	Duration  float64
	Entry     *Transition // nil for the first segment in a sequence
	Exit      *Transition // nil for the last segment
}
