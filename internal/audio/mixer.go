// Package audio implements sample-level compositing of a narration track
// with looping background music. Tracks are mono float64 PCM; decoding to
// and from container formats is the ffmpeg service's job.
package audio

// BackgroundAttenuation is the fixed volume factor applied to background
// music so narration stays dominant.
const BackgroundAttenuation = 0.3

// Track is an in-memory mono PCM signal with samples in [-1.0, 1.0].
type Track struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the track length in seconds.
func (t *Track) Duration() float64 {
	if t.SampleRate <= 0 {
		return 0
	}
	return float64(len(t.Samples)) / float64(t.SampleRate)
}

// LoopToDuration repeats the track from its start if shorter than the target
// duration, or trims it if longer, producing a new track of exactly the
// target length in samples.
func LoopToDuration(t *Track, seconds float64) *Track {
	target := int(seconds * float64(t.SampleRate))
	out := &Track{
		Samples:    make([]float64, target),
		SampleRate: t.SampleRate,
	}

	if len(t.Samples) == 0 {
		return out
	}

	for i := 0; i < target; i++ {
		out.Samples[i] = t.Samples[i%len(t.Samples)]
	}
	return out
}

// Attenuate scales every sample in place.
func Attenuate(t *Track, factor float64) {
	for i := range t.Samples {
		t.Samples[i] *= factor
	}
}

// Mix composites an optional primary track with an optional background
// track over targetDuration seconds.
//
// No background: the primary passes through unchanged (nil stays nil,
// meaning no audio track at all — not an error). With a background: it is
// looped or trimmed to exactly the target duration and attenuated; if a
// primary exists the two are summed sample-wise after zero-padding the
// shorter slice, and the result is clipped to [-1.0, 1.0] to prevent
// overload distortion.
func Mix(primary, background *Track, targetDuration float64) *Track {
	if background == nil {
		return primary
	}

	bg := LoopToDuration(background, targetDuration)
	Attenuate(bg, BackgroundAttenuation)

	if primary == nil {
		return bg
	}

	// Reconcile shape mismatch by zero-padding up to the longer length.
	n := len(primary.Samples)
	if len(bg.Samples) > n {
		n = len(bg.Samples)
	}

	out := &Track{
		Samples:    make([]float64, n),
		SampleRate: primary.SampleRate,
	}

	for i := 0; i < n; i++ {
		var sum float64
		if i < len(primary.Samples) {
			sum += primary.Samples[i]
		}
		if i < len(bg.Samples) {
			sum += bg.Samples[i]
		}
		out.Samples[i] = clip(sum)
	}
	return out
}

func clip(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	if v < -1.0 {
		return -1.0
	}
	return v
}
