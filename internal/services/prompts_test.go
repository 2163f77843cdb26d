package services

import (
	"strings"
	"testing"
)

func TestBuildPromptIncludesSceneAndStyle(t *testing.T) {
	prompt := BuildPrompt("a fox crosses a frozen river", "anime")

	if !strings.Contains(prompt, "a fox crosses a frozen river") {
		t.Errorf("scene text missing from prompt: %q", prompt)
	}
	if !strings.Contains(prompt, "anime style") {
		t.Errorf("style suffix missing from prompt: %q", prompt)
	}
}

func TestBuildPromptUnknownStyleFallsBack(t *testing.T) {
	prompt := BuildPrompt("a scene", "vaporwave")

	if !strings.Contains(prompt, "comic style") {
		t.Errorf("expected default style suffix, got %q", prompt)
	}
}

func TestBuildPromptTruncatesLongScenes(t *testing.T) {
	scene := strings.Repeat("呀", 150)
	prompt := BuildPrompt(scene, "default")

	if strings.Contains(prompt, strings.Repeat("呀", 101)) {
		t.Error("scene description not truncated")
	}
	if !strings.Contains(prompt, "...") {
		t.Error("truncated description missing ellipsis")
	}
	// Truncation must not split a multibyte rune.
	if !strings.Contains(prompt, strings.Repeat("呀", 100)) {
		t.Error("truncation corrupted multibyte text")
	}
}

func TestNegativePromptCombinesStyleAndCommon(t *testing.T) {
	negative := NegativePrompt("realistic")

	if !strings.Contains(negative, "cartoon") {
		t.Errorf("style-specific terms missing: %q", negative)
	}
	if !strings.Contains(negative, "watermark") {
		t.Errorf("common terms missing: %q", negative)
	}
}

func TestNegativePromptUnknownStyle(t *testing.T) {
	negative := NegativePrompt("nope")

	if !strings.Contains(negative, "blurry") || !strings.Contains(negative, "watermark") {
		t.Errorf("expected default negative terms, got %q", negative)
	}
}

func TestEveryStyleHasPromptTables(t *testing.T) {
	for style := range Styles {
		if _, ok := stylePrompts[style]; !ok {
			t.Errorf("style %q missing prompt suffix", style)
		}
		if _, ok := styleNegativePrompts[style]; !ok {
			t.Errorf("style %q missing negative prompt", style)
		}
	}
}
