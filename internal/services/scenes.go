package services

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	cjkSentenceRe = regexp.MustCompile(`[^。！？]+[。！？]`)
	sentenceRe    = regexp.MustCompile(`[^.!?]+[.!?]+["')\]]*|[^.!?]+$`)
)

// SplitScenes segments narrative text into at most maxScenes scene strings.
// Deterministic for a given (text, maxScenes) pair.
//
// CJK text splits on full-width sentence punctuation (keeping it); other
// text splits on ASCII sentence boundaries. When there are more sentences
// than scenes, sentences are merged into evenly sized groups, the earlier
// groups taking the remainder.
func SplitScenes(text string, maxScenes int) []string {
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	if text == "" {
		return nil
	}
	if maxScenes < 1 {
		maxScenes = 1
	}

	var sentences []string
	if containsCJK(text) {
		sentences = cjkSentenceRe.FindAllString(text, -1)
	} else {
		sentences = sentenceRe.FindAllString(text, -1)
	}

	if len(sentences) == 0 {
		sentences = []string{text}
	}
	for i := range sentences {
		sentences[i] = strings.TrimSpace(sentences[i])
	}

	if len(sentences) <= maxScenes {
		return sentences
	}

	// Merge sentences into scenes, keeping group sizes as even as possible.
	perScene := len(sentences) / maxScenes
	remainder := len(sentences) % maxScenes

	scenes := make([]string, 0, maxScenes)
	start := 0
	for i := 0; i < maxScenes; i++ {
		end := start + perScene
		if i < remainder {
			end++
		}
		scenes = append(scenes, strings.Join(sentences[start:end], " "))
		start = end
	}
	return scenes
}

func containsCJK(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}
