package services

import "fmt"

// Style tables for image prompt construction. Unknown styles fall back to
// "default".

const DefaultStyle = "default"

// Styles maps style tags to display names, exposed for request validation
// and UI listings.
var Styles = map[string]string{
	"default":    "Comic",
	"anime":      "Anime",
	"realistic":  "Realistic",
	"watercolor": "Watercolor",
	"sketch":     "Sketch",
}

var stylePrompts = map[string]string{
	"default":    ", comic style, detailed, vibrant colors",
	"anime":      ", anime style, manga, detailed, vibrant colors",
	"realistic":  ", realistic style, detailed, photorealistic",
	"watercolor": ", watercolor style, artistic, soft colors",
	"sketch":     ", sketch style, pencil drawing, black and white",
}

var styleNegativePrompts = map[string]string{
	"default":    "blurry, low quality, distorted, deformed",
	"anime":      "blurry, low quality, distorted, deformed, photorealistic",
	"realistic":  "cartoon, anime, sketch, drawing, blurry",
	"watercolor": "digital art, sharp edges, blurry, low quality",
	"sketch":     "color, painting, digital art, blurry, low quality",
}

const commonNegative = "text, watermark, signature, logo, nsfw, nude, bad anatomy, bad hands, extra fingers"

const maxSceneDescriptionLen = 100

// BuildPrompt turns one scene's text into an image generation prompt for the
// requested style.
func BuildPrompt(scene, style string) string {
	suffix, ok := stylePrompts[style]
	if !ok {
		suffix = stylePrompts[DefaultStyle]
	}

	description := scene
	if runes := []rune(description); len(runes) > maxSceneDescriptionLen {
		description = string(runes[:maxSceneDescriptionLen]) + "..."
	}

	return fmt.Sprintf("scene from a story: %s, illustration%s", description, suffix)
}

// NegativePrompt returns the negative prompt for a style, with the common
// quality/safety terms appended.
func NegativePrompt(style string) string {
	negative, ok := styleNegativePrompts[style]
	if !ok {
		negative = styleNegativePrompts[DefaultStyle]
	}
	return negative + ", " + commonNegative
}
