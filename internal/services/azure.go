package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/bobarin/storyreel/internal/models"
)

// ---------------------------------------------------------------------------
// Azure Speech Text-to-Speech Service
// Uses the Azure Cognitive Services REST API with SSML bodies.
// ---------------------------------------------------------------------------

const azureOutputFormat = "audio-24khz-96kbitrate-mono-mp3"

// AzureSpeechService handles text-to-speech via Azure Cognitive Services.
type AzureSpeechService struct {
	apiKey       string
	region       string
	defaultVoice string
	client       *http.Client
}

// Ensure AzureSpeechService implements TTSService at compile time.
var _ TTSService = (*AzureSpeechService)(nil)

func NewAzureSpeechService(apiKey, region, defaultVoice string) *AzureSpeechService {
	return &AzureSpeechService{
		apiKey:       apiKey,
		region:       region,
		defaultVoice: defaultVoice,
		client:       &http.Client{Timeout: 90 * time.Second},
	}
}

// GenerateSpeech synthesizes text with the requested voice.
// Implements the TTSService interface.
func (s *AzureSpeechService) GenerateSpeech(ctx context.Context, text, voice string) (*TTSResponse, error) {
	effectiveVoice := s.defaultVoice
	if voice != "" {
		effectiveVoice = voice
	}

	ssml := fmt.Sprintf(
		`<speak version="1.0" xmlns="http://www.w3.org/2001/10/synthesis" xml:lang="%s"><voice name="%s"><prosody rate="0%%" pitch="0%%">%s</prosody></voice></speak>`,
		voiceLocale(effectiveVoice), effectiveVoice, html.EscapeString(text))

	url := fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", s.region)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBufferString(ssml))
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure request: %w", err)
	}

	req.Header.Set("Ocp-Apim-Subscription-Key", s.apiKey)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", azureOutputFormat)

	log.Printf("[Azure] Generating speech (voice=%s, textLen=%d)", effectiveVoice, len(text))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Azure request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Azure returned status %d: %s", resp.StatusCode, string(body))
	}

	audioData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Azure audio response: %w", err)
	}

	if len(audioData) == 0 {
		return nil, fmt.Errorf("Azure returned empty audio")
	}

	log.Printf("[Azure] Speech generated (%d bytes)", len(audioData))

	return &TTSResponse{
		AudioData: audioData,
		Format:    "mp3",
	}, nil
}

// ListVoices returns the region's voice catalog, filtered to Chinese and
// English locales.
// GET /cognitiveservices/voices/list
func (s *AzureSpeechService) ListVoices(ctx context.Context) ([]models.Voice, error) {
	url := fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/voices/list", s.region)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Azure voices request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Azure returned status %d: %s", resp.StatusCode, string(body))
	}

	var result []struct {
		Name        string `json:"Name"`
		ShortName   string `json:"ShortName"`
		DisplayName string `json:"DisplayName"`
		Locale      string `json:"Locale"`
		Gender      string `json:"Gender"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse voices response: %w", err)
	}

	var voices []models.Voice
	for _, v := range result {
		if !strings.HasPrefix(v.Locale, "zh-") && !strings.HasPrefix(v.Locale, "en-") {
			continue
		}
		voices = append(voices, models.Voice{
			Name:        v.ShortName,
			DisplayName: v.DisplayName,
			Locale:      v.Locale,
			Gender:      v.Gender,
		})
	}
	return voices, nil
}

// voiceLocale derives the xml:lang locale from a voice short name like
// "zh-CN-XiaoxiaoNeural".
func voiceLocale(voice string) string {
	parts := strings.SplitN(voice, "-", 3)
	if len(parts) >= 2 {
		return parts[0] + "-" + parts[1]
	}
	return "en-US"
}
