package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/arcitek-ai/arcitek/internal/backend"
	"github.com/arcitek-ai/arcitek/internal/mapsafe"
	"github.com/arcitek-ai/arcitek/internal/output"
)

const (
	// DefaultStoryWords is the target length for unknown length names.
	DefaultStoryWords = 2000

	maxStoryTokens = 16000

	// MaxNarrationRunes is the longest text sent to speech synthesis.
	MaxNarrationRunes = 4000

	narrationWordsPerMinute = 150
	titleMarker             = "TITLE:"
)

// StoryLengths maps length names to target word counts.
var StoryLengths = map[string]int{
	"flash":  500,
	"short":  2000,
	"medium": 10000,
	"long":   25000,
}

var storyDefaults = map[string]any{
	"temperature": 0.8,
}

// StoryText is a generated story.
type StoryText struct {
	Title     string
	Content   string
	WordCount int
}

// StoryResult describes a generated story. File is nil for demo stories.
type StoryResult struct {
	StoryText
	File *output.File
	Demo bool
}

// NarrationResult describes a stored narration.
type NarrationResult struct {
	File     output.File
	Duration int
}

// Story writes and narrates stories.
type Story struct {
	backends *backend.Registry
	store    *output.Store
	config   ConfigFunc
}

// NewStory creates a new Story service.
func NewStory(backends *backend.Registry, store *output.Store, config ConfigFunc) *Story {
	return &Story{
		backends: backends,
		store:    store,
		config:   config,
	}
}

// StoryWords returns the target word count of a length name.
func StoryWords(length string) int {
	if n, ok := StoryLengths[length]; ok {
		return n
	}
	return DefaultStoryWords
}

// StoryPrompts builds the system and user messages for a story request.
func StoryPrompts(prompt, genre string, words int) (system, user string) {
	system = fmt.Sprintf(`You are an expert creative writer specializing in %s fiction.
Write engaging, well-structured stories with vivid descriptions, compelling characters, and strong narrative arcs.
Your writing should be immersive and professional quality.`, genre)

	user = fmt.Sprintf(`Write a %s story based on this concept: %s

Requirements:
- Target length: approximately %d words
- Include a compelling title
- Create vivid characters and settings
- Build tension and conflict
- Provide a satisfying resolution
- Use descriptive, engaging prose

Format the response as:
TITLE: [Story Title]

[Story content]`, genre, prompt, words)

	return system, user
}

// ParseStory splits a completion into title and content. When the text
// carries a "TITLE:" marker the first line is the title; otherwise the
// whole text is the content under a genre based title.
func ParseStory(text, genre string) (title, content string) {
	if !strings.Contains(text, titleMarker) {
		return titleCase(genre) + " Story", strings.TrimSpace(text)
	}

	parts := strings.SplitN(text, "\n", 3)
	title = strings.TrimSpace(strings.ReplaceAll(parts[0], titleMarker, ""))

	switch len(parts) {
	case 3:
		content = parts[2]
	case 2:
		content = parts[1]
	}

	return title, strings.TrimSpace(content)
}

// DemoStory is returned when no story backend answers.
func DemoStory(prompt, genre string) StoryText {
	content := fmt.Sprintf(`In a world where %[1]s, extraordinary events were about to unfold.

This is a demonstration story generated by ArciTEK.AI. In the full version, this would be a complete, professionally-written %[2]s story with rich characters, vivid descriptions, and an engaging plot.

The story would explore themes relevant to %[2]s fiction, creating an immersive experience for the reader. Characters would be well-developed, the setting would be vividly described, and the narrative would build tension leading to a satisfying conclusion.

This demo showcases the story generation and narration capabilities of ArciTEK.AI, powered by advanced AI models and high-quality text-to-speech technology.

infinite♾2025`, prompt, genre)

	return StoryText{
		Title:     fmt.Sprintf("The %s Tale", titleCase(genre)),
		Content:   content,
		WordCount: len(strings.Fields(content)),
	}
}

// TruncateNarration limits text to MaxNarrationRunes, marking the cut with "...".
func TruncateNarration(text string) string {
	if cut, ok := truncateRunes(text, MaxNarrationRunes); ok {
		return cut + "..."
	}
	return text
}

// EstimateNarrationSeconds approximates the spoken length of text at
// 150 words per minute scaled by speed.
func EstimateNarrationSeconds(text string, speed float64) int {
	if speed <= 0 {
		speed = 1
	}
	words := float64(len(strings.Fields(text)))
	return int(words / narrationWordsPerMinute * 60 / speed)
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// Generate writes a story of the given genre and length. Any backend
// failure yields the demo story, which is not stored.
func (s *Story) Generate(ctx context.Context, prompt, genre, length string) (*StoryResult, error) {
	words := StoryWords(length)

	story, err := s.write(ctx, prompt, genre, words)
	if err != nil {
		slog.Warn("Story generation failed, using demo story", "error", err)
		return &StoryResult{StoryText: DemoStory(prompt, genre), Demo: true}, nil
	}

	f, err := s.store.Create(output.KindStories, "story", "txt", writeBytes([]byte(story.Title+"\n\n"+story.Content)))
	if err != nil {
		return nil, err
	}

	slog.Info("Generated story", "title", story.Title, "words", story.WordCount, "target", words)

	return &StoryResult{StoryText: story, File: &f}, nil
}

func (s *Story) write(ctx context.Context, prompt, genre string, words int) (StoryText, error) {
	sc := s.config().Services.Story

	b, err := lookup(s.backends, sc)
	if err != nil {
		return StoryText{}, err
	}

	system, user := StoryPrompts(prompt, genre, words)

	params := sc.Params(storyDefaults)
	params["system_prompt"] = system
	params["max_tokens"] = min(words*2, maxStoryTokens)

	resp, err := b.Infer(ctx, &backend.Request{
		Input:      strings.NewReader(user),
		Parameters: params,
	})
	if err != nil {
		return StoryText{}, err
	}

	data, err := readOutput(resp)
	if err != nil {
		return StoryText{}, err
	}

	title, content := ParseStory(strings.TrimSpace(string(data)), genre)
	if content == "" {
		return StoryText{}, fmt.Errorf("story has no content: %w", backend.ErrEmptyOutput)
	}

	return StoryText{
		Title:     title,
		Content:   content,
		WordCount: len(strings.Fields(content)),
	}, nil
}

// Narrate synthesizes text with the given voice and speed. Errors are
// returned as is; there is no demo narration.
func (s *Story) Narrate(ctx context.Context, text, voice string, speed float64) (*NarrationResult, error) {
	if speed <= 0 {
		speed = 1
	}
	if truncated := TruncateNarration(text); truncated != text {
		slog.Info("Narration text truncated", "max_chars", MaxNarrationRunes)
		text = truncated
	}

	sc := s.config().Services.Narration

	b, err := lookup(s.backends, sc)
	if err != nil {
		return nil, err
	}

	params := sc.Params(nil)
	if voice != "" {
		params["voice"] = voice
	}
	params["speed"] = speed

	resp, err := b.Infer(ctx, &backend.Request{
		Input:      strings.NewReader(text),
		Parameters: params,
	})
	if err != nil {
		return nil, fmt.Errorf("narration failed: %w", err)
	}
	if resp == nil || resp.Output == nil {
		return nil, fmt.Errorf("narration failed: %w", backend.ErrEmptyOutput)
	}

	ext := mapsafe.Get(params, "response_format", "mp3")
	f, err := s.store.Create(output.KindStories, "narration", ext, func(w io.Writer) error {
		_, err := io.Copy(w, resp.Output)
		return err
	})
	if err != nil {
		return nil, err
	}

	duration := EstimateNarrationSeconds(text, speed)
	slog.Info("Generated narration", "file", f.Name, "voice", voice, "speed", speed, "duration", duration)

	return &NarrationResult{File: f, Duration: duration}, nil
}
