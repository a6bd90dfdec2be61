// Package engine calls the Gemini API to narrate player actions and
// illustrate scenes. Every failure at this boundary is converted into a
// fixed fallback outcome; callers never see an error from generation.
package engine

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"github.com/ruqinhu/youxi/internal/models"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/cultivation.txt
var cultivationPrompt string

//go:embed prompts/dungeon.txt
var dungeonPrompt string

const (
	modelName      = "gemini-2.5-flash"
	imageModelName = "gemini-2.5-flash-image"
)

type Engine struct {
	client     *genai.Client
	model      *genai.GenerativeModel
	imageModel *genai.GenerativeModel
}

// NewEngine creates an engine backed by the Gemini API. An empty API key
// yields an offline engine whose generations short-circuit to a fixed
// deterministic outcome without any remote call.
func NewEngine(ctx context.Context, apiKey string) (*Engine, error) {
	if apiKey == "" {
		return &Engine{}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &Engine{
		client:     client,
		model:      client.GenerativeModel(modelName),
		imageModel: client.GenerativeModel(imageModelName),
	}, nil
}

// Offline reports whether the engine has no API credential.
func (e *Engine) Offline() bool {
	return e.client == nil
}

func (e *Engine) Close() {
	if e.client != nil {
		e.client.Close()
	}
}

// GenerateStoryEvent narrates the given action against a snapshot of the
// player state. It never fails: offline engines return the offline
// outcome and remote errors are swallowed into the failure outcome.
func (e *Engine) GenerateStoryEvent(ctx context.Context, action models.Action, state models.PlayerState) models.ActionOutcome {
	if e.Offline() {
		return models.OfflineOutcome()
	}
	outcome, err := e.generate(ctx, action, state)
	if err != nil {
		return models.FailureOutcome()
	}
	return outcome
}

func (e *Engine) generate(ctx context.Context, action models.Action, state models.PlayerState) (models.ActionOutcome, error) {
	promptText := cultivationPrompt
	if action == models.ActionDungeon {
		promptText = dungeonPrompt
	}

	tmpl, err := template.New("prompt").Parse(promptText)
	if err != nil {
		return models.ActionOutcome{}, err
	}

	var buf bytes.Buffer
	data := struct {
		Name     string
		Realm    string
		Location string
		Body     int
		Spirit   int
		DaoHeart int
		Qi       int
		MaxQi    int
		Action   string
	}{
		Name:     state.Name,
		Realm:    state.Realm.Display(),
		Location: state.Location.Display(),
		Body:     state.Stats.Body,
		Spirit:   state.Stats.Spirit,
		DaoHeart: state.Stats.DaoHeart,
		Qi:       state.CurrentQi,
		MaxQi:    state.MaxQi,
		Action:   string(action),
	}
	if err := tmpl.Execute(&buf, data); err != nil {
		return models.ActionOutcome{}, err
	}

	resp, err := e.model.GenerateContent(ctx, genai.Text(buf.String()))
	if err != nil {
		return models.ActionOutcome{}, err
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return models.ActionOutcome{}, fmt.Errorf("no content returned from Gemini")
	}

	part := resp.Candidates[0].Content.Parts[0]
	text, ok := part.(genai.Text)
	if !ok {
		return models.ActionOutcome{}, fmt.Errorf("unexpected response type from Gemini")
	}

	return parseOutcome(string(text))
}

// parseOutcome strips markdown fences, decodes the YAML body, and
// validates the result against the generator contract.
func parseOutcome(raw string) (models.ActionOutcome, error) {
	cleanYAML := strings.TrimSpace(raw)
	cleanYAML = strings.TrimPrefix(cleanYAML, "```yaml")
	cleanYAML = strings.TrimPrefix(cleanYAML, "```")
	cleanYAML = strings.TrimSuffix(cleanYAML, "```")

	var outcome models.ActionOutcome
	if err := yaml.Unmarshal([]byte(cleanYAML), &outcome); err != nil {
		return models.ActionOutcome{}, fmt.Errorf("failed to parse YAML: %v\nOutput was: %s", err, cleanYAML)
	}
	if outcome.Narrative == "" {
		return models.ActionOutcome{}, fmt.Errorf("outcome missing narrative")
	}
	if err := outcome.Validate(); err != nil {
		return models.ActionOutcome{}, err
	}
	return outcome, nil
}
