// Package anthropic implements recipes.Generator on the Anthropic Messages
// API.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	anthropicapi "github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/fridgekeep/internal/recipes"
)

const systemPrompt = `You are a recipe generator for a smart fridge.

The input you receive will contain:
- FRIDGE_ITEMS: a JSON array of objects, each:
    { "name": string, "expires_in_days": integer }
- MAX_RECIPES: an integer.

Your tasks:
1. Generate up to MAX_RECIPES recipes that make good use of the ingredients in FRIDGE_ITEMS.
2. Prefer ingredients that are closer to expiring (smaller expires_in_days),
   but you MAY also use ingredients that are not in FRIDGE_ITEMS.
3. Do NOT remove a recipe just because some ingredients are not in FRIDGE_ITEMS.
4. Keep recipes realistic and simple.

Each recipe you output MUST have exactly these fields:
- title: string
- ingredients: array of strings (ingredient names)
- steps: array of short strings (cooking steps)

Output ONLY a valid JSON object of this structure, with no other fields and
no surrounding prose:

{
  "recipes": [
    {
      "title": "string",
      "ingredients": ["string", "..."],
      "steps": ["step 1", "step 2", "..."]
    }
  ]
}`

type Generator struct {
	client *anthropicapi.Client
	model  anthropicapi.Model
}

func NewGenerator(apiKey, model string) *Generator {
	return &Generator{
		client: anthropicapi.NewClient(apiKey),
		model:  anthropicapi.Model(model),
	}
}

// Generate asks the model for up to maxCount drafts for the given snapshot.
// Drafts come back unvalidated; callers run recipes.ValidateDraft on ingress.
func (g *Generator) Generate(ctx context.Context, snapshot []recipes.SnapshotEntry, maxCount int) ([]recipes.Draft, error) {
	prompt, err := buildPrompt(snapshot, maxCount)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.CreateMessages(ctx, anthropicapi.MessagesRequest{
		Model:     g.model,
		MaxTokens: 4096,
		Messages: []anthropicapi.Message{
			anthropicapi.NewUserTextMessage(prompt),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call recipe model: %w", err)
	}

	return parseDrafts(resp.GetFirstContentText())
}

func buildPrompt(snapshot []recipes.SnapshotEntry, maxCount int) (string, error) {
	items, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return fmt.Sprintf("%s\n\nFRIDGE_ITEMS:\n%s\n\nMAX_RECIPES: %d\n", systemPrompt, items, maxCount), nil
}

// parseDrafts decodes the model's JSON reply. Models occasionally wrap JSON
// in a markdown fence despite instructions; strip it before decoding.
func parseDrafts(raw string) ([]recipes.Draft, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var payload struct {
		Recipes []recipes.Draft `json:"recipes"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode recipe response: %w", err)
	}
	return payload.Recipes, nil
}
