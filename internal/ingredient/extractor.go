package ingredient

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"grocery-planner/internal/llm"
	"grocery-planner/internal/shared"
)

//go:embed extractor_prompt.md
var extractorPrompt string

// Extractor asks an LLM for the main raw ingredients of a dish.
type Extractor struct {
	textGen llm.TextGenerator
}

// NewExtractor creates a new LLM-backed ingredient extractor.
func NewExtractor(textGen llm.TextGenerator) *Extractor {
	return &Extractor{textGen: textGen}
}

// wireIngredient mirrors the JSON shape the prompt asks for. Quantity and
// unit are pointers because the model is allowed to return null for both.
type wireIngredient struct {
	Name     string   `json:"name"`
	Quantity *float64 `json:"quantity"`
	Unit     *string  `json:"unit"`
}

type wireResponse struct {
	Ingredients []wireIngredient `json:"ingredients"`
}

// Extract returns the ingredient list for a dish, plus call metadata for the
// metrics store. A dish that yields no usable output is an error to the
// caller; the workflow decides whether to continue without it.
func (e *Extractor) Extract(ctx context.Context, dish string) ([]Ingredient, shared.CallMeta, error) {
	start := time.Now()

	prompt, err := buildExtractorPrompt(dish)
	if err != nil {
		return nil, shared.CallMeta{}, err
	}

	resp, err := e.textGen.GenerateContent(ctx, prompt)
	meta := shared.CallMeta{
		Caller:  "IngredientExtractor",
		Usage:   resp.Usage,
		Latency: time.Since(start),
	}
	if err != nil {
		return nil, meta, fmt.Errorf("failed to get LLM response: %w", err)
	}

	ingredients, err := parseExtractorResponse(resp.Content)
	if err != nil {
		return nil, meta, fmt.Errorf("failed to parse LLM response for %q: %w", dish, err)
	}

	return ingredients, meta, nil
}

func buildExtractorPrompt(dish string) (string, error) {
	tmpl, err := template.New("extractor").Parse(extractorPrompt)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Dish string }{Dish: dish}); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// parseExtractorResponse decodes a model reply into ingredients. Models
// occasionally wrap JSON in markdown fences or fall back to a plain string
// list; both are salvaged before giving up.
func parseExtractorResponse(content string) ([]Ingredient, error) {
	cleaned := stripMarkdownFences(content)

	var wire wireResponse
	if err := json.Unmarshal([]byte(cleaned), &wire); err == nil && len(wire.Ingredients) > 0 {
		return fromWire(wire.Ingredients), nil
	}

	// Some models return a bare JSON array of free-text strings like
	// ["200g chicken", "2 eggs"].
	var lines []string
	if err := json.Unmarshal([]byte(cleaned), &lines); err == nil && len(lines) > 0 {
		var out []Ingredient
		for _, line := range lines {
			if ing, ok := ParseLine(line); ok {
				out = append(out, ing)
			}
		}
		if len(out) > 0 {
			return out, nil
		}
	}

	return nil, fmt.Errorf("unusable extractor output: %s", truncate(cleaned, 200))
}

func fromWire(wire []wireIngredient) []Ingredient {
	var out []Ingredient
	for _, w := range wire {
		name := strings.TrimSpace(w.Name)
		if name == "" {
			continue
		}
		ing := Ingredient{Name: name}
		if w.Quantity != nil && *w.Quantity > 0 {
			ing.Quantity = *w.Quantity
			ing.HasQuantity = true
			if w.Unit != nil {
				ing.Unit = strings.TrimSpace(*w.Unit)
			}
		}
		out = append(out, ing)
	}
	return out
}

func stripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
