// Package clipper imports dishes from recipe web pages. It strips a page
// down to its text, asks the LLM for the dish title and raw ingredient
// lines, and parses those lines into structured ingredients.
package clipper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"grocery-planner/internal/ingredient"
	"grocery-planner/internal/llm"
	"grocery-planner/internal/shared"

	"github.com/PuerkitoBio/goquery"
)

// Clipper handles fetching and extracting dishes from URLs.
type Clipper struct {
	textGen llm.TextGenerator
}

// ClippedDish is a dish imported from a web page, ready to drop into a
// meal plan. Lines keeps the ingredient lines as the page stated them.
type ClippedDish struct {
	Title       string
	Lines       []string
	Ingredients []ingredient.Ingredient
}

type extractedDish struct {
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
}

// NewClipper creates a new Clipper instance.
func NewClipper(textGen llm.TextGenerator) *Clipper {
	return &Clipper{textGen: textGen}
}

// ClipURL fetches the URL and extracts the dish title and ingredient lines.
// Lines the parser cannot make sense of are kept as unquantified ingredients
// rather than dropped.
func (c *Clipper) ClipURL(ctx context.Context, url string) (*ClippedDish, shared.CallMeta, error) {
	meta := shared.CallMeta{Caller: "Clipper"}

	content, err := c.fetchAndCleanHTML(ctx, url)
	if err != nil {
		return nil, meta, fmt.Errorf("failed to fetch content: %w", err)
	}

	prompt := fmt.Sprintf(`
You are a recipe extraction expert. Extract the dish name and its ingredient
lines from the following page text.
Return the result strictly as a JSON object with this structure:
{
  "title": "Dish Name",
  "ingredients": ["200g chicken breast", "2 eggs", ...]
}
Keep each ingredient line exactly as the page states it, quantity included.

Page text:
%s
`, content)

	start := time.Now()
	resp, err := c.textGen.GenerateContent(ctx, prompt)
	meta.Latency = time.Since(start)
	meta.Usage = resp.Usage
	if err != nil {
		return nil, meta, fmt.Errorf("ai extraction failed: %w", err)
	}

	var extracted extractedDish
	if err := json.Unmarshal([]byte(resp.Content), &extracted); err != nil {
		return nil, meta, fmt.Errorf("failed to parse AI response: %w. Response: %s", err, resp.Content)
	}
	if extracted.Title == "" {
		return nil, meta, fmt.Errorf("no dish title found at %s", url)
	}

	dish := &ClippedDish{Title: extracted.Title, Lines: extracted.Ingredients}
	for _, line := range extracted.Ingredients {
		item, ok := ingredient.ParseLine(line)
		if !ok {
			continue
		}
		dish.Ingredients = append(dish.Ingredients, item)
	}
	return dish, meta, nil
}

func (c *Clipper) fetchAndCleanHTML(ctx context.Context, url string) (string, error) {
	client := &http.Client{Timeout: 15 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}
