package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/agent"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/adapters/search"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/configutil"
	"github.com/nitishmittal1990/bestpricevoiceai-sub000/pkg/product"
)

const interpretSystemPrompt = `You are a voice shopping assistant that helps users find the best prices for electronics.
Read the user's latest utterance in the context of the conversation and respond with ONLY a JSON object:
{
  "reply": "<what to say to the user>",
  "requires_user_input": true|false,
  "action": {"name": "search|clarify|compare|end", "params": {...}}
}
For "search", params carry product_name, category, brand, specifications (object of string values), min_price, max_price.
For "clarify", params carry "question". For "end", params carry "message".
Omit "action" when no action applies. Keep replies short and speakable.`

const extractSystemPrompt = `Extract product details from the text. Respond with ONLY a JSON object with keys
product_name, category, brand and specifications (object of string values). Use empty values for anything absent.`

// interpretPayload is the wire shape Interpret expects back from the model.
type interpretPayload struct {
	Reply             string `json:"reply"`
	RequiresUserInput bool   `json:"requires_user_input"`
	Action            *struct {
		Name   string         `json:"name"`
		Params map[string]any `json:"params"`
	} `json:"action"`
}

func (a *Adapter) Interpret(ctx context.Context, utterance string, history []agent.Message, current *product.Query) (agent.Interpretation, error) {
	messages := []map[string]any{{"role": "system", "content": interpretSystemPrompt}}
	if current != nil {
		messages = append(messages, map[string]any{
			"role":    "system",
			"content": "Current product under discussion: " + current.SearchText(),
		})
	}
	for _, msg := range history {
		messages = append(messages, map[string]any{"role": msg.Role, "content": msg.Content})
	}
	messages = append(messages, map[string]any{"role": "user", "content": utterance})

	content, err := a.chat(ctx, messages, true)
	if err != nil {
		return agent.Interpretation{}, err
	}

	var payload interpretPayload
	if err := json.Unmarshal([]byte(stripFences(content)), &payload); err != nil {
		return agent.Interpretation{}, fmt.Errorf("openai: interpret payload: %w", err)
	}

	interp := agent.Interpretation{
		Reply:             strings.TrimSpace(payload.Reply),
		RequiresUserInput: payload.RequiresUserInput,
	}
	if payload.Action != nil {
		action, err := agent.ParseAction(payload.Action.Name, payload.Action.Params)
		if err != nil {
			return agent.Interpretation{}, err
		}
		interp.Action = action
	}
	return interp, nil
}

func (a *Adapter) ExtractProductInfo(ctx context.Context, text string) (agent.ProductInfo, error) {
	content, err := a.chat(ctx, []map[string]any{
		{"role": "system", "content": extractSystemPrompt},
		{"role": "user", "content": text},
	}, true)
	if err != nil {
		return agent.ProductInfo{}, err
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(stripFences(content)), &raw); err != nil {
		return agent.ProductInfo{}, fmt.Errorf("openai: extract payload: %w", err)
	}
	var info agent.ProductInfo
	if err := configutil.DecodeSettings(raw, &info); err != nil {
		return agent.ProductInfo{}, err
	}
	return info, nil
}

func (a *Adapter) ValidateSpecifications(ctx context.Context, query product.Query) (agent.SpecValidation, error) {
	missing := product.MissingSpecs(query)
	v := agent.SpecValidation{IsComplete: len(missing) == 0, MissingSpecs: missing}
	if v.IsComplete {
		return v, nil
	}

	prompt := fmt.Sprintf(
		"The user wants to buy %s but has not specified: %s. Ask one short, friendly question covering all of them.",
		query.SearchText(), strings.Join(missing, ", "))
	content, err := a.chat(ctx, []map[string]any{{"role": "user", "content": prompt}}, false)
	if err != nil || strings.TrimSpace(content) == "" {
		// model unavailable, fall back to a deterministic question
		v.ClarifyingQuestion = "Could you tell me the " + strings.Join(missing, " and ") + "?"
		return v, nil
	}
	v.ClarifyingQuestion = strings.TrimSpace(content)
	return v, nil
}

func (a *Adapter) Summarize(ctx context.Context, query product.Query, ranked []search.Result) (string, error) {
	if len(ranked) == 0 {
		return "", errors.New("openai: nothing to summarize")
	}
	offers, err := json.Marshal(ranked)
	if err != nil {
		return "", err
	}
	prompt := fmt.Sprintf(
		"These offers for %s are already sorted cheapest first: %s. Summarize the best one or two in a short, speakable sentence with exact prices and platforms.",
		query.ProductName, offers)
	content, err := a.chat(ctx, []map[string]any{{"role": "user", "content": prompt}}, false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// stripFences removes a markdown code fence the model sometimes wraps JSON
// output in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

var _ agent.LanguageAgent = (*Adapter)(nil)
