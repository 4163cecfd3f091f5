// Package agent is the recommendation boundary: it turns the current
// portfolio context into a prompt, asks a Gemini model for BUY/SELL/HOLD
// actions, and parses the reply into typed Actions.
//
// The package returns a typed Outcome rather than using errors for control
// flow; the retry policy is an explicit loop over that Outcome, kept
// entirely outside the core. Nothing here validates the actions: that is
// the job of compass.ValidateActions, the sole gate recommendation input
// must pass.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phuslu/log"
	"google.golang.org/genai"

	compass "github.com/Toblerones/InvestCompass"
)

// Request carries everything the recommendation source may see.
type Request struct {
	Strategy   string
	Watchlist  []string
	Views      []compass.ConsolidatedView
	Prices     map[string]compass.Money
	Cash       compass.Money
	Budget     compass.Money
	Narratives string
}

// Recommendation is the parsed reply: an ordered action list (order
// matters, a SELL listed first funds later BUYs) plus optional narrative
// changes.
type Recommendation struct {
	Actions          []compass.Action
	NarrativeUpdates map[string]compass.NarrativeUpdate
	MarketOutlook    string
}

// Outcome is the typed result of one recommendation attempt.
type Outcome struct {
	Recommendation *Recommendation
	Err            error
	// Retryable is true for transient transport failures, false for
	// malformed replies or configuration problems.
	Retryable bool
}

// Source produces recommendations. Implemented by Gemini and by test fakes.
type Source interface {
	Recommend(ctx context.Context, req Request) Outcome
}

// Gemini asks a Gemini model through the genai SDK.
type Gemini struct {
	model string
	chat  *genai.Chat
}

// NewGemini creates a chat session against the given model.
func NewGemini(ctx context.Context, client *genai.Client, model string) (*Gemini, error) {
	config := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	chat, err := client.Chats.Create(ctx, model, config, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create chat with %s: %w", model, err)
	}
	return &Gemini{model: model, chat: chat}, nil
}

// Recommend sends the prompt and parses the JSON reply.
func (g *Gemini) Recommend(ctx context.Context, req Request) Outcome {
	prompt := BuildPrompt(req)
	resp, err := g.chat.Send(ctx, &genai.Part{Text: prompt})
	if err != nil {
		return Outcome{Err: fmt.Errorf("model call failed: %w", err), Retryable: true}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return Outcome{Err: fmt.Errorf("empty response from %s", g.model), Retryable: true}
	}
	rec, err := ParseRecommendation(resp.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		// a malformed reply will most likely stay malformed on retry
		return Outcome{Err: err, Retryable: false}
	}
	return Outcome{Recommendation: rec}
}

// payload is the wire shape the model is instructed to produce.
type payload struct {
	MarketOutlook    string                             `json:"market_outlook"`
	Actions          []actionPayload                    `json:"actions"`
	NarrativeUpdates map[string]compass.NarrativeUpdate `json:"narrative_updates"`
}

type actionPayload struct {
	Type             string `json:"type"`
	Ticker           string `json:"ticker"`
	Amount           string `json:"amount"`
	ExpectedProceeds string `json:"expected_proceeds"`
	CashSource       string `json:"cash_source"`
	Reasoning        string `json:"reasoning"`
}

// ParseRecommendation decodes the model's JSON reply, tolerating markdown
// code fences around the object.
func ParseRecommendation(text string) (*Recommendation, error) {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")

	var p payload
	if err := json.Unmarshal([]byte(clean), &p); err != nil {
		return nil, fmt.Errorf("could not decode recommendation: %w", err)
	}

	rec := &Recommendation{
		MarketOutlook:    p.MarketOutlook,
		NarrativeUpdates: p.NarrativeUpdates,
	}
	for i, a := range p.Actions {
		kind, err := compass.ParseActionType(a.Type)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i+1, err)
		}
		ticker := strings.ToUpper(strings.TrimSpace(a.Ticker))
		if ticker == "" {
			return nil, fmt.Errorf("action %d: ticker is missing", i+1)
		}
		rec.Actions = append(rec.Actions, compass.Action{
			Type:             kind,
			Ticker:           ticker,
			Amount:           a.Amount,
			ExpectedProceeds: a.ExpectedProceeds,
			CashSource:       a.CashSource,
			Reasoning:        a.Reasoning,
		})
	}
	return rec, nil
}

// Recommend runs the source with a bounded retry loop over transient
// failures. This is the only retry in the program; the core never retries.
func Recommend(ctx context.Context, source Source, req Request, attempts int) (*Recommendation, error) {
	var last Outcome
	for attempt := 1; attempt <= attempts; attempt++ {
		last = source.Recommend(ctx, req)
		if last.Err == nil {
			return last.Recommendation, nil
		}
		log.Warn().Err(last.Err).Int("attempt", attempt).Msg("recommendation attempt failed")
		if !last.Retryable {
			break
		}
	}
	return nil, fmt.Errorf("recommendation source failed: %w", last.Err)
}
