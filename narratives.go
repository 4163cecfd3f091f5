package compass

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"
)

// Limits on the narrative store.
const (
	// MaxActiveNarratives caps active narratives kept per ticker.
	MaxActiveNarratives = 5
	// PruneResolvedAfterDays is how long resolved narratives are retained.
	PruneResolvedAfterDays = 30
)

// Impact classifies the expected effect of a narrative on the ticker.
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

// Narrative is a short-lived thematic note about a ticker, carried across
// runs so the recommendation source sees continuity ("DOJ investigation
// ongoing since December") instead of rediscovering the theme every day.
type Narrative struct {
	ID           string `json:"id,omitempty"`
	Theme        string `json:"theme"`
	FirstSeen    Date   `json:"first_seen"`
	LastUpdated  Date   `json:"last_updated"`
	Summary      string `json:"summary"`
	Impact       Impact `json:"impact"`
	ArticleCount int    `json:"article_count"`
}

// ResolvedNarrative records a theme that played out.
type ResolvedNarrative struct {
	Theme      string `json:"theme"`
	ResolvedOn Date   `json:"resolved_date"`
	Resolution string `json:"resolution"`
}

// StockNarratives holds the narratives of a single ticker.
type StockNarratives struct {
	Active   []Narrative         `json:"active_narratives"`
	Resolved []ResolvedNarrative `json:"resolved_narratives"`
}

// NarrativeStore is the persisted collection of narratives per ticker. The
// file path is always passed in explicitly; the store never resolves paths
// on its own.
type NarrativeStore struct {
	Version     string                      `json:"version"`
	LastUpdated string                      `json:"last_updated"`
	Stocks      map[string]*StockNarratives `json:"stocks"`
}

// NewNarrativeStore returns an empty store.
func NewNarrativeStore() *NarrativeStore {
	return &NarrativeStore{Version: "1.0", Stocks: map[string]*StockNarratives{}}
}

// LoadNarratives reads the store from path. A missing or corrupt file is
// not fatal: narratives are advisory context, so the run continues with an
// empty store and a warning.
func LoadNarratives(path string) *NarrativeStore {
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("could not read narratives, starting empty")
		}
		return NewNarrativeStore()
	}
	s := NewNarrativeStore()
	if err := json.Unmarshal(raw, s); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("could not decode narratives, starting empty")
		return NewNarrativeStore()
	}
	if s.Stocks == nil {
		s.Stocks = map[string]*StockNarratives{}
	}
	if s.Version == "" {
		s.Version = "1.0"
	}
	return s
}

// Save stamps and writes the store to path.
func (s *NarrativeStore) Save(path string) error {
	s.LastUpdated = time.Now().Format(time.RFC3339)
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode narratives: %w", err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("could not write narratives file %q: %w", path, err)
	}
	return nil
}

// NarrativeUpdate is the per-ticker change set the recommendation source
// may propose alongside its actions.
type NarrativeUpdate struct {
	Add              []Narrative `json:"add,omitempty"`
	Update           []Narrative `json:"update,omitempty"`
	Resolve          []string    `json:"resolve,omitempty"`
	ResolutionReason string      `json:"resolution_reason,omitempty"`
}

// ApplyUpdates merges proposed changes into the store. Additions dedup by
// theme (an existing theme is refreshed instead of duplicated) and respect
// the per-ticker active cap. Resolutions move the theme to the resolved
// list with the given reason.
func (s *NarrativeStore) ApplyUpdates(updates map[string]NarrativeUpdate, today Date) {
	for ticker, update := range updates {
		stock := s.Stocks[ticker]
		if stock == nil {
			stock = &StockNarratives{}
			s.Stocks[ticker] = stock
		}

		for _, add := range update.Add {
			if existing := stock.find(add.Theme); existing != nil {
				existing.refresh(add, today)
				continue
			}
			if len(stock.Active) >= MaxActiveNarratives {
				continue
			}
			add.ID = uuid.NewString()
			add.FirstSeen = today
			add.LastUpdated = today
			if add.Impact == "" {
				add.Impact = ImpactNeutral
			}
			if add.ArticleCount == 0 {
				add.ArticleCount = 1
			}
			stock.Active = append(stock.Active, add)
		}

		for _, upd := range update.Update {
			if existing := stock.find(upd.Theme); existing != nil {
				existing.refresh(upd, today)
			}
		}

		for _, theme := range update.Resolve {
			for i, active := range stock.Active {
				if active.Theme != theme {
					continue
				}
				reason := update.ResolutionReason
				if reason == "" {
					reason = fmt.Sprintf("Resolved on %s", today)
				}
				stock.Resolved = append(stock.Resolved, ResolvedNarrative{
					Theme:      active.Theme,
					ResolvedOn: today,
					Resolution: reason,
				})
				stock.Active = append(stock.Active[:i], stock.Active[i+1:]...)
				break
			}
		}
	}
}

func (sn *StockNarratives) find(theme string) *Narrative {
	for i := range sn.Active {
		if sn.Active[i].Theme == theme {
			return &sn.Active[i]
		}
	}
	return nil
}

func (n *Narrative) refresh(from Narrative, today Date) {
	n.LastUpdated = today
	if from.Summary != "" {
		n.Summary = from.Summary
	}
	if from.Impact != "" {
		n.Impact = from.Impact
	}
	if from.ArticleCount != 0 {
		n.ArticleCount = from.ArticleCount
	}
}

// Prune drops resolved narratives older than the retention window.
func (s *NarrativeStore) Prune(days int, today Date) {
	cutoff := today.Add(-days)
	for _, stock := range s.Stocks {
		kept := stock.Resolved[:0]
		for _, r := range stock.Resolved {
			if r.ResolvedOn.After(cutoff) {
				kept = append(kept, r)
			}
		}
		stock.Resolved = kept
	}
}

// PromptContext formats the narratives of the given tickers for the LLM
// prompt: active themes with their age, plus themes resolved within the
// last 7 days.
func (s *NarrativeStore) PromptContext(tickers []string, today Date) string {
	var b strings.Builder
	for _, ticker := range tickers {
		stock := s.Stocks[ticker]
		if stock == nil || (len(stock.Active) == 0 && len(stock.Resolved) == 0) {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", ticker)
		for _, n := range stock.Active {
			age := today.DaysSince(n.FirstSeen)
			duration := "new"
			if age > 0 {
				duration = fmt.Sprintf("ongoing %d days", age)
			}
			indicator := map[Impact]string{ImpactPositive: "+", ImpactNegative: "-", ImpactNeutral: "~"}[n.Impact]
			if indicator == "" {
				indicator = "~"
			}
			fmt.Fprintf(&b, "  [%s] %s (%s): %s\n", indicator, titleTheme(n.Theme), duration, n.Summary)
		}
		for _, r := range stock.Resolved {
			if today.DaysSince(r.ResolvedOn) <= 7 {
				fmt.Fprintf(&b, "  [RESOLVED] %s: %s\n", titleTheme(r.Theme), r.Resolution)
			}
		}
	}
	if b.Len() == 0 {
		return "No prior narratives tracked."
	}
	return strings.TrimPrefix(b.String(), "\n")
}

// titleTheme turns "regulatory_risk" into "Regulatory Risk".
func titleTheme(theme string) string {
	words := strings.Split(strings.ReplaceAll(theme, "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// CountActive returns total active narratives and the number of tickers
// tracked, for the dashboard footer.
func (s *NarrativeStore) CountActive() (active, tracked int) {
	for _, stock := range s.Stocks {
		if len(stock.Active) == 0 && len(stock.Resolved) == 0 {
			continue
		}
		tracked++
		active += len(stock.Active)
	}
	return active, tracked
}
