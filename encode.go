package compass

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/phuslu/log"
)

// legacyPosition is the flat pre-lot portfolio entry: one purchase per line,
// duplicated tickers allowed. Detected and migrated on load.
type legacyPosition struct {
	Ticker   string   `json:"ticker"`
	Quantity Quantity `json:"quantity"`
	Price    Money    `json:"purchase_price"`
	Date     Date     `json:"purchase_date"`
	Notes    string   `json:"notes,omitempty"`
}

// DecodePortfolio reads a portfolio from r, migrating the legacy flat
// format when detected. The migrated return is true when a migration took
// place so the caller can rewrite the file.
func DecodePortfolio(r io.Reader) (p *Portfolio, migrated bool, err error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, false, fmt.Errorf("could not read portfolio: %w", err)
	}

	if isLegacyFormat(raw) {
		p, err = migrateLegacy(raw)
		if err != nil {
			return nil, false, err
		}
		migrated = true
	} else {
		p = &Portfolio{}
		if err := json.Unmarshal(raw, p); err != nil {
			return nil, false, fmt.Errorf("could not decode portfolio: %w", err)
		}
	}

	if err := p.Validate(); err != nil {
		return nil, false, err
	}
	return p, migrated, nil
}

// isLegacyFormat reports whether the raw portfolio uses the flat pre-lot
// shape. An empty positions list is valid in either format and is treated
// as current.
func isLegacyFormat(raw []byte) bool {
	var probe struct {
		Positions []map[string]json.RawMessage `json:"positions"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || len(probe.Positions) == 0 {
		return false
	}
	_, hasLots := probe.Positions[0]["lots"]
	return !hasLots
}

// migrateLegacy groups flat positions by ticker and nests them as lots,
// preserving first-seen ticker order and sorting lots by purchase date.
func migrateLegacy(raw []byte) (*Portfolio, error) {
	var legacy struct {
		Positions   []legacyPosition `json:"positions"`
		Cash        Money            `json:"cash_available"`
		LastUpdated Date             `json:"last_updated"`
	}
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return nil, fmt.Errorf("could not decode legacy portfolio: %w", err)
	}

	p := &Portfolio{Cash: legacy.Cash, LastUpdated: legacy.LastUpdated, Positions: []Position{}}
	for _, old := range legacy.Positions {
		lot := Lot{Quantity: old.Quantity, Price: old.Price, Date: old.Date, Notes: old.Notes}
		if pos := p.Position(old.Ticker); pos != nil {
			pos.Lots = append(pos.Lots, lot)
		} else {
			p.Positions = append(p.Positions, Position{Ticker: old.Ticker, Lots: []Lot{lot}})
		}
	}
	for i := range p.Positions {
		p.Positions[i].sortLots()
	}
	return p, nil
}

// EncodePortfolio writes the portfolio as indented JSON.
func EncodePortfolio(w io.Writer, p *Portfolio) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// LoadPortfolio reads the portfolio file at path. If the file still uses
// the legacy flat format it is migrated: the original is backed up next to
// it with a .backup suffix and the file rewritten in the lot-based shape,
// one time.
func LoadPortfolio(path string) (*Portfolio, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read portfolio file %q: %w", path, err)
	}

	p, migrated, err := DecodePortfolio(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("portfolio file %q: %w", path, err)
	}

	if migrated {
		backup := path + ".backup"
		if err := os.WriteFile(backup, raw, 0644); err != nil {
			return nil, fmt.Errorf("could not back up legacy portfolio to %q: %w", backup, err)
		}
		if err := SavePortfolio(path, p); err != nil {
			return nil, fmt.Errorf("could not rewrite migrated portfolio: %w", err)
		}
		log.Warn().Str("backup", backup).Msg("migrated portfolio to lot-based format")
	}
	return p, nil
}

// SavePortfolio validates, stamps and writes the portfolio to path.
func SavePortfolio(path string, p *Portfolio) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.LastUpdated = Today()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not open portfolio file %q for writing: %w", path, err)
	}
	defer f.Close()
	return EncodePortfolio(f, p)
}
