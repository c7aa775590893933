package foliosim

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// RecordType is a typed string identifying the records of a portfolio file.
type RecordType string

const (
	RecPortfolio RecordType = "portfolio"
	RecHolding   RecordType = "holding"
)

// portfolioRec is a specialized struct for decoding the file header.
type portfolioRec struct {
	Record   RecordType      `json:"record"`
	Name     string          `json:"name"`
	Years    int             `json:"years"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// holdingRec is a specialized struct for decoding one holding line.
type holdingRec struct {
	Record RecordType `json:"record"`
	Ticker string     `json:"ticker"`
	Weight Weight     `json:"weight"`
}

// EncodePortfolio persists a portfolio to an io.Writer in JSONL format: a
// header record followed by one record per holding, with canonical key order.
func EncodePortfolio(w io.Writer, p *Portfolio) error {
	decimal.MarshalJSONWithoutQuotes = true

	var header jsonObjectWriter
	header.Append("record", RecPortfolio)
	header.Optional("name", p.Name)
	header.Append("years", p.Years)
	header.EmbedFrom(p.Amount)
	if err := writeLine(w, &header); err != nil {
		return err
	}

	for _, h := range p.Holdings() {
		var line jsonObjectWriter
		line.Append("record", RecHolding)
		line.Append("ticker", h.Ticker)
		line.Append("weight", h.Weight)
		if err := writeLine(w, &line); err != nil {
			return err
		}
	}
	return nil
}

func writeLine(w io.Writer, obj *jsonObjectWriter) error {
	data, err := obj.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal portfolio record: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write portfolio record: %w", err)
	}
	return nil
}

// DecodePortfolio reads a portfolio from a stream of JSONL data. Duplicate
// tickers are rejected and weights are renormalized, so a hand-edited file
// with proportions like 2/1/1 is accepted.
func DecodePortfolio(r io.Reader) (*Portfolio, error) {
	p := &Portfolio{Years: DefaultYears}
	var weights []Weight
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Record RecordType `json:"record"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify record in line %q: %w", string(lineBytes), err)
		}

		switch identifier.Record {
		case RecPortfolio:
			var rec portfolioRec
			if err := json.Unmarshal(lineBytes, &rec); err != nil {
				return nil, fmt.Errorf("invalid portfolio record: %w", err)
			}
			p.Name = rec.Name
			if rec.Years > 0 {
				p.Years = rec.Years
			}
			p.Amount = M(rec.Amount, rec.Currency)
		case RecHolding:
			var rec holdingRec
			if err := json.Unmarshal(lineBytes, &rec); err != nil {
				return nil, fmt.Errorf("invalid holding record: %w", err)
			}
			if rec.Ticker == "" {
				return nil, fmt.Errorf("holding record with empty ticker")
			}
			if p.index(rec.Ticker) >= 0 {
				return nil, fmt.Errorf("duplicate ticker %q", rec.Ticker)
			}
			if rec.Weight.IsNegative() {
				return nil, fmt.Errorf("weight for %q is negative: %s", rec.Ticker, rec.Weight)
			}
			p.holdings = append(p.holdings, Holding{Ticker: rec.Ticker})
			weights = append(weights, rec.Weight)
		default:
			return nil, fmt.Errorf("unknown record type: %q", identifier.Record)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	if len(weights) > 0 {
		if err := p.SetWeights(weights); err != nil {
			// All-zero weights in the file just mean "equal weighting".
			p.Equalize()
		}
	}
	return p, nil
}

// SavePortfolio writes the portfolio to the given file path.
func SavePortfolio(path string, p *Portfolio) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create portfolio file %q: %w", path, err)
	}
	defer f.Close()
	if err := EncodePortfolio(f, p); err != nil {
		return err
	}
	return f.Close()
}

// LoadPortfolio reads the portfolio from the given file path.
func LoadPortfolio(path string) (*Portfolio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open portfolio file %q: %w", path, err)
	}
	defer f.Close()
	return DecodePortfolio(f)
}
