package listings

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is the quote currency used when none is requested.
const DefaultCurrency = "USD"

// Asset is one cryptocurrency entry of a listings payload.
type Asset struct {
	ID      int              `json:"id,omitempty"`
	Name    string           `json:"name"`
	Symbol  string           `json:"symbol"`
	Slug    string           `json:"slug,omitempty"`
	CMCRank int              `json:"cmc_rank,omitempty"`
	Quote   map[string]Quote `json:"quote"`
}

// QuoteIn returns the quote for the given currency code, matched case-insensitively.
func (a Asset) QuoteIn(currency string) (Quote, bool) {
	if q, ok := a.Quote[currency]; ok {
		return q, true
	}
	for code, q := range a.Quote {
		if strings.EqualFold(code, currency) {
			return q, true
		}
	}
	return Quote{}, false
}

// Quote holds the market figures of an asset in one currency.
// A null or missing field decodes as an invalid NullDecimal; zero is a real value.
type Quote struct {
	Price            decimal.NullDecimal `json:"price"`
	MarketCap        decimal.NullDecimal `json:"market_cap"`
	Volume24h        decimal.NullDecimal `json:"volume_24h"`
	PercentChange24h decimal.NullDecimal `json:"percent_change_24h"`
}

// Status is the status block CoinMarketCap attaches to every response.
type Status struct {
	Timestamp    string `json:"timestamp"`
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
	Elapsed      int    `json:"elapsed"`
	CreditCount  int    `json:"credit_count"`
}

// dataKey is the payload field that carries the asset list.
const dataKey = "data"

// Payload is a decoded listings response. Fields other than "data" are kept
// verbatim in Extra so the payload can be written back unchanged.
type Payload struct {
	Data  []Asset
	Extra map[string]json.RawMessage

	// rawData is the "data" field as received; it is written back as-is so
	// upstream number formatting survives a cache round trip.
	rawData json.RawMessage
}

// Status decodes the upstream status block, if present.
func (p *Payload) Status() (Status, bool) {
	raw, ok := p.Extra["status"]
	if !ok {
		return Status{}, false
	}
	var s Status
	if err := json.Unmarshal(raw, &s); err != nil {
		return Status{}, false
	}
	return s, true
}

// MarshalJSON writes Extra and Data as a single JSON object.
func (p *Payload) MarshalJSON() ([]byte, error) {
	obj, err := p.Fields()
	if err != nil {
		return nil, err
	}
	return json.Marshal(obj)
}

// Fields returns the payload as a flat field map, suitable for adding more fields.
func (p *Payload) Fields() (map[string]json.RawMessage, error) {
	obj := make(map[string]json.RawMessage, len(p.Extra)+1)
	for k, v := range p.Extra {
		obj[k] = v
	}
	if p.rawData != nil {
		obj[dataKey] = p.rawData
		return obj, nil
	}
	data := p.Data
	if data == nil {
		data = []Asset{}
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding listings: %w", err)
	}
	obj[dataKey] = encoded
	return obj, nil
}

// UnmarshalJSON decodes a listings object. The "data" field must be an array.
func (p *Payload) UnmarshalJSON(b []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	return p.FromFields(obj)
}

// FromFields fills p from a flat field map. The map's "data" entry is consumed.
func (p *Payload) FromFields(obj map[string]json.RawMessage) error {
	raw, ok := obj[dataKey]
	if !ok {
		return fmt.Errorf("missing %q field", dataKey)
	}
	var data []Asset
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("decoding %q: %w", dataKey, err)
	}
	if data == nil {
		return fmt.Errorf("%q is not an array", dataKey)
	}

	extra := make(map[string]json.RawMessage, len(obj))
	for k, v := range obj {
		if k != dataKey {
			extra[k] = v
		}
	}
	p.Data = data
	p.Extra = extra
	p.rawData = raw
	return nil
}
