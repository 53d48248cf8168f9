// Package menu defines the normalized menu dataset produced by extraction.
package menu

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Price bounds applied to every price field during validation.
const (
	MinPrice = 0.0
	MaxPrice = 100000.0
)

// validCurrencies is the known-good set for the currency field. Anything not
// in the set is still accepted when it is 3 characters or fewer (symbols,
// ISO-ish codes), otherwise dropped.
var validCurrencies = map[string]struct{}{
	"$": {}, "₹": {}, "€": {}, "£": {}, "¥": {},
	"AUD": {}, "USD": {}, "INR": {}, "EUR": {}, "GBP": {},
}

// RawMenu is the wire shape the extraction capability must return.
type RawMenu struct {
	Items []RawItem `json:"items"`
}

// RawItem is one unvalidated record from the extraction capability.
// All fields except item_name are nullable on the wire.
type RawItem struct {
	ItemName       string   `json:"item_name"`
	Category       *string  `json:"category"`
	Description    *string  `json:"description"`
	Price          *float64 `json:"price"`
	HalfPlatePrice *float64 `json:"half_plate_price"`
	FullPlatePrice *float64 `json:"full_plate_price"`
	SmallPrice     *float64 `json:"small_price"`
	MediumPrice    *float64 `json:"medium_price"`
	LargePrice     *float64 `json:"large_price"`
	PriceDisplay   *string  `json:"price_display"`
}

// MenuItem is one validated dish line. Construct via ParseItem; a MenuItem
// that exists satisfies all field invariants.
type MenuItem struct {
	Name           string   `json:"item_name" yaml:"item_name"`
	Category       *string  `json:"category,omitempty" yaml:"category,omitempty"`
	Description    *string  `json:"description,omitempty" yaml:"description,omitempty"`
	Price          *float64 `json:"price,omitempty" yaml:"price,omitempty"`
	HalfPlatePrice *float64 `json:"half_plate_price,omitempty" yaml:"half_plate_price,omitempty"`
	FullPlatePrice *float64 `json:"full_plate_price,omitempty" yaml:"full_plate_price,omitempty"`
	SmallPrice     *float64 `json:"small_price,omitempty" yaml:"small_price,omitempty"`
	MediumPrice    *float64 `json:"medium_price,omitempty" yaml:"medium_price,omitempty"`
	LargePrice     *float64 `json:"large_price,omitempty" yaml:"large_price,omitempty"`
	Currency       *string  `json:"currency,omitempty" yaml:"currency,omitempty"`
	SpiceLevel     *string  `json:"spice_level,omitempty" yaml:"spice_level,omitempty"`
	DietaryTags    []string `json:"dietary_tags,omitempty" yaml:"dietary_tags,omitempty"`
}

// ParseItem validates and coerces a raw record into a MenuItem.
// Callers drop the record on error; a record-level failure never aborts
// the chunk or the document.
func ParseItem(raw RawItem) (*MenuItem, error) {
	name := CollapseWhitespace(raw.ItemName)
	if utf8.RuneCountInString(name) < 2 {
		return nil, fmt.Errorf("item name too short: %q", raw.ItemName)
	}

	item := &MenuItem{
		Name:        name,
		Category:    cleanOptional(raw.Category),
		Description: cleanOptional(raw.Description),
	}

	prices := []struct {
		field string
		src   *float64
		dst   **float64
	}{
		{"price", raw.Price, &item.Price},
		{"half_plate_price", raw.HalfPlatePrice, &item.HalfPlatePrice},
		{"full_plate_price", raw.FullPlatePrice, &item.FullPlatePrice},
		{"small_price", raw.SmallPrice, &item.SmallPrice},
		{"medium_price", raw.MediumPrice, &item.MediumPrice},
		{"large_price", raw.LargePrice, &item.LargePrice},
	}
	for _, p := range prices {
		if p.src == nil {
			continue
		}
		if *p.src < MinPrice {
			return nil, fmt.Errorf("%s cannot be negative: %v", p.field, *p.src)
		}
		if *p.src > MaxPrice {
			return nil, fmt.Errorf("%s unreasonably high: %v", p.field, *p.src)
		}
		v := *p.src
		*p.dst = &v
	}

	if raw.PriceDisplay != nil {
		if cur := DetectCurrency(*raw.PriceDisplay); cur != "" {
			item.Currency = ValidateCurrency(&cur)
		}
	}

	return item, nil
}

// HasAnyPrice reports whether at least one price field is set.
func (m *MenuItem) HasAnyPrice() bool {
	return m.Price != nil ||
		m.HalfPlatePrice != nil ||
		m.FullPlatePrice != nil ||
		m.SmallPrice != nil ||
		m.MediumPrice != nil ||
		m.LargePrice != nil
}

// PrimaryPrice returns the representative price for the item: the first
// populated field in priority order single, full, half, large, medium, small.
// Returns nil for unpriced items. A legitimate 0.00 price is preserved.
func (m *MenuItem) PrimaryPrice() *float64 {
	for _, p := range []*float64{
		m.Price,
		m.FullPlatePrice,
		m.HalfPlatePrice,
		m.LargePrice,
		m.MediumPrice,
		m.SmallPrice,
	} {
		if p != nil {
			return p
		}
	}
	return nil
}

// PriceDisplay renders a human-readable price column for the item.
func (m *MenuItem) PriceDisplay() string {
	symbol := "$"
	if m.Currency != nil {
		symbol = *m.Currency
	}

	if m.Price != nil {
		return fmt.Sprintf("%s%.2f", symbol, *m.Price)
	}

	var parts []string
	if m.HalfPlatePrice != nil {
		parts = append(parts, fmt.Sprintf("Half: %s%.2f", symbol, *m.HalfPlatePrice))
	}
	if m.FullPlatePrice != nil {
		parts = append(parts, fmt.Sprintf("Full: %s%.2f", symbol, *m.FullPlatePrice))
	}
	if m.SmallPrice != nil {
		parts = append(parts, fmt.Sprintf("Small: %s%.2f", symbol, *m.SmallPrice))
	}
	if m.MediumPrice != nil {
		parts = append(parts, fmt.Sprintf("Medium: %s%.2f", symbol, *m.MediumPrice))
	}
	if m.LargePrice != nil {
		parts = append(parts, fmt.Sprintf("Large: %s%.2f", symbol, *m.LargePrice))
	}

	if len(parts) == 0 {
		return "No price"
	}
	return strings.Join(parts, " | ")
}

// CollapseWhitespace reduces internal whitespace runs to single spaces and
// trims the ends.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ValidateCurrency keeps a currency value when it is in the known set or is
// at most 3 characters; otherwise returns nil.
func ValidateCurrency(v *string) *string {
	if v == nil {
		return nil
	}
	cur := strings.TrimSpace(*v)
	if cur == "" {
		return nil
	}
	if _, ok := validCurrencies[cur]; ok {
		return &cur
	}
	if len([]rune(cur)) <= 3 {
		return &cur
	}
	return nil
}

// DetectCurrency scans display text for a known currency symbol or code.
// Returns "" when nothing recognizable is present.
func DetectCurrency(display string) string {
	for _, symbol := range []string{"₹", "€", "£", "¥", "$"} {
		if strings.Contains(display, symbol) {
			return symbol
		}
	}
	for _, code := range []string{"USD", "INR", "EUR", "GBP", "AUD"} {
		if strings.Contains(display, code) {
			return code
		}
	}
	return ""
}

func cleanOptional(v *string) *string {
	if v == nil {
		return nil
	}
	s := CollapseWhitespace(*v)
	if s == "" {
		return nil
	}
	return &s
}
