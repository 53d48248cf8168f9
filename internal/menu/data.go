package menu

// Sentinel category for items the model returned without one.
const Uncategorized = "Uncategorized"

// MenuData is the extraction result for one source document.
// Constructed once by Aggregate and read-only afterward.
type MenuData struct {
	Items                []MenuItem `json:"items" yaml:"items"`
	RestaurantName       string     `json:"restaurant_name" yaml:"restaurant_name"`
	TotalItems           int        `json:"total_items" yaml:"total_items"`
	SourceFile           string     `json:"source_file,omitempty" yaml:"source_file,omitempty"`
	ExtractionConfidence float64    `json:"extraction_confidence" yaml:"extraction_confidence"`
	DetectedCurrency     *string    `json:"detected_currency,omitempty" yaml:"detected_currency,omitempty"`
	ExtractionMethod     string     `json:"extraction_method,omitempty" yaml:"extraction_method,omitempty"`
}

// Aggregate merges validated items into a MenuData. Items without any price
// are dropped here: a dish line with no numeric price is not useful output.
// rawCount is the total number of raw items the extraction capability
// returned across all chunks; confidence is kept/max(1, rawCount).
func Aggregate(validated []MenuItem, rawCount int, restaurantName, sourceFile, method string) *MenuData {
	priced := make([]MenuItem, 0, len(validated))
	for _, item := range validated {
		if item.HasAnyPrice() {
			priced = append(priced, item)
		}
	}

	denom := rawCount
	if denom < 1 {
		denom = 1
	}
	confidence := float64(len(priced)) / float64(denom)
	if confidence > 1 {
		confidence = 1
	}

	if restaurantName == "" {
		restaurantName = "Unknown"
	}

	return &MenuData{
		Items:                priced,
		RestaurantName:       restaurantName,
		TotalItems:           len(priced),
		SourceFile:           sourceFile,
		ExtractionConfidence: confidence,
		DetectedCurrency:     detectPrimaryCurrency(priced),
		ExtractionMethod:     method,
	}
}

// detectPrimaryCurrency returns the most common item currency, if any.
func detectPrimaryCurrency(items []MenuItem) *string {
	counts := make(map[string]int)
	for _, item := range items {
		if item.Currency != nil {
			counts[*item.Currency]++
		}
	}

	best := ""
	bestCount := 0
	for cur, n := range counts {
		if n > bestCount || (n == bestCount && cur < best) {
			best, bestCount = cur, n
		}
	}
	if best == "" {
		return nil
	}
	return &best
}

// PriceRange summarizes primary prices across a document.
type PriceRange struct {
	Min *float64 `json:"min" yaml:"min"`
	Max *float64 `json:"max" yaml:"max"`
	Avg *float64 `json:"avg" yaml:"avg"`
}

// Summary holds aggregate statistics for one extraction result.
type Summary struct {
	TotalItems      int            `json:"total_items" yaml:"total_items"`
	ItemsWithPrices int            `json:"items_with_prices" yaml:"items_with_prices"`
	Categories      map[string]int `json:"categories" yaml:"categories"`
	PriceRange      PriceRange     `json:"price_range" yaml:"price_range"`
	Currency        *string        `json:"currency,omitempty" yaml:"currency,omitempty"`
}

// Summarize computes the category histogram and price statistics.
func (d *MenuData) Summarize() Summary {
	s := Summary{
		TotalItems: len(d.Items),
		Categories: make(map[string]int),
		Currency:   d.DetectedCurrency,
	}

	var prices []float64
	for i := range d.Items {
		item := &d.Items[i]

		cat := Uncategorized
		if item.Category != nil {
			cat = *item.Category
		}
		s.Categories[cat]++

		if item.HasAnyPrice() {
			s.ItemsWithPrices++
			if p := item.PrimaryPrice(); p != nil {
				prices = append(prices, *p)
			}
		}
	}

	if len(prices) > 0 {
		min, max, sum := prices[0], prices[0], 0.0
		for _, p := range prices {
			if p < min {
				min = p
			}
			if p > max {
				max = p
			}
			sum += p
		}
		avg := sum / float64(len(prices))
		s.PriceRange = PriceRange{Min: &min, Max: &max, Avg: &avg}
	}

	return s
}
