package menu

import (
	"strconv"
	"strings"
)

// ExportColumns is the flattened column order for tabular export.
var ExportColumns = []string{
	"item_name",
	"category",
	"description",
	"price_display",
	"price",
	"half_plate_price",
	"full_plate_price",
	"small_price",
	"medium_price",
	"large_price",
	"currency",
	"spice_level",
	"dietary_tags",
}

// Rows returns the flattened tabular projection of the dataset, one row per
// item in ExportColumns order. Missing optional fields render as empty cells.
func (d *MenuData) Rows() [][]string {
	rows := make([][]string, 0, len(d.Items))
	for i := range d.Items {
		item := &d.Items[i]

		currency := item.Currency
		if currency == nil {
			currency = d.DetectedCurrency
		}

		rows = append(rows, []string{
			item.Name,
			optionalCell(item.Category),
			optionalCell(item.Description),
			item.PriceDisplay(),
			priceCell(item.Price),
			priceCell(item.HalfPlatePrice),
			priceCell(item.FullPlatePrice),
			priceCell(item.SmallPrice),
			priceCell(item.MediumPrice),
			priceCell(item.LargePrice),
			optionalCell(currency),
			optionalCell(item.SpiceLevel),
			strings.Join(item.DietaryTags, ", "),
		})
	}
	return rows
}

func optionalCell(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func priceCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
