package report

import "github.com/spacesedan/sentiboard/internal/models"

// Slice is one segment of the donut chart, drawn as a stroked circle whose
// circumference is 100. Dash and Gap feed stroke-dasharray and Offset feeds
// stroke-dashoffset, with the first slice starting at twelve o'clock.
type Slice struct {
	Label   string
	Count   int
	Percent float64
	Dash    float64
	Gap     float64
	Offset  float64
	Color   string
}

const donutStart = 25

var sliceOrder = []struct {
	label string
	color string
	count func(models.Summary) int
}{
	{"positive", "#2e7d32", func(s models.Summary) int { return s.Positive }},
	{"neutral", "#9e9e9e", func(s models.Summary) int { return s.Neutral }},
	{"negative", "#c62828", func(s models.Summary) int { return s.Negative }},
	{"mixed", "#f9a825", func(s models.Summary) int { return s.Mixed }},
	{"error", "#455a64", func(s models.Summary) int { return s.Errors }},
}

// Donut returns the non-empty label slices of s in a fixed order. Rows with
// labels outside the known set are left out of the chart.
func Donut(s models.Summary) []Slice {
	total := 0
	for _, o := range sliceOrder {
		total += o.count(s)
	}
	if total == 0 {
		return nil
	}

	var slices []Slice
	var offset float64
	for _, o := range sliceOrder {
		n := o.count(s)
		if n == 0 {
			continue
		}
		pct := float64(n) * 100 / float64(total)
		slices = append(slices, Slice{
			Label:   o.label,
			Count:   n,
			Percent: pct,
			Dash:    pct,
			Gap:     100 - pct,
			Offset:  donutStart - offset,
			Color:   o.color,
		})
		offset += pct
	}
	return slices
}
