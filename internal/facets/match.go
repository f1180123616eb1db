package facets

import (
	"slices"

	"github.com/desertthunder/sfx/internal/models"
)

// Matches reports whether record passes every active category in opts.
//
// Styles and tags pass when any selected value is present on the record. Language
// passes on direct membership, so a record without a language fails any active
// language filter. A record without a BPM always passes the BPM range check.
func Matches(record models.FacetRecord, opts models.FilterOptions) bool {
	if len(opts.Styles) > 0 && !intersects(record.Styles, opts.Styles) {
		return false
	}
	if len(opts.Tags) > 0 && !intersects(record.Tags, opts.Tags) {
		return false
	}
	if len(opts.Languages) > 0 && !slices.Contains(opts.Languages, record.Language) {
		return false
	}
	if opts.BPMRange != nil && record.BPM != nil && !opts.BPMRange.Contains(*record.BPM) {
		return false
	}
	return true
}

// Filter returns the records matching opts in their original order.
func Filter(records []models.FacetRecord, opts models.FilterOptions) []models.FacetRecord {
	out := make([]models.FacetRecord, 0, len(records))
	for _, r := range records {
		if Matches(r, opts) {
			out = append(out, r)
		}
	}
	return out
}

func intersects(have, want []string) bool {
	for _, v := range have {
		if slices.Contains(want, v) {
			return true
		}
	}
	return false
}
