package facets

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/desertthunder/sfx/internal/models"
)

// StyleCollation is the locale used to order style names.
var StyleCollation = language.SimplifiedChinese

// DeriveOptions computes the filter choices available across records.
//
// Styles are unique and sorted with [StyleCollation]; tags and languages keep
// encounter order; empty languages are skipped. BPMRange is nil when no record has a tempo.
func DeriveOptions(records []models.FacetRecord) models.AvailableFilters {
	styles := newOrderedSet()
	tags := newOrderedSet()
	languages := newOrderedSet()

	var bpm *models.BPMRange
	for _, r := range records {
		styles.add(r.Styles...)
		tags.add(r.Tags...)
		if r.Language != "" {
			languages.add(r.Language)
		}
		if r.BPM == nil {
			continue
		}
		if bpm == nil {
			bpm = &models.BPMRange{Min: *r.BPM, Max: *r.BPM}
			continue
		}
		bpm.Min = min(bpm.Min, *r.BPM)
		bpm.Max = max(bpm.Max, *r.BPM)
	}

	sorted := styles.values()
	collate.New(StyleCollation).SortStrings(sorted)

	return models.AvailableFilters{
		Styles:    sorted,
		Tags:      tags.values(),
		Languages: languages.values(),
		BPMRange:  bpm,
	}
}

type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

func newOrderedSet() *orderedSet {
	return &orderedSet{items: []string{}, seen: map[string]struct{}{}}
}

func (s *orderedSet) add(vs ...string) {
	for _, v := range vs {
		if _, ok := s.seen[v]; ok {
			continue
		}
		s.seen[v] = struct{}{}
		s.items = append(s.items, v)
	}
}

func (s *orderedSet) values() []string {
	return append([]string{}, s.items...)
}
