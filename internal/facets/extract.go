package facets

import (
	"strconv"
	"strings"

	"github.com/desertthunder/sfx/internal/models"
)

// Extract builds a [models.FacetRecord] from a song summary.
//
// It reports false when the basic info block is missing or has no creatives list.
// Unknown creative types are ignored. A later creative of the same type replaces the earlier one.
func Extract(trackID int64, trackName string, summary *WikiSummary) (models.FacetRecord, bool) {
	block, ok := summary.Block(BasicInfoBlock)
	if !ok || block.Creatives == nil {
		return models.FacetRecord{}, false
	}

	record := models.FacetRecord{
		TrackID:   trackID,
		TrackName: trackName,
		Styles:    []string{},
		Tags:      []string{},
	}

	for _, creative := range block.Creatives {
		switch creative.CreativeType {
		case CreativeGenre:
			record.Styles = resourceTitles(creative.Resources)
		case CreativeBusinessTag:
			record.Tags = resourceTitles(creative.Resources)
		case CreativeLanguage:
			text, _ := creative.UIElement.firstText()
			record.Language = text
		case CreativeBPM:
			record.BPM = nil
			if text, ok := creative.UIElement.firstText(); ok {
				// A zero tempo is unset. Negative tempos are dropped along with it.
				if bpm, ok := ParseBPM(text); ok {
					record.BPM = &bpm
				}
			}
		}
	}

	return record, true
}

// resourceTitles collects distinct, non-empty resource titles in order.
func resourceTitles(resources []Resource) []string {
	titles := make([]string, 0, len(resources))
	seen := make(map[string]struct{}, len(resources))
	for _, res := range resources {
		title := res.UIElement.title()
		if title == "" {
			continue
		}
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}
		titles = append(titles, title)
	}
	return titles
}

// ParseBPM reads the leading integer of text, ignoring leading whitespace and trailing
// characters ("128", " 96 BPM"). Text without a leading integer, or a tempo that is
// not positive, yields false.
func ParseBPM(text string) (int, bool) {
	s := strings.TrimLeft(text, " \t\r\n")

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	bpm, err := strconv.Atoi(s[:end])
	if err != nil || bpm <= 0 {
		return 0, false
	}
	return bpm, true
}
