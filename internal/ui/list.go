package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/sfx/internal/models"
)

var (
	_ list.Item = trackItem{}
	_ list.Item = recordItem{}
	_ list.Item = filterItem{}
)

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string       { return i.track.Name }
func (i trackItem) Description() string {
	desc := i.track.ArtistNames()
	if i.track.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.Album)
	}
	return desc
}

// recordItem wraps [models.FacetRecord] with its track's artists to implement [list.Item].
type recordItem struct {
	record  models.FacetRecord
	artists string
}

func (i recordItem) FilterValue() string { return i.record.TrackName }
func (i recordItem) Title() string {
	if i.artists == "" {
		return i.record.TrackName
	}
	return fmt.Sprintf("%s - %s", i.record.TrackName, i.artists)
}
func (i recordItem) Description() string {
	parts := []string{}
	if len(i.record.Styles) > 0 {
		parts = append(parts, strings.Join(i.record.Styles, ", "))
	}
	if len(i.record.Tags) > 0 {
		parts = append(parts, strings.Join(i.record.Tags, ", "))
	}
	if i.record.Language != "" {
		parts = append(parts, i.record.Language)
	}
	if i.record.BPM != nil {
		parts = append(parts, fmt.Sprintf("%d BPM", *i.record.BPM))
	}
	return strings.Join(parts, " • ")
}

// filterCategory names the facet a [filterItem] toggles.
type filterCategory string

const (
	categoryStyle    filterCategory = "style"
	categoryTag      filterCategory = "tag"
	categoryLanguage filterCategory = "language"
)

// filterItem is one selectable facet value in the filter picker.
type filterItem struct {
	category filterCategory
	value    string
	selected bool
}

func (i filterItem) FilterValue() string { return i.value }
func (i filterItem) Title() string {
	mark := "[ ]"
	if i.selected {
		mark = "[x]"
	}
	return fmt.Sprintf("%s %s", mark, i.value)
}
func (i filterItem) Description() string { return string(i.category) }
