package facets

import (
	"encoding/json"
	"fmt"
)

// Identifiers used by the song wiki summary endpoint.
const (
	BasicInfoBlock = "SONG_PLAY_ABOUT_SONG_BASIC"

	CreativeGenre       = "songTag"
	CreativeBusinessTag = "songBizTag"
	CreativeLanguage    = "language"
	CreativeBPM         = "bpm"
)

// WikiSummary is the response of GET /song/wiki/summary?id={trackId}.
type WikiSummary struct {
	Code int `json:"code"`
	Data struct {
		Blocks []Block `json:"blocks"`
	} `json:"data"`
}

// Block is one opaque section of the summary. Only the basic info block is read.
//
// Creatives is nil when the key is absent or null, and empty when the list is empty.
type Block struct {
	Code      string     `json:"code"`
	Creatives []Creative `json:"creatives"`
}

// Creative is a tagged entry within a block.
type Creative struct {
	CreativeType string     `json:"creativeType"`
	Resources    []Resource `json:"resources"`
	UIElement    *UIElement `json:"uiElement"`
}

// Resource is a list item inside genre and business tag creatives.
type Resource struct {
	UIElement *UIElement `json:"uiElement"`
}

// UIElement carries the display text of a creative or resource.
type UIElement struct {
	MainTitle *MainTitle `json:"mainTitle"`
	TextLinks []TextLink `json:"textLinks"`
}

type MainTitle struct {
	Title string `json:"title"`
}

type TextLink struct {
	Text string `json:"text"`
}

// DecodeWikiSummary decodes a raw summary response body.
func DecodeWikiSummary(data []byte) (*WikiSummary, error) {
	var summary WikiSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to decode song summary: %w", err)
	}
	return &summary, nil
}

// Block returns the first block with the given code.
func (s *WikiSummary) Block(code string) (*Block, bool) {
	if s == nil {
		return nil, false
	}
	for i := range s.Data.Blocks {
		if s.Data.Blocks[i].Code == code {
			return &s.Data.Blocks[i], true
		}
	}
	return nil, false
}

// title returns the main title text, or "" when any level is missing.
func (u *UIElement) title() string {
	if u == nil || u.MainTitle == nil {
		return ""
	}
	return u.MainTitle.Title
}

// firstText returns the first text link, reporting whether one exists.
func (u *UIElement) firstText() (string, bool) {
	if u == nil || len(u.TextLinks) == 0 {
		return "", false
	}
	return u.TextLinks[0].Text, true
}
