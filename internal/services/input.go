package services

import (
	"net/url"
	"strings"
)

// ParsePlaylistInput extracts a playlist ID from user input.
//
// Share links such as https://music.163.com/playlist?id=123 and
// https://music.163.com/#/playlist?id=123 yield "123". Anything that is not an
// absolute URL carrying an id parameter is returned trimmed, as-is.
func ParsePlaylistInput(raw string) string {
	input := strings.TrimSpace(raw)
	if input == "" {
		return ""
	}

	u, err := url.Parse(input)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return input
	}

	if id := u.Query().Get("id"); id != "" {
		return id
	}

	// Hash routes keep the query inside the fragment.
	if _, query, ok := strings.Cut(u.Fragment, "?"); ok {
		if values, err := url.ParseQuery(query); err == nil {
			if id := values.Get("id"); id != "" {
				return id
			}
		}
	}

	return input
}
