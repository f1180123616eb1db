package services

import "testing"

func TestParsePlaylistInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"raw id", "24381616", "24381616"},
		{"padded id", "  24381616 \n", "24381616"},
		{"empty", "   ", ""},
		{"share link", "https://music.163.com/playlist?id=24381616&userid=1", "24381616"},
		{"hash route", "https://music.163.com/#/playlist?id=123", "123"},
		{"mobile link", "https://y.music.163.com/m/playlist?id=55", "55"},
		{"url without id", "https://music.163.com/discover", "https://music.163.com/discover"},
		{"not a url", "my playlist", "my playlist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParsePlaylistInput(tt.input); got != tt.want {
				t.Errorf("ParsePlaylistInput(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
