package facets

import (
	"testing"
)

const summaryFixture = `{
  "code": 200,
  "data": {
    "blocks": [
      {"code": "SONG_PLAY_ABOUT_SIMILAR_SONG"},
      {
        "code": "SONG_PLAY_ABOUT_SONG_BASIC",
        "creatives": [
          {"creativeType": "songTag", "resources": [
            {"uiElement": {"mainTitle": {"title": "流行"}}},
            {"uiElement": {"mainTitle": {"title": "华语流行"}}},
            {"uiElement": {"mainTitle": {"title": "流行"}}}
          ]},
          {"creativeType": "songBizTag", "resources": [
            {"uiElement": {"mainTitle": {"title": "治愈"}}},
            {"uiElement": {}}
          ]},
          {"creativeType": "language", "uiElement": {"textLinks": [{"text": "国语"}, {"text": "粤语"}]}},
          {"creativeType": "bpm", "uiElement": {"textLinks": [{"text": "128"}]}},
          {"creativeType": "sheet", "uiElement": {"textLinks": [{"text": "ignored"}]}}
        ]
      }
    ]
  }
}`

func mustDecode(t *testing.T, body string) *WikiSummary {
	t.Helper()
	s, err := DecodeWikiSummary([]byte(body))
	if err != nil {
		t.Fatalf("failed to decode fixture: %v", err)
	}
	return s
}

func TestExtract(t *testing.T) {
	t.Run("full basic block", func(t *testing.T) {
		record, ok := Extract(7, "Song", mustDecode(t, summaryFixture))
		if !ok {
			t.Fatal("expected a record")
		}

		if record.TrackID != 7 || record.TrackName != "Song" {
			t.Errorf("unexpected identity: %+v", record)
		}
		if len(record.Styles) != 2 || record.Styles[0] != "流行" || record.Styles[1] != "华语流行" {
			t.Errorf("unexpected styles: %v", record.Styles)
		}
		if len(record.Tags) != 1 || record.Tags[0] != "治愈" {
			t.Errorf("unexpected tags: %v", record.Tags)
		}
		if record.Language != "国语" {
			t.Errorf("expected first text link as language, got %q", record.Language)
		}
		if record.BPM == nil || *record.BPM != 128 {
			t.Errorf("expected bpm 128, got %v", record.BPM)
		}
	})

	t.Run("missing basic block yields no record", func(t *testing.T) {
		body := `{"code":200,"data":{"blocks":[{"code":"OTHER","creatives":[]}]}}`
		if _, ok := Extract(1, "A", mustDecode(t, body)); ok {
			t.Error("expected no record")
		}
	})

	t.Run("no blocks yields no record", func(t *testing.T) {
		if _, ok := Extract(1, "A", mustDecode(t, `{"code":200,"data":{}}`)); ok {
			t.Error("expected no record")
		}
	})

	t.Run("nil summary yields no record", func(t *testing.T) {
		if _, ok := Extract(1, "A", nil); ok {
			t.Error("expected no record")
		}
	})

	t.Run("basic block without creatives yields no record", func(t *testing.T) {
		body := `{"code":200,"data":{"blocks":[{"code":"SONG_PLAY_ABOUT_SONG_BASIC"}]}}`
		if _, ok := Extract(1, "A", mustDecode(t, body)); ok {
			t.Error("expected no record")
		}
	})

	t.Run("empty creatives yields empty record", func(t *testing.T) {
		body := `{"code":200,"data":{"blocks":[{"code":"SONG_PLAY_ABOUT_SONG_BASIC","creatives":[]}]}}`
		record, ok := Extract(1, "A", mustDecode(t, body))
		if !ok {
			t.Fatal("expected a record")
		}
		if len(record.Styles) != 0 || len(record.Tags) != 0 || record.Language != "" || record.BPM != nil {
			t.Errorf("expected empty facets, got %+v", record)
		}
	})

	t.Run("language without text links is empty", func(t *testing.T) {
		body := `{"code":200,"data":{"blocks":[{"code":"SONG_PLAY_ABOUT_SONG_BASIC","creatives":[
			{"creativeType":"language","uiElement":{"textLinks":[]}}
		]}]}}`
		record, ok := Extract(1, "A", mustDecode(t, body))
		if !ok {
			t.Fatal("expected a record")
		}
		if record.Language != "" {
			t.Errorf("expected empty language, got %q", record.Language)
		}
	})

	bpmCases := []struct {
		name     string
		creative string
		want     int
		defined  bool
	}{
		{name: "numeric", creative: `{"creativeType":"bpm","uiElement":{"textLinks":[{"text":"120"}]}}`, want: 120, defined: true},
		{name: "numeric with suffix", creative: `{"creativeType":"bpm","uiElement":{"textLinks":[{"text":"96 BPM"}]}}`, want: 96, defined: true},
		{name: "not a number", creative: `{"creativeType":"bpm","uiElement":{"textLinks":[{"text":"abc"}]}}`},
		{name: "no text links", creative: `{"creativeType":"bpm","uiElement":{}}`},
		{name: "no ui element", creative: `{"creativeType":"bpm"}`},
		{name: "zero", creative: `{"creativeType":"bpm","uiElement":{"textLinks":[{"text":"0"}]}}`},
		{name: "negative", creative: `{"creativeType":"bpm","uiElement":{"textLinks":[{"text":"-5"}]}}`},
	}
	for _, tt := range bpmCases {
		t.Run("bpm "+tt.name, func(t *testing.T) {
			body := `{"code":200,"data":{"blocks":[{"code":"SONG_PLAY_ABOUT_SONG_BASIC","creatives":[` + tt.creative + `]}]}}`
			record, ok := Extract(1, "A", mustDecode(t, body))
			if !ok {
				t.Fatal("expected a record")
			}
			if !tt.defined {
				if record.BPM != nil {
					t.Errorf("expected bpm unset, got %d", *record.BPM)
				}
				return
			}
			if record.BPM == nil || *record.BPM != tt.want {
				t.Errorf("expected bpm %d, got %v", tt.want, record.BPM)
			}
		})
	}
}

func TestParseBPM(t *testing.T) {
	tc := []struct {
		in   string
		want int
		ok   bool
	}{
		{in: "120", want: 120, ok: true},
		{in: "  87", want: 87, ok: true},
		{in: "+140", want: 140, ok: true},
		{in: "128.6", want: 128, ok: true},
		{in: "abc"},
		{in: ""},
		{in: "-"},
		{in: "0"},
		{in: "-90"},
		{in: "99999999999999999999999"},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseBPM(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseBPM(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDecodeWikiSummary(t *testing.T) {
	if _, err := DecodeWikiSummary([]byte("{not json")); err == nil {
		t.Error("expected decode error")
	}
}
