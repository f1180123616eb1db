package facets

import (
	"reflect"
	"slices"
	"testing"

	"github.com/desertthunder/sfx/internal/models"
)

func bpm(v int) *int { return &v }

func TestDeriveOptions(t *testing.T) {
	records := []models.FacetRecord{
		{TrackID: 1, Styles: []string{"Rock", "Pop"}, Tags: []string{"Sad", "Night"}, Language: "英语", BPM: bpm(140)},
		{TrackID: 2, Styles: []string{"Pop"}, Tags: []string{"Chill", "Sad"}, Language: ""},
		{TrackID: 3, Styles: []string{"Jazz"}, Tags: []string{}, Language: "国语", BPM: bpm(72)},
		{TrackID: 4, Language: "英语", BPM: bpm(100)},
	}

	got := DeriveOptions(records)

	t.Run("styles are unique and sorted", func(t *testing.T) {
		want := []string{"Jazz", "Pop", "Rock"}
		if !reflect.DeepEqual(got.Styles, want) {
			t.Errorf("styles = %v, want %v", got.Styles, want)
		}
	})

	t.Run("tags keep encounter order", func(t *testing.T) {
		want := []string{"Sad", "Night", "Chill"}
		if !reflect.DeepEqual(got.Tags, want) {
			t.Errorf("tags = %v, want %v", got.Tags, want)
		}
	})

	t.Run("languages skip empty values", func(t *testing.T) {
		want := []string{"英语", "国语"}
		if !reflect.DeepEqual(got.Languages, want) {
			t.Errorf("languages = %v, want %v", got.Languages, want)
		}
	})

	t.Run("bpm range bounds defined tempos", func(t *testing.T) {
		if got.BPMRange == nil {
			t.Fatal("expected bpm range")
		}
		if got.BPMRange.Min != 72 || got.BPMRange.Max != 140 {
			t.Errorf("bpm range = %+v, want {72 140}", *got.BPMRange)
		}
		if got.BPMRange.Min > got.BPMRange.Max {
			t.Error("min must not exceed max")
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		again := DeriveOptions(records)
		if !reflect.DeepEqual(got, again) {
			t.Errorf("second derivation differs: %+v vs %+v", got, again)
		}
	})

	t.Run("does not mutate input", func(t *testing.T) {
		if records[0].Styles[0] != "Rock" {
			t.Errorf("input styles were reordered: %v", records[0].Styles)
		}
	})
}

func TestDeriveOptionsBPMAbsent(t *testing.T) {
	tc := []struct {
		name    string
		records []models.FacetRecord
	}{
		{name: "no records", records: nil},
		{name: "records without bpm", records: []models.FacetRecord{{TrackID: 1, Styles: []string{"Pop"}}, {TrackID: 2}}},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveOptions(tt.records)
			if got.BPMRange != nil {
				t.Errorf("expected no bpm range, got %+v", *got.BPMRange)
			}
		})
	}
}

func TestDeriveOptionsEmpty(t *testing.T) {
	got := DeriveOptions(nil)
	if len(got.Styles) != 0 || len(got.Tags) != 0 || len(got.Languages) != 0 {
		t.Errorf("expected empty filters, got %+v", got)
	}
}

func TestDeriveOptionsSingleBPM(t *testing.T) {
	got := DeriveOptions([]models.FacetRecord{{TrackID: 1, BPM: bpm(90)}})
	if got.BPMRange == nil || got.BPMRange.Min != 90 || got.BPMRange.Max != 90 {
		t.Errorf("expected {90 90}, got %+v", got.BPMRange)
	}
}

func TestDeriveOptionsCollation(t *testing.T) {
	records := []models.FacetRecord{
		{TrackID: 1, Styles: []string{"民谣"}},
		{TrackID: 2, Styles: []string{"摇滚"}},
		{TrackID: 3, Styles: []string{"爵士"}},
	}

	got := DeriveOptions(records).Styles

	// jue (爵) < min (民) < yao (摇) in pinyin order.
	want := []string{"爵士", "民谣", "摇滚"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("styles = %v, want %v", got, want)
	}

	codepoint := []string{"民谣", "摇滚", "爵士"}
	slices.Sort(codepoint)
	if reflect.DeepEqual(got, codepoint) {
		t.Errorf("styles follow raw code point order %v", codepoint)
	}
}
