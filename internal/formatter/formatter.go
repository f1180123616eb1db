// package formatter renders enriched playlist rows as clipboard text, CSV, Markdown, JSON, YAML and terminal tables
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/sfx/internal/models"
	"github.com/desertthunder/sfx/internal/shared"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"
)

// Format names an export encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatTable    Format = "table"
)

// Formats lists every supported [Format].
var Formats = []Format{FormatText, FormatCSV, FormatMarkdown, FormatJSON, FormatYAML, FormatTable}

// ParseFormat resolves a user supplied format name. Common aliases (txt, md, yml) are accepted.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "table":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, name)
	}
}

// Extension returns the file extension used when writing f, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	default:
		return ".txt"
	}
}

// Row is one exported line: a track with whatever facets were extracted for it.
type Row struct {
	ID       int64    `json:"id"                 yaml:"id"`
	Name     string   `json:"name"               yaml:"name"`
	Artists  []string `json:"artists"            yaml:"artists"`
	Album    string   `json:"album,omitempty"    yaml:"album,omitempty"`
	Styles   []string `json:"styles,omitempty"   yaml:"styles,omitempty"`
	Tags     []string `json:"tags,omitempty"     yaml:"tags,omitempty"`
	Language string   `json:"language,omitempty" yaml:"language,omitempty"`
	BPM      *int     `json:"bpm,omitempty"      yaml:"bpm,omitempty"`
}

// ArtistLine joins the artist names with " / ".
func (r Row) ArtistLine() string {
	return strings.Join(r.Artists, " / ")
}

func (r Row) bpmText() string {
	if r.BPM == nil {
		return ""
	}
	return strconv.Itoa(*r.BPM)
}

// Report is a titled list of rows ready for export.
type Report struct {
	Title string `json:"title" yaml:"title"`
	Rows  []Row  `json:"rows"  yaml:"rows"`
}

func artistNames(t models.Track) []string {
	names := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		names[i] = a.Name
	}
	return names
}

// TrackRows converts a plain track list into rows without facets.
func TrackRows(tracks []models.Track) []Row {
	rows := make([]Row, len(tracks))
	for i, t := range tracks {
		rows[i] = Row{ID: t.ID, Name: t.Name, Artists: artistNames(t), Album: t.Album}
	}
	return rows
}

// RecordRows converts facet records into rows, in record order, taking artist and
// album details from the matching entry in tracks.
//
// A record whose track is missing from tracks keeps its name with no artists.
func RecordRows(records []models.FacetRecord, tracks []models.Track) []Row {
	byID := make(map[int64]models.Track, len(tracks))
	for _, t := range tracks {
		byID[t.ID] = t
	}

	rows := make([]Row, len(records))
	for i, rec := range records {
		row := Row{
			ID:       rec.TrackID,
			Name:     rec.TrackName,
			Artists:  []string{},
			Styles:   rec.Styles,
			Tags:     rec.Tags,
			Language: rec.Language,
			BPM:      rec.BPM,
		}
		if t, ok := byID[rec.TrackID]; ok {
			row.Artists = artistNames(t)
			row.Album = t.Album
		}
		rows[i] = row
	}
	return rows
}

// CopyText builds the clipboard blob for records: one "{name} - {artist1 / artist2}" line per record,
// joined by newlines without a trailing newline.
func CopyText(records []models.FacetRecord, tracks []models.Track) string {
	return textLines(RecordRows(records, tracks))
}

func textLines(rows []Row) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = fmt.Sprintf("%s - %s", r.Name, r.ArtistLine())
	}
	return strings.Join(lines, "\n")
}

// ExportToText renders the report as clipboard lines followed by a newline.
func ExportToText(r Report) ([]byte, error) {
	if len(r.Rows) == 0 {
		return []byte{}, nil
	}
	return []byte(textLines(r.Rows) + "\n"), nil
}

// ExportToCSV renders the report with columns: ID, Name, Artists, Styles, Tags, Language, BPM.
//
// Multi-valued cells are joined with "; ".
func ExportToCSV(r Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Artists", "Styles", "Tags", "Language", "BPM"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range r.Rows {
		record := []string{
			strconv.FormatInt(row.ID, 10),
			row.Name,
			row.ArtistLine(),
			strings.Join(row.Styles, "; "),
			strings.Join(row.Tags, "; "),
			row.Language,
			row.bpmText(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders the report as a heading and a numbered track list with facet details.
func ExportToMarkdown(r Report) ([]byte, error) {
	var buf bytes.Buffer

	title := r.Title
	if title == "" {
		title = "Tracks"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(r.Rows)))

	for i, row := range r.Rows {
		buf.WriteString(fmt.Sprintf("%d. %s - %s", i+1, row.Name, row.ArtistLine()))
		if row.Album != "" {
			buf.WriteString(fmt.Sprintf(" (%s)", row.Album))
		}
		buf.WriteString("\n")

		var details []string
		if len(row.Styles) > 0 {
			details = append(details, "Styles: "+strings.Join(row.Styles, ", "))
		}
		if len(row.Tags) > 0 {
			details = append(details, "Tags: "+strings.Join(row.Tags, ", "))
		}
		if row.Language != "" {
			details = append(details, "Language: "+row.Language)
		}
		if row.BPM != nil {
			details = append(details, "BPM: "+row.bpmText())
		}
		if len(details) > 0 {
			buf.WriteString(fmt.Sprintf("   - %s\n", strings.Join(details, " | ")))
		}
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders the report as indented JSON.
func ExportToJSON(r Report) ([]byte, error) {
	return shared.MarshalJSON(r, true)
}

// ExportToYAML renders the report as YAML.
func ExportToYAML(r Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// maxCellWidth bounds table columns, measured in terminal cells.
const maxCellWidth = 32

// ExportToTable renders the report as an aligned plain-text table.
//
// Widths are measured in terminal cells so CJK titles line up.
func ExportToTable(r Report) ([]byte, error) {
	headers := []string{"#", "Name", "Artists", "Styles", "Tags", "Language", "BPM"}
	cells := make([][]string, 0, len(r.Rows)+1)
	cells = append(cells, headers)
	for i, row := range r.Rows {
		cells = append(cells, []string{
			strconv.Itoa(i + 1),
			row.Name,
			row.ArtistLine(),
			strings.Join(row.Styles, ", "),
			strings.Join(row.Tags, ", "),
			row.Language,
			row.bpmText(),
		})
	}

	widths := make([]int, len(headers))
	for _, line := range cells {
		for c, cell := range line {
			w := min(runewidth.StringWidth(cell), maxCellWidth)
			widths[c] = max(widths[c], w)
		}
	}

	var buf bytes.Buffer
	for i, line := range cells {
		parts := make([]string, len(line))
		for c, cell := range line {
			cell = runewidth.Truncate(cell, maxCellWidth, "…")
			parts[c] = runewidth.FillRight(cell, widths[c])
		}
		buf.WriteString(strings.TrimRight(strings.Join(parts, "  "), " "))
		buf.WriteString("\n")

		if i == 0 {
			rules := make([]string, len(widths))
			for c, w := range widths {
				rules[c] = strings.Repeat("-", w)
			}
			buf.WriteString(strings.Join(rules, "  "))
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}

// Export renders r in the given format.
func Export(r Report, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ExportToCSV(r)
	case FormatMarkdown:
		return ExportToMarkdown(r)
	case FormatJSON:
		return ExportToJSON(r)
	case FormatYAML:
		return ExportToYAML(r)
	case FormatTable:
		return ExportToTable(r)
	case FormatText:
		return ExportToText(r)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// WriteExport renders r and writes it to path, creating parent directories.
//
// An empty path defaults to {title}{ext} in the working directory.
func WriteExport(r Report, f Format, path string) (string, error) {
	if path == "" {
		name := r.Title
		if name == "" {
			name = "tracks"
		}
		path = name + f.Extension()
	}

	data, err := Export(r, f)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", f, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", f, err)
	}

	return path, nil
}

type manifestEntry struct {
	models.PlaylistExportResult
	ErrorText string `json:"error,omitempty"`
}

type manifest struct {
	Format string `json:"format"`
	*models.BulkExportResult
	Results []manifestEntry `json:"results"`
}

// WriteBulkExportManifest writes a JSON summary of a bulk export to path.
func WriteBulkExportManifest(result *models.BulkExportResult, f Format, path string) error {
	m := manifest{
		Format:           string(f),
		BulkExportResult: result,
		Results:          make([]manifestEntry, len(result.Results)),
	}
	for i, res := range result.Results {
		m.Results[i] = manifestEntry{PlaylistExportResult: res, ErrorText: res.ErrorMessage()}
	}

	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
