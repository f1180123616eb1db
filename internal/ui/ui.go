package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/sfx/internal/models"
	"github.com/desertthunder/sfx/internal/shared"
	"github.com/desertthunder/sfx/internal/state"
	"github.com/desertthunder/sfx/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	InputView ViewState = iota
	TrackListView
	AnalyzeView
	ResultView
	FilterView
)

var (
	copyToClipboard = clipboard.WriteAll
	openBrowser     = shared.OpenBrowser
)

// Engine fetches playlists and streams enrichment steps.
type Engine interface {
	state.Streamer
	Fetch(ctx context.Context, input string, progress chan<- tasks.ProgressUpdate) (*models.Playlist, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	app        *state.App
	engine     Engine
	logger     *log.Logger
	width      int
	height     int
	input      textinput.Model
	bpmInput   textinput.Model
	editingBPM bool
	trackList  list.Model
	recordList list.Model
	filterList list.Model
	bar        progress.Model
	stepChan   chan tasks.Step
	runID      string
	fetching   bool
	status     string
	err        error
	help       help.Model
	keys       keyMap
}

// NewModel creates a new TUI model over app, driven by engine.
func NewModel(ctx context.Context, app *state.App, engine Engine, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	input := textinput.New()
	input.Placeholder = "playlist ID or share link"
	input.CharLimit = 256
	input.Width = 48
	input.Focus()

	bpm := textinput.New()
	bpm.Placeholder = "min-max, empty to clear"
	bpm.CharLimit = 16
	bpm.Width = 24

	m := &Model{
		ctx:      ctx,
		view:     InputView,
		app:      app,
		engine:   engine,
		logger:   logger,
		input:    input,
		bpmInput: bpm,
		bar:      progress.New(progress.WithDefaultGradient()),
		help:     help.New(),
		keys:     newKeyMap(),
	}
	m.trackList = newList("Tracks", nil)
	m.recordList = newList("Results", nil)
	m.filterList = newList("Filters", nil)
	if len(app.Tracks()) > 0 {
		m.refreshTracks()
		m.view = TrackListView
	}
	return m
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	return l
}

// Init starts the cursor blinking in the input view.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case InputView:
			return m.handleInputKeys(msg)
		case TrackListView:
			return m.handleTrackListKeys(msg)
		case AnalyzeView:
			return m.handleAnalyzeKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		case FilterView:
			return m.handleFilterKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPlaylistFetched:
		data := msg.data.(playlistFetched)
		m.fetching = false
		if data.err != nil {
			m.err = data.err
			m.view = InputView
			return m, nil
		}
		m.err = nil
		m.app.SetPlaylist(data.playlist.ID, data.playlist.Tracks)
		m.refreshTracks()
		m.status = fmt.Sprintf("Loaded %d tracks", len(data.playlist.Tracks))
		m.view = TrackListView
		return m, nil

	case MsgStep:
		step := msg.data.(tasks.Step)
		if !m.app.Apply(m.runID, step) {
			return m, m.waitForStep()
		}
		if step.Kind == tasks.TrackFailed {
			m.logger.Warn("track failed", "track", step.Track.Name, "error", step.Err)
		}
		return m, m.waitForStep()

	case MsgAnalysisComplete:
		m.app.EndAnalysis(m.runID)
		m.runID = ""
		m.stepChan = nil
		m.refreshRecords()
		m.status = fmt.Sprintf("Analyzed %d tracks, %d with facets", len(m.app.Tracks()), len(m.app.Records()))
		m.view = ResultView
		return m, nil

	case MsgStatus:
		data := msg.data.(status)
		m.status = data.text
		m.err = data.err
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case InputView:
		return m.renderInput()
	case TrackListView:
		return m.renderTrackList()
	case AnalyzeView:
		return m.renderAnalyze()
	case ResultView:
		return m.renderResult()
	case FilterView:
		return m.renderFilters()
	default:
		return ""
	}
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if len(m.app.Tracks()) > 0 {
			m.view = TrackListView
			return m, nil
		}
		return m, tea.Quit
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		if value == "" || m.fetching {
			return m, nil
		}
		m.fetching = true
		m.err = nil
		m.status = "Fetching playlist..."
		return m, m.fetchPlaylist(value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleTrackListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.playlist), key.Matches(msg, m.keys.back):
		m.view = InputView
		m.input.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.analyze):
		return m, m.startAnalysis()
	}

	var cmd tea.Cmd
	m.trackList, cmd = m.trackList.Update(msg)
	return m, cmd
}

func (m *Model) handleAnalyzeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = TrackListView
		return m, nil
	case key.Matches(msg, m.keys.playlist):
		m.view = InputView
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.filter):
		m.refreshFilters()
		m.view = FilterView
		return m, nil
	case key.Matches(msg, m.keys.reset):
		m.app.ResetFilters()
		m.refreshRecords()
		m.status = "Filters cleared"
		return m, nil
	case key.Matches(msg, m.keys.copy):
		return m, m.copyRecords()
	case key.Matches(msg, m.keys.open):
		if item, ok := m.recordList.SelectedItem().(recordItem); ok {
			return m, m.openSong(item.record.TrackID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.recordList, cmd = m.recordList.Update(msg)
	return m, cmd
}

func (m *Model) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editingBPM {
		return m.handleBPMKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.refreshRecords()
		m.view = ResultView
		return m, nil
	case key.Matches(msg, m.keys.reset):
		m.app.ResetFilters()
		m.refreshFilters()
		return m, nil
	case key.Matches(msg, m.keys.bpm):
		m.editingBPM = true
		m.bpmInput.SetValue(bpmInputValue(m.app.Filters().BPMRange))
		m.bpmInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.toggle):
		if item, ok := m.filterList.SelectedItem().(filterItem); ok {
			m.toggleFilter(item)
			idx := m.filterList.Index()
			m.refreshFilters()
			m.filterList.Select(idx)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.filterList, cmd = m.filterList.Update(msg)
	return m, cmd
}

func (m *Model) handleBPMKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.editingBPM = false
		m.bpmInput.Blur()
		return m, nil
	case "enter":
		if err := m.applyBPM(m.bpmInput.Value()); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.editingBPM = false
		m.bpmInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.bpmInput, cmd = m.bpmInput.Update(msg)
	return m, cmd
}

func (m *Model) toggleFilter(item filterItem) {
	switch item.category {
	case categoryStyle:
		m.app.ToggleStyle(item.value)
	case categoryTag:
		m.app.ToggleTag(item.value)
	case categoryLanguage:
		m.app.ToggleLanguage(item.value)
	}
}

// applyBPM parses "min-max" into a range selection. Empty input clears it.
func (m *Model) applyBPM(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		m.app.ClearBPMRange()
		return nil
	}

	lo, hi, found := strings.Cut(value, "-")
	if !found {
		return fmt.Errorf("%w: bpm range must look like 90-120", shared.ErrInvalidInput)
	}
	minBPM, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return fmt.Errorf("%w: %q is not a number", shared.ErrInvalidInput, lo)
	}
	maxBPM, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return fmt.Errorf("%w: %q is not a number", shared.ErrInvalidInput, hi)
	}
	return m.app.SetBPMRange(minBPM, maxBPM)
}

func bpmInputValue(r *models.BPMRange) string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case InputView:
		m.input, cmd = m.input.Update(msg)
	case TrackListView:
		m.trackList, cmd = m.trackList.Update(msg)
	case ResultView:
		m.recordList, cmd = m.recordList.Update(msg)
	case FilterView:
		if m.editingBPM {
			m.bpmInput, cmd = m.bpmInput.Update(msg)
		} else {
			m.filterList, cmd = m.filterList.Update(msg)
		}
	}
	return m, cmd
}

func (m *Model) resize() {
	w, h := m.width-4, m.height-8
	if w < 0 || h < 0 {
		return
	}
	m.trackList.SetSize(w, h)
	m.recordList.SetSize(w, h)
	m.filterList.SetSize(w, h)
	m.bar.Width = min(w, 60)
}

func (m *Model) refreshTracks() {
	tracks := m.app.Tracks()
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{track: t}
	}
	m.trackList.SetItems(items)
	m.trackList.Title = fmt.Sprintf("Playlist %s (%d tracks)", m.app.PlaylistID(), len(tracks))
	m.trackList.ResetSelected()
}

func (m *Model) refreshRecords() {
	artists := make(map[int64]string)
	for _, t := range m.app.Tracks() {
		artists[t.ID] = t.ArtistNames()
	}

	records := m.app.Filtered()
	items := make([]list.Item, len(records))
	for i, r := range records {
		items[i] = recordItem{record: r, artists: artists[r.TrackID]}
	}
	m.recordList.SetItems(items)
	m.recordList.Title = fmt.Sprintf("Results (%d of %d)", len(records), len(m.app.Records()))
	m.recordList.ResetSelected()
}

func (m *Model) refreshFilters() {
	available := m.app.Available()
	filters := m.app.Filters()

	items := []list.Item{}
	add := func(category filterCategory, values, selected []string) {
		for _, v := range values {
			items = append(items, filterItem{category: category, value: v, selected: contains(selected, v)})
		}
	}
	add(categoryStyle, available.Styles, filters.Styles)
	add(categoryTag, available.Tags, filters.Tags)
	add(categoryLanguage, available.Languages, filters.Languages)

	m.filterList.SetItems(items)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func (m *Model) fetchPlaylist(input string) tea.Cmd {
	ctx, engine := m.ctx, m.engine
	return func() tea.Msg {
		playlist, err := engine.Fetch(ctx, input, nil)
		return playlistFetchedMsg(playlist, err)
	}
}

// startAnalysis begins a run and pumps its steps into stepChan until the stream ends.
func (m *Model) startAnalysis() tea.Cmd {
	runID, err := m.app.BeginAnalysis()
	if err != nil {
		m.err = err
		return nil
	}

	m.err = nil
	m.runID = runID
	m.stepChan = make(chan tasks.Step, 16)
	m.view = AnalyzeView

	ctx, tracks, ch := m.ctx, m.app.Tracks(), m.stepChan
	go func() {
		defer close(ch)
		for step := range m.engine.Stream(ctx, tracks) {
			select {
			case ch <- step:
			case <-ctx.Done():
				return
			}
		}
	}()

	return m.waitForStep()
}

func (m *Model) waitForStep() tea.Cmd {
	ch := m.stepChan
	return func() tea.Msg {
		if ch == nil {
			return analysisCompleteMsg()
		}
		step, ok := <-ch
		if !ok {
			return analysisCompleteMsg()
		}
		return stepMsg(step)
	}
}

func (m *Model) copyRecords() tea.Cmd {
	text := m.app.CopyText()
	count := len(m.app.Filtered())
	return func() tea.Msg {
		if count == 0 {
			return statusMsg("", errors.New("nothing to copy"))
		}
		if err := copyToClipboard(text); err != nil {
			return statusMsg("", fmt.Errorf("copy failed: %w", err))
		}
		return statusMsg(fmt.Sprintf("Copied %d tracks", count), nil)
	}
}

func (m *Model) openSong(trackID int64) tea.Cmd {
	url := shared.SongPageURL(trackID)
	return func() tea.Msg {
		if err := openBrowser(url); err != nil {
			return statusMsg("", err)
		}
		return statusMsg("Opened "+url, nil)
	}
}

func (m *Model) footer(keys ...key.Binding) string {
	var b strings.Builder
	if m.err != nil {
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(styles.ok.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.ShortHelpView(keys))
	return b.String()
}

func (m *Model) renderInput() string {
	title := styles.title.Render("Playlist Facets")
	fetchKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "fetch"))
	quitKey := key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit"))
	return fmt.Sprintf("%s\n%s\n\n%s", title, m.input.View(), m.footer(fetchKey, m.keys.back, quitKey))
}

func (m *Model) renderTrackList() string {
	return fmt.Sprintf("%s\n\n%s", m.trackList.View(), m.footer(m.keys.analyze, m.keys.playlist, m.keys.quit))
}

func (m *Model) renderAnalyze() string {
	title := styles.title.Render("Analyzing Tracks")
	p := m.app.Progress()

	label := "Starting..."
	if p.CurrentLabel != "" {
		label = fmt.Sprintf("(%d/%d) %s", p.Current, p.Total, p.CurrentLabel)
	}
	return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, m.bar.ViewAs(p.Percent()/100), label, m.footer(m.keys.quit))
}

func (m *Model) renderResult() string {
	var chips []string
	filters := m.app.Filters()
	for _, v := range filters.Styles {
		chips = append(chips, styles.chip.Render(v))
	}
	for _, v := range filters.Tags {
		chips = append(chips, styles.chip.Render(v))
	}
	for _, v := range filters.Languages {
		chips = append(chips, styles.chip.Render(v))
	}
	if r := filters.BPMRange; r != nil {
		chips = append(chips, styles.chip.Render(fmt.Sprintf("%d-%d BPM", r.Min, r.Max)))
	}

	header := ""
	if len(chips) > 0 {
		header = strings.Join(chips, " ") + "\n\n"
	}
	return fmt.Sprintf("%s%s\n\n%s", header, m.recordList.View(),
		m.footer(m.keys.filter, m.keys.copy, m.keys.open, m.keys.reset, m.keys.playlist, m.keys.quit))
}

func (m *Model) renderFilters() string {
	bpm := "BPM: none"
	if r := m.app.BPMDisplay(); r != nil {
		bpm = fmt.Sprintf("BPM: %d-%d", r.Min, r.Max)
		if m.app.Filters().BPMRange == nil {
			bpm = styles.help.Render(bpm + " (available)")
		}
	}

	body := m.filterList.View()
	if len(m.filterList.Items()) == 0 {
		body = styles.warn.Render("No facets available")
	}
	if m.editingBPM {
		bpm = fmt.Sprintf("BPM: %s", m.bpmInput.View())
	}
	return fmt.Sprintf("%s\n%s\n\n%s", body, bpm, m.footer(m.keys.toggle, m.keys.bpm, m.keys.reset, m.keys.back))
}
