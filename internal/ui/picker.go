package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/polytag/internal/errs"
	"github.com/gravitrone/polytag/internal/tag"
	"github.com/gravitrone/polytag/internal/tagger"
	"github.com/gravitrone/polytag/internal/ui/components"
)

// Orchestrator is the tag service the picker drives.
type Orchestrator interface {
	LoadAttached(ctx context.Context) ([]tag.Tag, error)
	Handle(ctx context.Context, ev tagger.Event) (tagger.Outcome, error)
	Attached() []tag.Tag
	ViewerLCID() string
	MinInputLength() int
	Faulted() bool
}

var _ Orchestrator = (*tagger.Service)(nil)

type attachedMsg struct {
	tags []tag.Tag
	err  error
}

type candidatesMsg struct {
	seq   int
	query string
	tags  []tag.Tag
	err   error
}

type addedMsg struct {
	name string
	tag  *tag.Tag
	err  error
}

type removedMsg struct {
	id  string
	ok  bool
	err error
}

type updatedMsg struct {
	id  string
	err error
}

type focus int

const (
	focusInput focus = iota
	focusChips
)

const candidatePageSize = 8

// Picker is the chip-input control: attached tags as chips, a search box and
// the ranked candidates for the current text.
type Picker struct {
	ctx context.Context
	svc Orchestrator

	input   string
	editing string
	focus   focus

	chips      *components.List[tag.Tag]
	pending    []string
	candidates *components.List[tag.Tag]
	// browsing is set once the arrow keys reach the candidate list. Until
	// then Enter attaches the typed text unless a candidate has exactly
	// that name.
	browsing bool

	seq       int
	loading   bool
	searching bool
	status    string
	err       error

	width  int
	height int
}

// NewPicker builds the picker for one record.
func NewPicker(ctx context.Context, svc Orchestrator) Picker {
	return Picker{
		ctx:        ctx,
		svc:        svc,
		chips:      components.NewList[tag.Tag](64),
		candidates: components.NewList[tag.Tag](candidatePageSize),
		loading:    true,
	}
}

func (m Picker) Init() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		tags, err := svc.LoadAttached(ctx)
		return attachedMsg{tags: tags, err: err}
	}
}

func (m Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case attachedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.chips.SetItems(msg.tags)
		return m, nil

	case candidatesMsg:
		if msg.seq != m.seq || strings.TrimSpace(msg.query) != strings.TrimSpace(m.input) {
			return m, nil
		}
		m.searching = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.candidates.SetItems(msg.tags)
		return m, nil

	case addedMsg:
		m.pending = removeFirst(m.pending, msg.name)
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.syncChips()
		if msg.tag != nil {
			m.status = fmt.Sprintf("attached %s", components.SanitizeOneLine(msg.tag.Name))
		}
		return m, nil

	case removedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if !msg.ok {
			m.status = "tag was not removed"
			return m, nil
		}
		m.syncChips()
		m.status = "tag removed"
		return m, nil

	case updatedMsg:
		if msg.err != nil {
			m.err = msg.err
		}
		return m, nil

	case tea.KeyMsg:
		if isQuit(msg) {
			return m, tea.Quit
		}
		m.err = nil
		m.status = ""
		if m.focus == focusChips {
			return m.updateChips(msg)
		}
		return m.updateInput(msg)
	}
	return m, nil
}

func (m Picker) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isBack(msg):
		if m.editing != "" {
			m.editing = ""
			cmd := m.setInput("")
			return m, cmd
		}
		if m.input != "" {
			cmd := m.setInput("")
			return m, cmd
		}
		return m, tea.Quit
	case isClearLine(msg):
		cmd := m.setInput("")
		return m, cmd
	case isBackspace(msg):
		if m.input == "" {
			return m, nil
		}
		_, size := utf8.DecodeLastRuneInString(m.input)
		cmd := m.setInput(m.input[:len(m.input)-size])
		return m, cmd
	case isDown(msg):
		if m.candidates.Len() == 0 {
			return m, nil
		}
		if m.browsing {
			m.candidates.Down()
		}
		m.browsing = true
	case isUp(msg):
		if m.browsing && m.candidates.Cursor == 0 {
			m.browsing = false
		} else if m.browsing {
			m.candidates.Up()
		}
	case isFocusSwitch(msg):
		if m.editing == "" && m.chips.Len() > 0 {
			m.focus = focusChips
		}
	case isEnter(msg):
		if m.editing != "" {
			cmd := m.commitEdit()
			return m, cmd
		}
		cmd := m.add()
		return m, cmd
	default:
		if text, ok := typedText(msg); ok {
			if m.input == "" && strings.TrimSpace(text) == "" {
				return m, nil
			}
			cmd := m.setInput(m.input + text)
			return m, cmd
		}
	}
	return m, nil
}

func (m Picker) updateChips(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isBack(msg), isFocusSwitch(msg):
		m.focus = focusInput
	case isLeft(msg), isUp(msg):
		m.chips.Up()
	case isRight(msg), isDown(msg):
		m.chips.Down()
	case isRemoveChip(msg):
		chip, ok := m.chips.Selected()
		if !ok {
			return m, nil
		}
		cmd := m.emit(tagger.Removed{ID: chip.ID})
		return m, cmd
	case isEditChip(msg):
		chip, ok := m.chips.Selected()
		if !ok {
			return m, nil
		}
		m.editing = chip.ID
		m.focus = focusInput
		m.input = chip.Name
		m.seq++
		m.candidates.SetItems(nil)
		m.browsing = false
		m.searching = false
	}
	return m, nil
}

// setInput replaces the search text and starts a search for it. Results of
// earlier searches are dropped when they arrive.
func (m *Picker) setInput(text string) tea.Cmd {
	m.input = text
	m.seq++
	m.candidates.SetItems(nil)
	m.browsing = false
	m.searching = false
	if m.editing != "" {
		return nil
	}

	query := strings.TrimSpace(text)
	if utf8.RuneCountInString(query) < m.svc.MinInputLength() {
		return nil
	}
	m.searching = true
	seq, svc, ctx := m.seq, m.svc, m.ctx
	return func() tea.Msg {
		out, err := svc.Handle(ctx, tagger.InputChanged{Text: query})
		return candidatesMsg{seq: seq, query: query, tags: out.Candidates, err: err}
	}
}

// add attaches the chosen candidate, or the typed text by name.
func (m *Picker) add() tea.Cmd {
	ev := tagger.Added{Name: strings.TrimSpace(m.input)}
	if c, ok := m.chosen(); ok {
		ev = tagger.Added{Name: c.Name, ID: c.ID}
	}
	if ev.Name == "" && ev.ID == "" {
		return nil
	}
	m.pending = append(m.pending, ev.Name)
	cmd := m.emit(ev)
	m.setInput("")
	return cmd
}

// chosen is the candidate Enter would attach: the browsed row, or else the
// candidate named exactly as typed, ignoring case.
func (m Picker) chosen() (tag.Tag, bool) {
	if m.browsing {
		return m.candidates.Selected()
	}
	text := strings.TrimSpace(m.input)
	for _, c := range m.candidates.Items {
		if strings.EqualFold(c.Name, text) {
			return c, true
		}
	}
	return tag.Tag{}, false
}

func (m *Picker) commitEdit() tea.Cmd {
	ev := tagger.Updated{ID: m.editing, Name: strings.TrimSpace(m.input)}
	m.editing = ""
	m.setInput("")
	return m.emit(ev)
}

func (m *Picker) emit(ev tagger.Event) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		out, err := svc.Handle(ctx, ev)
		switch e := ev.(type) {
		case tagger.Added:
			return addedMsg{name: e.Name, tag: out.Tag, err: err}
		case tagger.Removed:
			return removedMsg{id: e.ID, ok: out.Removed, err: err}
		case tagger.Updated:
			return updatedMsg{id: e.ID, err: err}
		}
		return nil
	}
}

func (m *Picker) syncChips() {
	cursor := m.chips.Cursor
	m.chips.SetItems(m.svc.Attached())
	for cursor > 0 && cursor >= m.chips.Len() {
		cursor--
	}
	m.chips.Cursor = cursor
	if m.chips.Len() == 0 {
		m.focus = focusInput
	}
}

func (m Picker) View() string {
	var b strings.Builder

	b.WriteString(m.renderChips())
	b.WriteString("\n\n")

	prompt := "> "
	if m.editing != "" {
		prompt = "rename > "
	}
	b.WriteString(promptStyle.Render(prompt) + components.SanitizeOneLine(m.input))
	if m.focus == focusInput {
		b.WriteString(caretStyle.Render("█"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderCandidates())

	if m.status != "" {
		b.WriteString("\n\n")
		b.WriteString(statusStyle.Render(m.status))
	}

	out := components.Frame("Tags", tag.LocaleName(m.svc.ViewerLCID()), b.String(), m.width)
	if m.err != nil {
		out += "\n" + components.ErrorNote(describeError(m.err), m.width)
	}
	out += "\n" + components.Footer(m.hints(), components.FrameWidth(m.width))
	return lipgloss.NewStyle().PaddingLeft(1).Render(out)
}

func (m Picker) renderChips() string {
	if m.loading {
		return noteStyle.Render("Loading attached tags...")
	}
	chips := make([]components.Chip, 0, m.chips.Len()+len(m.pending))
	for _, t := range m.chips.Items {
		chips = append(chips, components.Chip{Label: t.Name})
	}
	for _, name := range m.pending {
		chips = append(chips, components.Chip{Label: name, Pending: true})
	}
	if len(chips) == 0 {
		return noteStyle.Render("No tags attached.")
	}
	active := -1
	if m.focus == focusChips {
		active = m.chips.Cursor
	}
	return components.Chips(chips, active, components.InnerWidth(m.width))
}

func (m Picker) renderCandidates() string {
	query := strings.TrimSpace(m.input)
	switch {
	case m.editing != "":
		return noteStyle.Render("Enter to rename, esc to cancel.")
	case m.svc.Faulted():
		return pausedStyle.Render("Search paused after an error. Try again shortly.")
	case utf8.RuneCountInString(query) < m.svc.MinInputLength():
		return noteStyle.Render(fmt.Sprintf("Type at least %d characters to search.", m.svc.MinInputLength()))
	case m.searching:
		return noteStyle.Render("Searching...")
	case m.candidates.Len() == 0:
		return noteStyle.Render(fmt.Sprintf("No matches. Enter creates %q.", components.SanitizeOneLine(query)))
	}

	labelWidth := components.InnerWidth(m.width) - 4
	visible := m.candidates.Visible()
	lines := make([]string, 0, len(visible)+2)
	for i, t := range visible {
		label := components.SanitizeOneLine(t.Name)
		if labelWidth > 0 {
			label = components.Clamp(label, labelWidth-len(t.LCID)-3)
		}
		locale := ""
		if t.LCID != "" {
			locale = " " + localeBadgeStyle.Render(t.LCID)
		}
		if m.browsing && m.candidates.IsSelected(m.candidates.RelToAbs(i)) {
			lines = append(lines, cursorRowStyle.Render("> "+label)+locale)
		} else {
			lines = append(lines, rowStyle.Render("  "+label)+locale)
		}
	}

	if !m.browsing {
		lines = append(lines, "")
		if c, ok := m.chosen(); ok {
			lines = append(lines, enterStyle.Render(fmt.Sprintf("Enter attaches %q, ↓ to pick another.", components.SanitizeOneLine(c.Name))))
		} else {
			lines = append(lines, enterStyle.Render(fmt.Sprintf("Enter creates %q, ↓ to pick a match.", components.SanitizeOneLine(query))))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Picker) hints() []components.KeyHint {
	if m.focus == focusChips {
		return []components.KeyHint{
			{Key: "←/→", Action: "Move"},
			{Key: "d", Action: "Remove"},
			{Key: "e", Action: "Rename"},
			{Key: "tab", Action: "Search"},
		}
	}
	return []components.KeyHint{
		{Key: "↑/↓", Action: "Pick"},
		{Key: "enter", Action: "Attach"},
		{Key: "tab", Action: "Tags"},
		{Key: "esc", Action: "Clear"},
		{Key: "ctrl+c", Action: "Quit"},
	}
}

func describeError(err error) string {
	switch {
	case errors.Is(err, errs.ErrSuspended):
		return "Paused after a recent failure. Try again in a few seconds."
	case errors.Is(err, errs.ErrNotImplemented):
		return "Renaming tags is not supported yet."
	}
	return components.SanitizeText(err.Error())
}

func removeFirst(items []string, name string) []string {
	for i, it := range items {
		if it == name {
			return append(items[:i:i], items[i+1:]...)
		}
	}
	return items
}
