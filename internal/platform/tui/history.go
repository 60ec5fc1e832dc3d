package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Jean-Jawed/Patternia/internal/storage"
)

const (
	historyWideMin   = 80 // below this the level list is replaced by a "< level >" line
	historyListWidth = 26
	historyLimit     = 100
)

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C8A96E")).MarginBottom(1)
	boardFrameStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	boardPickStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C8A96E"))
	boardEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(2, 4)
)

// HistoryKeyMap holds the run history board bindings.
type HistoryKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Next key.Binding
	Prev key.Binding
	Back key.Binding
	Quit key.Binding
}

func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Up, k.Down, k.Back}
}

func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Prev, k.Next}, {k.Up, k.Down}, {k.Back, k.Quit}}
}

func defaultHistoryKeys() HistoryKeyMap {
	return HistoryKeyMap{
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll")),
		Next: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/→", "next level")),
		Prev: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("←", "prev level")),
		Back: key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// HistoryModel browses the recorded clears level by level.
type HistoryModel struct {
	items    []MenuItem
	sel      int
	store    *storage.Store
	tickRate int

	clears []storage.ClearEntry
	stats  *storage.LevelStats

	table table.Model
	help  help.Model
	keys  HistoryKeyMap

	width, height int
	quitting      bool
	back          bool
}

// NewHistoryModel opens the board on startID, or on the first level when
// startID is not in items.
func NewHistoryModel(items []MenuItem, store *storage.Store, tickRate, startID, width, height int) HistoryModel {
	if tickRate <= 0 {
		tickRate = 60
	}
	m := HistoryModel{
		items:    items,
		store:    store,
		tickRate: tickRate,
		help:     help.New(),
		keys:     defaultHistoryKeys(),
		width:    width,
		height:   height,
	}
	for i, it := range items {
		if it.LevelID == startID {
			m.sel = i
		}
	}
	m.table = newClearTable(height)
	m.selectLevel(m.sel)
	return m
}

func newClearTable(height int) table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Deaths", Width: 8},
			{Title: "Steps", Width: 7},
			{Title: "Time", Width: 8},
			{Title: "Date", Width: 14},
		}),
		table.WithFocused(true),
		table.WithHeight(max(3, height-10)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#15161A")).
		Background(lipgloss.Color("#C8A96E")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// selectLevel shows the history of items[i]. A store error shows as an
// empty history.
func (m *HistoryModel) selectLevel(i int) {
	m.clears, m.stats = nil, nil
	if i >= 0 && i < len(m.items) && m.store != nil {
		m.sel = i
		id := m.items[i].LevelID
		if clears, err := m.store.BestClears(id, historyLimit); err == nil {
			m.clears = clears
		}
		if stats, err := m.store.LevelStats(id); err == nil && stats.Clears > 0 {
			m.stats = stats
		}
	}
	m.table.SetRows(ClearRows(m.clears, m.tickRate))
	m.table.GotoTop()
}

// ClearRows formats clears as table rows, best first.
func ClearRows(clears []storage.ClearEntry, tickRate int) []table.Row {
	if tickRate <= 0 {
		tickRate = 60
	}
	rows := make([]table.Row, len(clears))
	for i, c := range clears {
		elapsed := time.Duration(c.Ticks) * time.Second / time.Duration(tickRate)
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprint(c.Deaths),
			fmt.Sprint(c.Steps),
			fmt.Sprintf("%.1fs", elapsed.Seconds()),
			c.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	return rows
}

func (m HistoryModel) Init() tea.Cmd { return nil }

func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		n := len(m.items)
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.back = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next) && n > 0:
			m.selectLevel((m.sel + 1) % n)
			return m, nil
		case key.Matches(msg, m.keys.Prev) && n > 0:
			m.selectLevel((m.sel - 1 + n) % n)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table = newClearTable(m.height)
		m.selectLevel(m.sel)
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m HistoryModel) View() string {
	if m.quitting || m.back {
		return ""
	}

	title := "RUN HISTORY"
	if len(m.items) > 0 {
		it := m.items[m.sel]
		title = fmt.Sprintf("RUN HISTORY - %d %s", it.LevelID, it.Title)
	}

	var b strings.Builder
	b.WriteString(boardTitleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	panel := boardFrameStyle.Render(m.clearsPanel())
	if m.width >= historyWideMin {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boardFrameStyle.Render(m.levelList()), "  ", panel))
	} else {
		if len(m.items) > 0 {
			it := m.items[m.sel]
			b.WriteString(centerText(fmt.Sprintf("< %d %s >", it.LevelID, it.Title), m.width))
			b.WriteString("\n\n")
		}
		b.WriteString(centerText(panel, m.width))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// levelList marks cleared levels and the selection.
func (m HistoryModel) levelList() string {
	inner := historyListWidth - 4
	lines := []string{"Levels", strings.Repeat("─", inner)}
	for i, it := range m.items {
		mark := " "
		if it.Stats != nil && it.Stats.Clears > 0 {
			mark = "✓"
		}
		name := []rune(fmt.Sprintf("%2d %s", it.LevelID, it.Title))
		if len(name) > inner-4 {
			name = append(name[:inner-5], '…')
		}
		line := fmt.Sprintf("%s %s", mark, string(name))
		if i == m.sel {
			line = boardPickStyle.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return lipgloss.NewStyle().Width(inner).Render(strings.Join(lines, "\n"))
}

// clearsPanel is the clear table with a summary line, or a placeholder.
func (m HistoryModel) clearsPanel() string {
	if len(m.clears) == 0 {
		return boardEmptyStyle.Render("No clears recorded yet.\nReach the exit to leave a mark.")
	}
	view := m.table.View()
	if m.stats != nil {
		view += "\n" + menuDimStyle.Render(fmt.Sprintf("cleared %d times, best %d deaths in %d steps",
			m.stats.Clears, m.stats.BestDeaths, m.stats.BestSteps))
	}
	return view
}

// BackToMenu reports whether the board was closed with Back.
func (m HistoryModel) BackToMenu() bool { return m.back }

// IsQuitting reports whether the player asked to quit.
func (m HistoryModel) IsQuitting() bool { return m.quitting }

// RunHistory shows the board full screen.
func RunHistory(items []MenuItem, store *storage.Store, tickRate, startID, width, height int) error {
	_, err := tea.NewProgram(
		NewHistoryModel(items, store, tickRate, startID, width, height),
		tea.WithAltScreen(),
	).Run()
	return err
}
