package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/Jean-Jawed/Patternia/internal/core"
	"github.com/Jean-Jawed/Patternia/internal/levels"
	"github.com/Jean-Jawed/Patternia/internal/storage"
)

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C8A96E"))
	menuCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A8C4B0"))
	menuDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// MenuItem represents a selectable level in the menu.
type MenuItem struct {
	LevelID int
	Title   string
	Stats   *storage.LevelStats // nil when never cleared
}

// Label is the item's line in the menu.
func (it MenuItem) Label() string {
	line := fmt.Sprintf("%2d  %s", it.LevelID, it.Title)
	if it.Stats != nil && it.Stats.Clears > 0 {
		line += fmt.Sprintf("  ✓ best %d deaths", it.Stats.BestDeaths)
	}
	return line
}

// MenuModel is the Bubble Tea model for the level picker menu.
type MenuModel struct {
	items       []MenuItem
	cursor      int
	width       int
	height      int
	quitting    bool
	selected    *MenuItem // Set when user selects a level
	openHistory bool      // tab opens the run history
}

// MenuItems lists the loader's levels in play order with their history.
func MenuItems(loader *levels.Loader, store *storage.Store, logger *log.Logger) ([]MenuItem, error) {
	all, err := loader.LoadAll()
	if err != nil {
		return nil, err
	}

	var stats map[int]*storage.LevelStats
	if store != nil {
		stats, err = store.AllLevelStats()
		if err != nil && logger != nil {
			logger.Warn("could not read run history", "err", err)
		}
	}

	items := make([]MenuItem, 0, len(all))
	for _, l := range all {
		items = append(items, MenuItem{
			LevelID: l.ID,
			Title:   l.Title,
			Stats:   stats[l.ID],
		})
	}
	return items, nil
}

// NewMenuModel creates a new menu model.
func NewMenuModel(items []MenuItem, cfg core.RuntimeConfig) MenuModel {
	return MenuModel{
		items:  items,
		width:  cfg.ScreenW,
		height: cfg.ScreenH,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		m.cursor = core.Clamp(m.cursor-1, 0, max(0, len(m.items)-1))

	case MenuActionDown:
		m.cursor = core.Clamp(m.cursor+1, 0, max(0, len(m.items)-1))

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit // Exit menu to start the level
		}

	case MenuActionHistory:
		m.openHistory = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("P A T T E R N I A"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a level", m.width))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText(menuDimStyle.Render("No levels found."), m.width))
		b.WriteString("\n")
	}

	// Pad every line to the widest label so the list stays aligned when centered.
	labelW := 0
	for _, item := range m.items {
		labelW = max(labelW, lipgloss.Width(item.Label()))
	}
	for i, item := range m.items {
		line := item.Label()
		line += strings.Repeat(" ", labelW-lipgloss.Width(line))
		if i == m.cursor {
			line = menuCursorStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  Tab: History  |  Q: Quit"
	b.WriteString(centerText(menuDimStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsHistory returns true if user requested the history board.
func (m MenuModel) WantsHistory() bool {
	return m.openHistory
}

// centerText centers text within given width. Styled text is measured
// by its printed width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
