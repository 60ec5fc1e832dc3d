// Package tui provides the Bubble Tea integration for the game.
// It handles the terminal UI loop, input mapping, the level menu and
// the SSH server.
package tui

import (
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Jean-Jawed/Patternia/internal/levels"
)

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// LevelChangedMsg carries the path of a level file that changed on disk.
type LevelChangedMsg string

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// watchCmd waits for the next level file change. It returns nil when
// there is nothing to watch.
func watchCmd(w *levels.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		p, ok := <-w.Changes()
		if !ok {
			return nil
		}
		return LevelChangedMsg(filepath.Clean(p))
	}
}
