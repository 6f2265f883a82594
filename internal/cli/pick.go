package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/Balthazzahr/scry-daemon/internal/config"
	"github.com/Balthazzahr/scry-daemon/internal/store"
)

// PickCmd interactively picks which Player.log to monitor
type PickCmd struct{}

// pickItem implements list.Item for the picker
type pickItem struct {
	path string
}

func (i pickItem) Title() string       { return i.path }
func (i pickItem) Description() string { return "" }
func (i pickItem) FilterValue() string { return i.path }

// pickModel is the bubbletea model for the picker
type pickModel struct {
	list     list.Model
	selected pickItem
	quitting bool
	canceled bool
}

func (m pickModel) Init() tea.Cmd {
	return nil
}

func (m pickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(pickItem); ok {
				m.selected = item
				m.quitting = true
				return m, tea.Quit
			}
		case "q", "esc", "ctrl+c":
			m.canceled = true
			m.quitting = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 2)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickModel) View() string {
	if m.quitting {
		return ""
	}
	return m.list.View()
}

// Run executes the pick command
func (c *PickCmd) Run(globals *Globals) error {
	found := config.DiscoverLogPaths()
	if len(found) == 0 {
		return fmt.Errorf("no Arena Player.log found in the known locations; pass --log-path instead")
	}

	path := found[0]
	if len(found) > 1 {
		var err error
		if path, err = pickLogPath(globals, found); err != nil {
			return err
		}
	}

	// Persist the choice alongside history so monitor picks it up.
	st := store.New(globals.Config.StateFile(), globals.Logger)
	state := st.Load()
	state.LogPath = path
	if err := st.Save(state); err != nil {
		return err
	}

	fmt.Fprintf(globals.Stdout, "Monitoring %s\n", path)
	return nil
}

// pickLogPath runs the interactive list picker over the given paths.
func pickLogPath(globals *Globals, paths []string) (string, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return "", fmt.Errorf("multiple Player.log files found; pass --log-path or run 'scryd pick' in a terminal")
	}

	items := make([]list.Item, 0, len(paths))
	for _, p := range paths {
		items = append(items, pickItem{path: p})
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	l := list.New(items, delegate, 0, 14)
	l.Title = "Select the Player.log to monitor"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	model := pickModel{list: l}
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return "", err
	}

	result, ok := final.(pickModel)
	if !ok || result.canceled || result.selected.path == "" {
		return "", fmt.Errorf("selection canceled")
	}
	return result.selected.path, nil
}
