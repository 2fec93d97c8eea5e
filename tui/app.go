package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/postpad/app"
	"github.com/CrestNiraj12/postpad/infra/editor"
	"github.com/CrestNiraj12/postpad/tui/common"
	"github.com/CrestNiraj12/postpad/tui/feed"
)

// Presenter is the state holder the TUI drives.
type Presenter interface {
	feed.Intents
	Start()
	Store() *app.Store
}

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Presenter Presenter
	Editor    *editor.EnvEditor
}

// App is the root Bubble Tea model. It bridges store notifications into
// Bubble Tea messages and owns global key bindings.
type App struct {
	deps        Deps
	feed        feed.Model
	keys        common.KeyMap
	updates     chan app.State
	unsubscribe func()
}

// NewApp creates the root model and subscribes it to the store.
func NewApp(deps Deps) App {
	updates := make(chan app.State, 1)
	unsubscribe := deps.Presenter.Store().Subscribe(func(st app.State) {
		// Snapshots are complete, so only the newest one matters.
		for {
			select {
			case updates <- st:
				return
			default:
				select {
				case <-updates:
				default:
				}
			}
		}
	})

	return App{
		deps:        deps,
		feed:        feed.New(deps.Presenter, deps.Editor),
		keys:        common.DefaultKeyMap(),
		updates:     updates,
		unsubscribe: unsubscribe,
	}
}

// Init starts the feed, triggers the initial fetch and begins listening
// for state changes.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.feed.Init(),
		a.start(),
		waitForState(a.updates),
	)
}

func (a App) start() tea.Cmd {
	presenter := a.deps.Presenter
	return func() tea.Msg {
		presenter.Start()
		return nil
	}
}

func waitForState(updates <-chan app.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-updates
		if !ok {
			return nil
		}
		return feed.StateMsg{State: st}
	}
}

// Close detaches the app from the store.
func (a App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

// Update handles global keys and delegates everything else to the feed.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a, tea.Quit
		}
		// q is text while a field has focus.
		if key.Matches(msg, a.keys.Quit) && !a.feed.IsEditing() {
			return a, tea.Quit
		}

	case feed.StateMsg:
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(msg)
		return a, tea.Batch(cmd, waitForState(a.updates))
	}

	var cmd tea.Cmd
	a.feed, cmd = a.feed.Update(msg)
	return a, cmd
}

// View renders the feed.
func (a App) View() string {
	return a.feed.View()
}
