package feed

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/postpad/app"
	"github.com/CrestNiraj12/postpad/domain"
	"github.com/CrestNiraj12/postpad/infra/editor"
	"github.com/CrestNiraj12/postpad/tui/common"
)

// Intents are the user actions the feed forwards to the state holder.
// *app.Presenter implements it.
type Intents interface {
	Reload()
	SelectPost(post domain.Post)
	ToggleEditing()
	UpdateTitle(title string)
	UpdateBody(body string)
	SavePost()
}

// --- Messages ---

// StateMsg carries a fresh snapshot from the store.
type StateMsg struct {
	State app.State
}

// editorFinishedMsg is sent after the external editor exits.
type editorFinishedMsg struct {
	tmpPath string
	err     error
}

type field int

const (
	titleField field = iota
	bodyField
)

// --- Model ---

// Model renders the post list and the detail pane of the selected post.
// It holds no post data of its own beyond the last snapshot.
type Model struct {
	intents Intents
	editor  *editor.EnvEditor
	keys    common.KeyMap
	spinner spinner.Model

	state      app.State
	cursor     int
	startIndex int
	showDetail bool

	focus      field
	titleInput textinput.Model
	bodyInput  textarea.Model

	awaitingSave bool   // Set when the user asked to save, cleared by the result
	status       string // Transient status line
	statusIsErr  bool

	width  int
	height int
}

// New creates a feed model with injected dependencies. ed may be nil,
// which disables the $EDITOR shortcut.
func New(intents Intents, ed *editor.EnvEditor) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "Title"
	ti.CharLimit = 0

	ta := textarea.New()
	ta.Placeholder = "Body"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(72)
	ta.SetHeight(6)

	return Model{
		intents:    intents,
		editor:     ed,
		keys:       common.DefaultKeyMap(),
		spinner:    s,
		titleInput: ti,
		bodyInput:  ta,
		width:      80,
		height:     24,
	}
}

// Init starts the spinner. The initial fetch is triggered by the root model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// IsEditing reports whether keystrokes are going into a text field.
func (m Model) IsEditing() bool {
	return m.showDetail && m.state.Editing && m.state.Selected != nil
}

// Cursor returns the index of the highlighted post.
func (m Model) Cursor() int {
	return m.cursor
}

// Status returns the transient status line.
func (m Model) Status() string {
	return m.status
}
