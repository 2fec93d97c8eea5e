package feed

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/postpad/app"
)

// Update handles messages for the feed view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeInputs()
		m.ensureCursorVisible()
		return m, nil

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StateMsg:
		return m.applyState(msg.State)

	case editorFinishedMsg:
		return m.handleEditorFinished(msg)

	case tea.KeyMsg:
		if m.IsEditing() {
			return m.handleEditingKey(msg)
		}
		if m.showDetail {
			return m.handleDetailKey(msg)
		}
		return m.handleListKey(msg)
	}

	if m.IsEditing() {
		return m.forwardToInput(msg)
	}
	return m, nil
}

// applyState adopts a new snapshot and keeps the text fields in step with
// the selected post.
func (m Model) applyState(st app.State) (Model, tea.Cmd) {
	prev := m.state
	m.state = st

	if m.cursor >= len(st.Posts) {
		m.cursor = max(len(st.Posts)-1, 0)
	}
	m.ensureCursorVisible()

	if st.Selected == nil {
		m.showDetail = false
	}

	selectionChanged := (prev.Selected == nil) != (st.Selected == nil) ||
		(prev.Selected != nil && st.Selected != nil && prev.Selected.ID != st.Selected.ID)
	if st.Selected != nil && (selectionChanged || !st.Editing) {
		if m.titleInput.Value() != st.Selected.Title {
			m.titleInput.SetValue(st.Selected.Title)
		}
		if m.bodyInput.Value() != st.Selected.Body {
			m.bodyInput.SetValue(st.Selected.Body)
		}
	}

	var cmd tea.Cmd
	switch {
	case st.Editing && !prev.Editing:
		m.focus = titleField
		cmd = m.focusInput()
	case !st.Editing && prev.Editing:
		m.titleInput.Blur()
		m.bodyInput.Blur()
	}

	if m.awaitingSave && !st.Saving {
		m.awaitingSave = false
		if st.LastErr != nil {
			m.setError("Save failed: " + st.LastErr.Error())
		} else if st.Selected != nil {
			m.setStatus(fmt.Sprintf("Post #%d saved.", st.Selected.ID))
		}
	} else if st.LastErr != nil && st.LastErr != prev.LastErr {
		m.setError("Error: " + st.LastErr.Error())
	} else if prev.Loading && !st.Loading && st.LastErr == nil {
		m.setStatus(fmt.Sprintf("Loaded %d posts.", len(st.Posts)))
	}

	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.ensureCursorVisible()
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.state.Posts)-1 {
			m.cursor++
		}
		m.ensureCursorVisible()
	case key.Matches(msg, m.keys.Select):
		if len(m.state.Posts) == 0 {
			break
		}
		m.intents.SelectPost(m.state.Posts[m.cursor])
		m.showDetail = true
		m.status = ""
	case key.Matches(msg, m.keys.Reload):
		m.intents.Reload()
		m.setStatus("Reloading...")
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.showDetail = false
	case key.Matches(msg, m.keys.Edit):
		m.intents.ToggleEditing()
	case key.Matches(msg, m.keys.Save):
		return m.save()
	case key.Matches(msg, m.keys.Reload):
		m.intents.Reload()
		m.setStatus("Reloading...")
	}
	return m, nil
}

func (m Model) handleEditingKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	// The server copy replaces the fields once the save lands.
	if m.awaitingSave || m.state.Saving {
		m.setStatus("Saving... editing resumes when the server answers.")
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Save):
		return m.save()
	case key.Matches(msg, m.keys.Back):
		m.intents.ToggleEditing()
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		if m.focus == titleField {
			m.focus = bodyField
		} else {
			m.focus = titleField
		}
		cmd := m.focusInput()
		return m, cmd
	case key.Matches(msg, m.keys.External):
		return m.launchEditor()
	}
	return m.forwardToInput(msg)
}

func (m Model) save() (Model, tea.Cmd) {
	if m.state.Saving {
		return m, nil
	}
	m.intents.SavePost()
	m.awaitingSave = true
	m.setStatus("Saving...")
	return m, nil
}

// forwardToInput lets the focused field handle msg and reports any value
// change to the state holder.
func (m Model) forwardToInput(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case titleField:
		before := m.titleInput.Value()
		m.titleInput, cmd = m.titleInput.Update(msg)
		if v := m.titleInput.Value(); v != before {
			m.intents.UpdateTitle(v)
		}
	case bodyField:
		before := m.bodyInput.Value()
		m.bodyInput, cmd = m.bodyInput.Update(msg)
		if v := m.bodyInput.Value(); v != before {
			m.intents.UpdateBody(v)
		}
	}
	return m, cmd
}

func (m *Model) focusInput() tea.Cmd {
	if m.focus == titleField {
		m.bodyInput.Blur()
		return m.titleInput.Focus()
	}
	m.titleInput.Blur()
	return m.bodyInput.Focus()
}

// launchEditor uses tea.ExecProcess so Bubble Tea suspends raw terminal
// mode while the editor runs.
func (m Model) launchEditor() (Model, tea.Cmd) {
	if m.editor == nil {
		return m, nil
	}
	cmd, tmpPath, err := m.editor.Cmd(m.bodyInput.Value())
	if err != nil {
		m.setError("Editor: " + err.Error())
		return m, nil
	}
	return m, tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{tmpPath: tmpPath, err: err}
	})
}

func (m Model) handleEditorFinished(msg editorFinishedMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		_ = os.Remove(msg.tmpPath)
		m.setError("Editor: " + msg.err.Error())
		return m, nil
	}
	body, err := m.editor.ReadContent(msg.tmpPath)
	if err != nil {
		m.setError("Editor: " + err.Error())
		return m, nil
	}
	if !m.IsEditing() || body == m.bodyInput.Value() {
		return m, nil
	}
	m.bodyInput.SetValue(body)
	m.intents.UpdateBody(body)
	m.focus = bodyField
	cmd := m.focusInput()
	return m, cmd
}

func (m *Model) resizeInputs() {
	w := max(m.width-8, 20)
	m.titleInput.Width = w
	m.bodyInput.SetWidth(w)
	m.bodyInput.SetHeight(max(m.height-14, 4))
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusIsErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusIsErr = true
}
