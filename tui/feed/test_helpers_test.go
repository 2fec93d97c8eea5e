package feed

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/postpad/app"
	"github.com/CrestNiraj12/postpad/domain"
)

type recordingIntents struct {
	reloads  int
	selected []domain.Post
	toggles  int
	titles   []string
	bodies   []string
	saves    int
}

func (r *recordingIntents) Reload()                  { r.reloads++ }
func (r *recordingIntents) SelectPost(p domain.Post) { r.selected = append(r.selected, p) }
func (r *recordingIntents) ToggleEditing()           { r.toggles++ }
func (r *recordingIntents) UpdateTitle(t string)     { r.titles = append(r.titles, t) }
func (r *recordingIntents) UpdateBody(b string)      { r.bodies = append(r.bodies, b) }
func (r *recordingIntents) SavePost()                { r.saves++ }

func samplePosts() []domain.Post {
	return []domain.Post{
		{ID: 1, Title: "A", Body: "x"},
		{ID: 2, Title: "B", Body: "y"},
		{ID: 3, Title: "C", Body: "z"},
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

func selected(p domain.Post) *domain.Post {
	return &p
}

func loaded(posts []domain.Post) StateMsg {
	return StateMsg{State: app.State{Posts: posts}}
}
