package feed

import (
	"fmt"
	"strings"

	"github.com/CrestNiraj12/postpad/domain"
	"github.com/CrestNiraj12/postpad/tui/common"
)

// Reserved height: header (~3), status bar (~2), hints (~2).
const reservedLines = 7

// Each card is 4 lines (2 content + 2 border).
const cardLines = 4

// View renders the feed as a string.
func (m Model) View() string {
	var b strings.Builder

	title := common.AppTitleStyle.Render("postpad")
	tagline := common.TaglineStyle.Render(m.tagline())
	b.WriteString(title + tagline + "\n\n")

	switch {
	case m.showDetail && m.state.Selected != nil:
		b.WriteString(m.renderDetail(*m.state.Selected))
	case m.state.Loading && len(m.state.Posts) == 0:
		b.WriteString(fmt.Sprintf("  %s Loading posts...\n", m.spinner.View()))
	case len(m.state.Posts) == 0 && m.state.LastErr != nil:
		b.WriteString(common.ErrorStyle.Render(fmt.Sprintf("  Error: %v", m.state.LastErr)))
		b.WriteString("\n\n  Press r to retry.\n")
	case len(m.state.Posts) == 0:
		b.WriteString("  No posts.\n")
	default:
		b.WriteString(m.renderList())
	}

	if m.status != "" {
		style := common.StatusBarStyle
		if m.statusIsErr {
			style = style.Foreground(common.ErrorStyle.GetForeground())
		}
		b.WriteString(style.Render("  " + m.status))
		b.WriteString("\n")
	}
	b.WriteString(common.StatusBarStyle.Render("  " + m.hints()))

	return b.String()
}

func (m Model) tagline() string {
	n := len(m.state.Posts)
	switch {
	case m.state.Saving:
		return "saving..."
	case m.state.Loading:
		return "loading..."
	case n == 1:
		return "1 post"
	default:
		return fmt.Sprintf("%d posts", n)
	}
}

func (m Model) renderList() string {
	var b strings.Builder
	end := min(m.startIndex+m.visibleCount(), len(m.state.Posts))
	cardWidth := max(m.width-4, 20)
	textWidth := cardWidth - 4

	for i := m.startIndex; i < end; i++ {
		post := m.state.Posts[i]
		head := common.PostIDStyle.Render(fmt.Sprintf("#%d ", post.ID)) +
			common.TitleStyle.Render(common.Truncate(cleanLine(post.Title), textWidth-len(fmt.Sprint(post.ID))-2))
		preview := common.ContentStyle.Render(common.Truncate(cleanLine(post.Body), textWidth))

		style := common.UnselectedStyle
		if i == m.cursor {
			style = common.SelectedStyle
		}
		b.WriteString(style.Width(cardWidth).Render(head + "\n" + preview))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderDetail(post domain.Post) string {
	var b strings.Builder
	b.WriteString(common.PostIDStyle.Render(fmt.Sprintf("Post #%d", post.ID)))
	if m.state.Saving {
		b.WriteString(" " + common.PendingStyle.Render("(saving...)"))
	}
	b.WriteString("\n\n")

	if m.IsEditing() {
		b.WriteString(common.LabelStyle.Render("Title") + "\n")
		b.WriteString(m.titleInput.View() + "\n\n")
		b.WriteString(common.LabelStyle.Render("Body") + "\n")
		b.WriteString(m.bodyInput.View())
		return common.EditingStyle.Width(max(m.width-4, 20)).Render(b.String()) + "\n"
	}

	b.WriteString(common.TitleStyle.Render(common.SanitizeForTerminal(post.Title)) + "\n\n")
	b.WriteString(common.ContentStyle.Render(common.SanitizeForTerminal(post.Body)))
	return common.DetailStyle.Width(max(m.width-4, 20)).Render(b.String()) + "\n"
}

func (m Model) hints() string {
	switch {
	case m.IsEditing():
		return "ctrl+s: save • tab: next field • ctrl+e: $EDITOR • esc: stop editing"
	case m.showDetail:
		return "e: edit • ctrl+s: save • esc: back • r: reload • q: quit"
	default:
		return "↑/↓: move • enter: open • r: reload • q: quit"
	}
}

func (m Model) visibleCount() int {
	return max((m.height-reservedLines)/cardLines, 1)
}

func (m *Model) ensureCursorVisible() {
	visible := m.visibleCount()
	if m.cursor < m.startIndex {
		m.startIndex = m.cursor
	}
	if m.cursor >= m.startIndex+visible {
		m.startIndex = m.cursor - visible + 1
	}
	if m.startIndex < 0 {
		m.startIndex = 0
	}
}

func cleanLine(s string) string {
	return common.OneLine(common.SanitizeForTerminal(s))
}
