package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// EnvEditor prepares an external editor command using $VISUAL or $EDITOR
// (fallback: "vi"). It does NOT run the editor itself; callers hand the
// returned *exec.Cmd to tea.ExecProcess so Bubble Tea releases the terminal.
type EnvEditor struct{}

// NewEnvEditor creates an EnvEditor.
func NewEnvEditor() *EnvEditor {
	return &EnvEditor{}
}

const marker = "# ---- postpad: everything above this line is ignored ----"

const header = `# postpad: edit the post body below the marker line.
# Save and quit to keep the change. Quitting without changes keeps the old body.
# The post is not sent until you save it in postpad (ctrl+s).
` + marker + "\n"

// Cmd writes body to a temp file and prepares the editor command for it.
func (e *EnvEditor) Cmd(body string) (*exec.Cmd, string, error) {
	editorCmd := os.Getenv("VISUAL")
	if editorCmd == "" {
		editorCmd = os.Getenv("EDITOR")
	}
	if editorCmd == "" {
		editorCmd = "vi"
	}

	tmpFile, err := os.CreateTemp("", "postpad-*.txt")
	if err != nil {
		return nil, "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer tmpFile.Close()

	if _, err := tmpFile.WriteString(header + body); err != nil {
		os.Remove(tmpPath)
		return nil, "", fmt.Errorf("writing to temp file: %w", err)
	}

	// Editors configured with flags, e.g. "code --wait", are split on spaces.
	fields := strings.Fields(editorCmd)
	args := append(fields[1:], tmpPath)
	return exec.Command(fields[0], args...), tmpPath, nil
}

// ReadContent reads the temp file, drops everything up to the marker line,
// and removes the file. Trailing whitespace is trimmed.
func (e *EnvEditor) ReadContent(path string) (string, error) {
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading temp file: %w", err)
	}

	content := string(data)
	if idx := strings.Index(content, marker); idx != -1 {
		content = strings.TrimPrefix(content[idx+len(marker):], "\n")
	}
	return strings.TrimRight(content, " \t\r\n"), nil
}
