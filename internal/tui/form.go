package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// form is a vertical stack of labelled inputs with one focused at a time.
type form struct {
	inputs []textinput.Model
	focus  int
}

func newForm(inputs ...textinput.Model) form {
	return form{inputs: inputs}
}

func newInput(placeholder string, secret bool) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = "> "
	in.CharLimit = 256
	in.Width = 40
	if secret {
		in.EchoMode = echoMode(true)
		in.EchoCharacter = '•'
	}
	return in
}

func echoMode(hidden bool) textinput.EchoMode {
	if hidden {
		return textinput.EchoPassword
	}
	return textinput.EchoNormal
}

func (f *form) focusFirst() tea.Cmd {
	f.focus = 0
	return f.refocus()
}

func (f *form) refocus() tea.Cmd {
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.focus {
			cmd = f.inputs[i].Focus()
			continue
		}
		f.inputs[i].Blur()
	}
	return cmd
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			f.focus = (f.focus + 1) % len(f.inputs)
			return f.refocus()
		case "shift+tab", "up":
			f.focus = (f.focus - 1 + len(f.inputs)) % len(f.inputs)
			return f.refocus()
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *form) value(i int) string {
	return f.inputs[i].Value()
}

func (f *form) view() string {
	var b strings.Builder
	for i, in := range f.inputs {
		b.WriteString(labelStyle.Render(in.Placeholder))
		b.WriteString("\n")
		b.WriteString(in.View())
		if i < len(f.inputs)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (f *form) resize(width int) {
	w := width - 6
	if w < 20 {
		w = 20
	}
	if w > 60 {
		w = 60
	}
	for i := range f.inputs {
		f.inputs[i].Width = w
	}
}
