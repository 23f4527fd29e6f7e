package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type formKind int

const (
	formLogin formKind = iota
	formSales
	formNewUser
	formEditUser
	formProfile
	formSearch
	formTicket
	formReply
	formChat
	formConfirmDelete
)

type field struct {
	key   string
	label string
	input textinput.Model
}

// form is a vertical list of text inputs. Enter on the last field submits;
// esc cancels.
type form struct {
	kind   formKind
	title  string
	fields []field
	focus  int
	// target carries the id of the record the form edits, if any.
	target string
}

type formResult int

const (
	formPending formResult = iota
	formSubmitted
	formCanceled
)

func newField(key, label, value string, secret bool) field {
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 128
	input.Cursor.SetMode(cursor.CursorStatic)
	input.SetValue(value)
	if secret {
		input.EchoMode = textinput.EchoPassword
		input.EchoCharacter = '•'
	}
	return field{key: key, label: label, input: input}
}

func newForm(kind formKind, title string, fields ...field) *form {
	f := &form{kind: kind, title: title, fields: fields}
	f.setFocus(0)
	return f
}

func (f *form) setFocus(i int) {
	for j := range f.fields {
		f.fields[j].input.Blur()
	}
	f.focus = i
	f.fields[i].input.Focus()
}

func (f *form) value(key string) string {
	for _, fl := range f.fields {
		if fl.key == key {
			return strings.TrimSpace(fl.input.Value())
		}
	}
	return ""
}

func (f *form) update(msg tea.KeyMsg, keys KeyMap) (formResult, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		return formCanceled, nil
	case key.Matches(msg, keys.Submit):
		if f.focus == len(f.fields)-1 {
			return formSubmitted, nil
		}
		f.setFocus(f.focus + 1)
		return formPending, nil
	case key.Matches(msg, keys.NextField):
		f.setFocus((f.focus + 1) % len(f.fields))
		return formPending, nil
	case key.Matches(msg, keys.PrevField):
		f.setFocus((f.focus - 1 + len(f.fields)) % len(f.fields))
		return formPending, nil
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return formPending, cmd
}

func (f *form) view(st styles) string {
	var b strings.Builder
	if f.title != "" {
		b.WriteString(st.Title.Render(f.title))
		b.WriteString("\n\n")
	}
	for i, fl := range f.fields {
		label := st.Label.Render(fl.label)
		if i == f.focus {
			label = st.Selected.Width(14).Render(fl.label)
		}
		b.WriteString(label + " " + fl.input.View() + "\n")
	}
	return b.String()
}
