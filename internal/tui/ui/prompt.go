package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Prompt is a one-line input bar the shell overlays for quick text entry,
// currently the chat list filter.
type Prompt struct {
	*tview.InputField
	theme    *Theme
	onSubmit func(text string)
	onChange func(text string)
	onCancel func()
}

// NewPrompt creates a new prompt input bar.
func NewPrompt(theme *Theme) *Prompt {
	input := tview.NewInputField()
	input.SetBorder(true)
	input.SetBorderColor(theme.PromptBorderColor)
	input.SetBackgroundColor(theme.BgColor)
	input.SetFieldBackgroundColor(theme.BgColor)
	input.SetFieldTextColor(theme.FgColor)
	input.SetLabelColor(theme.MenuKeyColor)

	p := &Prompt{
		InputField: input,
		theme:      theme,
	}

	input.SetChangedFunc(func(text string) {
		if p.onChange != nil {
			p.onChange(text)
		}
	})

	input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			if p.onSubmit != nil {
				p.onSubmit(p.GetText())
			}
		case tcell.KeyEscape:
			p.SetText("")
			if p.onCancel != nil {
				p.onCancel()
			}
		}
	})

	return p
}

// SetOnSubmit sets the callback when the prompt is submitted.
func (p *Prompt) SetOnSubmit(fn func(text string)) {
	p.onSubmit = fn
}

// SetOnChange sets the callback fired on every keystroke.
func (p *Prompt) SetOnChange(fn func(text string)) {
	p.onChange = fn
}

// SetOnCancel sets the callback when the prompt is cancelled.
func (p *Prompt) SetOnCancel(fn func()) {
	p.onCancel = fn
}

// Activate prepares the prompt with a label and title and clears old text.
func (p *Prompt) Activate(label, title string) {
	p.SetText("")
	p.SetLabel(label)
	p.SetTitle(" " + title + " ")
}
