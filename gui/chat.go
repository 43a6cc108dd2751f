package gui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

type Chat struct {
	view *tview.Grid

	d *Display

	messageView  *tview.TextView
	logView      *tview.TextView
	input        *tview.InputField
	inputContent string
	buttons      *tview.Form
}

func NewChat() *Chat {
	messageView := tview.NewTextView().SetScrollable(true)
	messageView.SetBorder(true).SetTitle(" Chat ")

	logView := tview.NewTextView().SetScrollable(true)
	logView.SetBorder(true).SetTitle(" Log ")

	input := tview.NewInputField().
		SetLabel("Message ").
		SetFieldWidth(0).
		SetAcceptanceFunc(tview.InputFieldMaxLength(200))

	grid := tview.NewGrid().SetColumns(0, 0).SetRows(0, 1, 3).
		AddItem(messageView, 0, 0, 1, 1, 0, 0, false).
		AddItem(logView, 0, 1, 1, 1, 0, 0, false).
		AddItem(input, 1, 0, 1, 2, 0, 0, true)

	chat := &Chat{
		view:        grid,
		messageView: messageView,
		logView:     logView,
		input:       input,
	}

	input.
		SetChangedFunc(func(text string) { chat.inputContent = text }).
		SetDoneFunc(func(key tcell.Key) {
			if key == tcell.KeyEnter {
				chat.sendInput()
			}
		})

	buttons := StyleNormalForm(tview.NewForm()).
		AddButton("Send message", chat.sendInput).
		AddButton("Connect", func() { chat.d.Connect() }).
		AddButton("Clear chat", func() { chat.d.ClearChat() }).
		AddButton("Clear logs", func() { chat.d.ClearLogs() }).
		SetButtonsAlign(tview.AlignLeft)

	chat.buttons = buttons
	grid.AddItem(buttons, 2, 0, 1, 2, 0, 0, false)

	return chat
}

func (s *Chat) GetView() tview.Primitive {
	return s.view
}

func (s *Chat) sendInput() {
	s.d.Send(s.inputContent)
	s.ResetInput()
}

func (s *Chat) ResetInput() {
	s.input.SetText("")
	s.inputContent = ""
}
