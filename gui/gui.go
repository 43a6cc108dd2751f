package gui

import (
	"github.com/FilipGjorgjeski/klepetalnica/client"
	"github.com/rivo/tview"
)

func NewApp(cl *client.Client) *tview.Application {
	app := tview.NewApplication()

	header := NewHeader()
	chat := NewChat()

	d := NewDisplay(app, header, chat, cl)
	d.RegisterKeyboardHandlers()
	d.RegisterClientHandlers()

	chat.d = d

	app.SetRoot(newChatScreen(header, chat), true).SetFocus(chat.input)

	return app
}
