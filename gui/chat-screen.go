package gui

import "github.com/rivo/tview"

func newChatScreen(header *Header, chat *Chat) tview.Primitive {
	grid := tview.NewGrid().
		SetRows(3, 0).
		SetColumns(0).
		SetBorders(true)

	return grid.
		AddItem(header.GetView(), 0, 0, 1, 1, 0, 0, false).
		AddItem(chat.GetView(), 1, 0, 1, 1, 0, 0, true)
}
