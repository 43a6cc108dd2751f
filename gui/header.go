package gui

import (
	"github.com/rivo/tview"
)

type Header struct {
	view *tview.Grid

	statusTable *tview.Table
}

type HeaderData struct {
	userID string
	err    string
}

const headerText = `[yellow]Klepetalnica

[white]session-aware message relay`

func NewHeader() *Header {
	status := tview.NewTable().
		SetCellSimple(0, 0, "User id:").
		SetCellSimple(1, 0, "Error:")

	grid := tview.NewGrid().SetRows(0).SetColumns(30, 0).
		AddItem(tview.NewTextView().SetDynamicColors(true).SetText(headerText), 0, 0, 1, 1, 0, 0, false).
		AddItem(status, 0, 1, 1, 1, 0, 0, false)

	return &Header{
		view:        grid,
		statusTable: status,
	}
}

func (h *Header) GetView() tview.Primitive {
	return h.view
}

func (h *Header) Update(data HeaderData) {
	h.statusTable.SetCellSimple(0, 1, data.userID)

	if data.err != "" {
		h.statusTable.SetCellSimple(1, 1, data.err)
	}
}
