package gui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	colorFormText = tcell.ColorWhite
	colorFormBg   = tcell.ColorSlateGray
)

func StyleNormalForm(form *tview.Form) *tview.Form {
	return form.
		SetFieldBackgroundColor(colorFormBg).
		SetFieldTextColor(colorFormText).
		SetButtonBackgroundColor(colorFormBg).
		SetButtonTextColor(colorFormText)
}
