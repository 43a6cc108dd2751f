package gui

import (
	"fmt"
	"sync"
	"time"

	"github.com/FilipGjorgjeski/klepetalnica/client"
	"github.com/FilipGjorgjeski/klepetalnica/protocol"
	"github.com/FilipGjorgjeski/klepetalnica/storage"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const stampLayout = "2006-01-02T15:04:05.000000"

type Display struct {
	lock sync.RWMutex

	lastErr string

	chat   *Chat
	header *Header
	app    *tview.Application
	client *client.Client
}

func NewDisplay(app *tview.Application, header *Header, chat *Chat, cl *client.Client) *Display {
	return &Display{
		header: header,
		chat:   chat,
		app:    app,
		client: cl,
	}
}

func (d *Display) RegisterKeyboardHandlers() {
	d.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			d.app.Stop()
		}
		if event.Key() == tcell.KeyCtrlU {
			d.Unread()
		}
		return event
	})
}

// RegisterClientHandlers wires the receive-loop callbacks. They run off the
// UI goroutine; all rendering goes through QueueUpdateDraw.
func (d *Display) RegisterClientHandlers() {
	d.client.OnPayload(d.handlePayload)
	d.client.OnLog(d.UpdateLog)
}

func (d *Display) Connect() {
	if err := d.client.Connect(); err != nil {
		d.handleError(err)
	}
}

func (d *Display) Send(text string) {
	if text == "" {
		return
	}
	if err := d.client.SendMessage(storage.PublicChannel, text); err != nil {
		d.handleError(err)
	}
}

func (d *Display) Unread() {
	if err := d.client.Unread(storage.PublicChannel); err != nil {
		d.handleError(err)
	}
}

// handlePayload renders one server payload: the status line plus any
// messages it carries ("2006-01-02 15:04 user_ab12 text").
func (d *Display) handlePayload(p protocol.Payload) {
	lines := make([]string, 0, len(p.Messages)+1)
	if p.Status != "" {
		lines = append(lines, p.Status)
	}
	for _, m := range p.Messages {
		lines = append(lines, formatMessage(m))
	}
	d.UpdateMessageArea(lines...)
	d.updateHeader()
}

func (d *Display) UpdateMessageArea(messages ...string) {
	go d.app.QueueUpdateDraw(func() {
		for _, message := range messages {
			fmt.Fprintln(d.chat.messageView, message)
		}
		d.chat.messageView.ScrollToEnd()
	})
}

func (d *Display) UpdateLog(logMessage string) {
	go d.app.QueueUpdateDraw(func() {
		fmt.Fprintln(d.chat.logView, logMessage)
		d.chat.logView.ScrollToEnd()
	})
}

func (d *Display) ClearChat() {
	d.chat.messageView.Clear()
}

func (d *Display) ClearLogs() {
	d.chat.logView.Clear()
}

func (d *Display) handleError(err error) {
	d.lock.Lock()
	d.lastErr = err.Error()
	d.lock.Unlock()

	d.UpdateLog("error: " + err.Error())
	d.updateHeader()
}

func (d *Display) updateHeader() {
	d.lock.RLock()
	lastErr := d.lastErr
	d.lock.RUnlock()

	userID := d.client.UserID()
	go d.app.QueueUpdateDraw(func() {
		d.header.Update(HeaderData{
			userID: userID,
			err:    lastErr,
		})
	})
}

func formatMessage(m protocol.Message) string {
	stamp := m.Timestamp
	if t, err := time.Parse(stampLayout, m.Timestamp); err == nil {
		stamp = t.Format("2006-01-02 15:04")
	}
	user := m.UserID
	if len(user) > 4 {
		user = user[:4]
	}
	return fmt.Sprintf("%s user_%s %s", stamp, user, m.Message)
}
