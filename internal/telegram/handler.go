package telegram

import (
	"funpaybot/internal/logger"
	sentryutil "funpaybot/internal/sentry"
	"funpaybot/internal/state"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Dispatcher routes commands and menu callbacks for the single admin.
type Dispatcher struct {
	api     BotAPI
	store   *state.Store
	adminID int64
	port    string
}

func NewDispatcher(api BotAPI, store *state.Store, adminID int64, port string) *Dispatcher {
	return &Dispatcher{api: api, store: store, adminID: adminID, port: port}
}

// HandleUpdate processes one inbound update. Non-command messages are ignored.
func (d *Dispatcher) HandleUpdate(update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.IsCommand():
		d.handleCommand(update.Message)
	case update.CallbackQuery != nil:
		d.handleCallback(update.CallbackQuery)
	}
}

func (d *Dispatcher) isAdmin(u *tgbotapi.User) bool {
	return u != nil && u.ID == d.adminID
}

func (d *Dispatcher) handleCommand(m *tgbotapi.Message) {
	switch m.Command() {
	case "start":
		if !d.authorize(m) {
			return
		}
		msg := tgbotapi.NewMessage(m.Chat.ID, textMenu)
		msg.ParseMode = tgbotapi.ModeMarkdown
		msg.ReplyMarkup = menuKeyboard()
		d.send(msg, "start")

	case "set_funpay_token":
		if !d.authorize(m) {
			return
		}
		args := strings.Fields(m.CommandArguments())
		if len(args) == 0 {
			d.send(tgbotapi.NewMessage(m.Chat.ID, textTokenUsage), "set_funpay_token")
			return
		}
		d.store.SetToken(args[0])
		logger.Info("telegram: funpay token updated", map[string]interface{}{"admin": m.From.ID})
		d.send(tgbotapi.NewMessage(m.Chat.ID, textTokenSet), "set_funpay_token")
	}
}

// authorize replies with the denial text when the sender is not the admin.
func (d *Dispatcher) authorize(m *tgbotapi.Message) bool {
	if d.isAdmin(m.From) {
		return true
	}
	var from int64
	if m.From != nil {
		from = m.From.ID
	}
	logger.Warn("telegram: access denied", map[string]interface{}{"user": from, "command": m.Command()})
	d.send(tgbotapi.NewMessage(m.Chat.ID, textAccessDenied), m.Command())
	return false
}

func (d *Dispatcher) handleCallback(cb *tgbotapi.CallbackQuery) {
	if !d.isAdmin(cb.From) {
		var from int64
		if cb.From != nil {
			from = cb.From.ID
		}
		logger.Warn("telegram: access denied", map[string]interface{}{"user": from, "callback": cb.Data})
		d.request(tgbotapi.NewCallbackWithAlert(cb.ID, textAccessDenied), "callback")
		return
	}
	d.request(tgbotapi.NewCallback(cb.ID, ""), "callback")

	var text string
	switch cb.Data {
	case CallbackStats:
		text = StatsText(d.store.Snapshot(0))
	case CallbackAccounts:
		text = AccountsText(d.store.Snapshot(accountsPreview))
	case CallbackSettings:
		text = SettingsText(d.store.Snapshot(0), d.adminID, d.port)
	default:
		return
	}

	if cb.Message == nil || cb.Message.Chat == nil {
		return
	}
	edit := tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	d.send(edit, cb.Data)
}

func (d *Dispatcher) send(c tgbotapi.Chattable, action string) {
	if _, err := d.api.Send(c); err != nil {
		d.reportSendError(err, action)
	}
}

func (d *Dispatcher) request(c tgbotapi.Chattable, action string) {
	if _, err := d.api.Request(c); err != nil {
		d.reportSendError(err, action)
	}
}

func (d *Dispatcher) reportSendError(err error, action string) {
	logger.Error("telegram: send failed", map[string]interface{}{"action": action, "error": err.Error()})
	sentryutil.CaptureError(err, map[string]string{"component": "telegram", "action": action})
}
