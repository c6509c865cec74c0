package telegram

import (
	"fmt"
	"funpaybot/internal/models"
	"funpaybot/internal/state"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const adminID int64 = 1001

type fakeAPI struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) lastText(t *testing.T) string {
	t.Helper()
	if len(f.sent) == 0 {
		t.Fatal("Nothing was sent")
	}
	switch c := f.sent[len(f.sent)-1].(type) {
	case tgbotapi.MessageConfig:
		return c.Text
	case tgbotapi.EditMessageTextConfig:
		return c.Text
	default:
		t.Fatalf("Unexpected chattable %T", c)
		return ""
	}
}

func newCatalog(n int) []models.Account {
	out := make([]models.Account, n)
	for i := range out {
		out[i] = models.Account{Login: fmt.Sprintf("acc%d", i+1)}
	}
	return out
}

func newDispatcher(accounts []models.Account) (*Dispatcher, *fakeAPI, *state.Store) {
	api := &fakeAPI{}
	store := state.NewStore(accounts)
	return NewDispatcher(api, store, adminID, "8000"), api, store
}

func command(from int64, text string) tgbotapi.Update {
	cmd := strings.Fields(text)[0]
	return tgbotapi.Update{Message: &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: from},
		Chat:      &tgbotapi.Chat{ID: from},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}}
}

func callback(from int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		From:    &tgbotapi.User{ID: from},
		Data:    data,
		Message: &tgbotapi.Message{MessageID: 7, Chat: &tgbotapi.Chat{ID: from}},
	}}
}

func TestStart_NonAdminDenied(t *testing.T) {
	d, api, _ := newDispatcher(nil)

	d.HandleUpdate(command(5, "/start"))

	if got := api.lastText(t); got != textAccessDenied {
		t.Errorf("Expected access denied, got %q", got)
	}
	msg := api.sent[0].(tgbotapi.MessageConfig)
	if msg.ReplyMarkup != nil {
		t.Error("Denied reply must not carry the menu")
	}
}

func TestStart_AdminGetsMenu(t *testing.T) {
	d, api, _ := newDispatcher(nil)

	d.HandleUpdate(command(adminID, "/start"))

	msg, ok := api.sent[0].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("Expected MessageConfig, got %T", api.sent[0])
	}
	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		t.Fatalf("Expected inline keyboard, got %T", msg.ReplyMarkup)
	}
	if len(kb.InlineKeyboard) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(kb.InlineKeyboard))
	}
	want := []string{CallbackStats, CallbackAccounts, CallbackSettings}
	for i, row := range kb.InlineKeyboard {
		if row[0].CallbackData == nil || *row[0].CallbackData != want[i] {
			t.Errorf("Row %d: expected payload %s", i, want[i])
		}
	}
}

func TestSetToken_NonAdminDoesNotMutate(t *testing.T) {
	d, api, store := newDispatcher(nil)

	d.HandleUpdate(command(5, "/set_funpay_token secret"))

	if got := api.lastText(t); got != textAccessDenied {
		t.Errorf("Expected access denied, got %q", got)
	}
	if store.HasToken() {
		t.Error("Non-admin must not set the token")
	}
}

func TestSetToken_Usage(t *testing.T) {
	d, api, store := newDispatcher(nil)

	d.HandleUpdate(command(adminID, "/set_funpay_token"))

	if got := api.lastText(t); got != textTokenUsage {
		t.Errorf("Expected usage, got %q", got)
	}
	if store.HasToken() {
		t.Error("Usage path must not set the token")
	}
}

func TestSetToken_ThenStatsAndSettingsReportIt(t *testing.T) {
	d, api, store := newDispatcher(newCatalog(2))

	d.HandleUpdate(command(adminID, "/set_funpay_token abc123 extra"))
	if got := api.lastText(t); got != textTokenSet {
		t.Fatalf("Expected confirmation, got %q", got)
	}
	if store.Token() != "abc123" {
		t.Fatalf("Expected first argument as token, got %q", store.Token())
	}

	d.HandleUpdate(callback(adminID, CallbackStats))
	if got := api.lastText(t); !strings.Contains(got, "FunPay токен: ✅ Установлен") {
		t.Errorf("Stats should report token set:\n%s", got)
	}

	d.HandleUpdate(callback(adminID, CallbackSettings))
	got := api.lastText(t)
	if !strings.Contains(got, "FunPay токен: ✅ Установлен") {
		t.Errorf("Settings should report token set:\n%s", got)
	}
	if !strings.Contains(got, "Админ ID: 1001") || !strings.Contains(got, "Порт: 8000") {
		t.Errorf("Settings should show admin and port:\n%s", got)
	}
}

func TestCallback_NonAdminDenied(t *testing.T) {
	d, api, _ := newDispatcher(newCatalog(3))

	d.HandleUpdate(callback(5, CallbackAccounts))

	if len(api.sent) != 0 {
		t.Errorf("Denied callback must not edit the message, got %d sends", len(api.sent))
	}
	if len(api.requests) != 1 {
		t.Fatalf("Expected one callback answer, got %d", len(api.requests))
	}
	ans := api.requests[0].(tgbotapi.CallbackConfig)
	if !ans.ShowAlert || ans.Text != textAccessDenied {
		t.Errorf("Expected denial alert, got %+v", ans)
	}
}

func TestCallback_StatsCounts(t *testing.T) {
	d, api, store := newDispatcher(newCatalog(7))
	store.MarkRented("acc2", time.Now())
	store.MarkRented("acc3", time.Now())

	d.HandleUpdate(callback(adminID, CallbackStats))

	got := api.lastText(t)
	if !strings.Contains(got, "Всего аккаунтов: 7") {
		t.Errorf("Expected 7 accounts:\n%s", got)
	}
	if !strings.Contains(got, "Активных аренд: 2") {
		t.Errorf("Expected 2 rentals:\n%s", got)
	}
	if !strings.Contains(got, "❌ Не установлен") {
		t.Errorf("Token should be reported missing:\n%s", got)
	}
	edit := api.sent[0].(tgbotapi.EditMessageTextConfig)
	if edit.ChatID != adminID || edit.MessageID != 7 {
		t.Errorf("Should edit the originating message, got chat=%d msg=%d", edit.ChatID, edit.MessageID)
	}
}

func TestCallback_AccountsListing(t *testing.T) {
	for _, n := range []int{0, 1, 5, 6, 12} {
		d, api, store := newDispatcher(newCatalog(n))
		store.MarkRented("acc1", time.Now())

		d.HandleUpdate(callback(adminID, CallbackAccounts))
		got := api.lastText(t)

		if n == 0 {
			if got != textNoAccounts {
				t.Errorf("n=0: expected empty notice, got %q", got)
			}
			continue
		}

		lines := 0
		for _, l := range strings.Split(got, "\n") {
			if strings.Contains(l, ". acc") {
				lines++
			}
		}
		want := n
		if want > accountsPreview {
			want = accountsPreview
		}
		if lines != want {
			t.Errorf("n=%d: expected %d entries, got %d:\n%s", n, want, lines, got)
		}

		hasNote := strings.Contains(got, "... и еще")
		if hasNote != (n > accountsPreview) {
			t.Errorf("n=%d: truncation note present=%v", n, hasNote)
		}
		if n > accountsPreview && !strings.Contains(got, fmt.Sprintf("и еще %d аккаунтов", n-accountsPreview)) {
			t.Errorf("n=%d: wrong remainder in note:\n%s", n, got)
		}
		if !strings.Contains(got, "1. acc1 - 🔄 Арендован") {
			t.Errorf("n=%d: acc1 should be rented:\n%s", n, got)
		}
	}
}

func TestCallback_AccountsEscapesMarkdown(t *testing.T) {
	d, api, _ := newDispatcher([]models.Account{{Login: "steam_user"}, {}})

	d.HandleUpdate(callback(adminID, CallbackAccounts))

	got := api.lastText(t)
	if !strings.Contains(got, `steam\_user`) {
		t.Errorf("Login should be markdown-escaped:\n%s", got)
	}
	if !strings.Contains(got, "2. N/A - 🟢 Свободен") {
		t.Errorf("Account without login should render N/A:\n%s", got)
	}
}

func TestCallback_UnknownPayloadAnsweredOnly(t *testing.T) {
	d, api, _ := newDispatcher(nil)

	d.HandleUpdate(callback(adminID, "bogus"))

	if len(api.requests) != 1 {
		t.Errorf("Callback should be answered, got %d", len(api.requests))
	}
	if len(api.sent) != 0 {
		t.Errorf("Unknown payload should not edit, got %d", len(api.sent))
	}
}

func TestPlainTextIgnored(t *testing.T) {
	d, api, _ := newDispatcher(nil)

	d.HandleUpdate(tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: adminID},
		Chat: &tgbotapi.Chat{ID: adminID},
		Text: "hello",
	}})

	if len(api.sent) != 0 {
		t.Errorf("Plain text should be ignored, got %d sends", len(api.sent))
	}
}
