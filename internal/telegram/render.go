package telegram

import (
	"fmt"
	"funpaybot/internal/state"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback payloads carried by the menu buttons.
const (
	CallbackStats    = "stats"
	CallbackAccounts = "accounts"
	CallbackSettings = "settings"
)

// accountsPreview is how many catalog entries the accounts view lists.
const accountsPreview = 5

const (
	textAccessDenied = "❌ У вас нет доступа к этому боту"
	textTokenUsage   = "Использование: /set_funpay_token <токен>"
	textTokenSet     = "✅ FunPay токен установлен!"
	textNoAccounts   = "❌ Аккаунты не загружены"

	textMenu = "🤖 *FunPay Steam Bot*\n\n" +
		"Бот для автоматической аренды Steam аккаунтов\n" +
		"Выберите действие:"
)

func menuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📊 Статистика", CallbackStats)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🎮 Аккаунты", CallbackAccounts)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⚙️ Настройки", CallbackSettings)),
	)
}

func tokenStatus(set bool) string {
	if set {
		return "✅ Установлен"
	}
	return "❌ Не установлен"
}

// StatsText renders the statistics view.
func StatsText(snap state.Snapshot) string {
	return fmt.Sprintf("📊 *Статистика бота*\n\n"+
		"🎮 Всего аккаунтов: %d\n"+
		"🔄 Активных аренд: %d\n"+
		"🟢 FunPay токен: %s",
		snap.TotalAccounts, snap.ActiveRentals, tokenStatus(snap.HasToken))
}

// AccountsText renders the leading catalog entries with their rental status.
func AccountsText(snap state.Snapshot) string {
	if snap.TotalAccounts == 0 {
		return textNoAccounts
	}

	var b strings.Builder
	b.WriteString("🎮 *Список аккаунтов:*\n\n")
	for i, acc := range snap.Accounts {
		status := "🟢 Свободен"
		if acc.Rented {
			status = "🔄 Арендован"
		}
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, tgbotapi.EscapeText(tgbotapi.ModeMarkdown, acc.Login), status)
	}
	if rest := snap.TotalAccounts - len(snap.Accounts); rest > 0 {
		fmt.Fprintf(&b, "\n... и еще %d аккаунтов", rest)
	}
	return b.String()
}

// SettingsText renders the settings view.
func SettingsText(snap state.Snapshot, adminID int64, port string) string {
	return fmt.Sprintf("⚙️ *Настройки бота*\n\n"+
		"🔑 FunPay токен: %s\n"+
		"👤 Админ ID: %d\n"+
		"🌐 Порт: %s\n\n"+
		"Для установки токена используйте:\n"+
		"`/set_funpay_token <токен>`",
		tokenStatus(snap.HasToken), adminID, port)
}
