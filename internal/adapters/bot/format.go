package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"contact-saver-bot/internal/domain"
)

// Menu labels routed by exact match. The emoji prefix is part of the label.
const (
	labelAllContacts  = "📋 All Contacts"
	labelGetLink      = "📤 Get Your Link"
	labelCheckDetails = "🔍 Check Details"
	labelBroadcast    = "📢 Broadcast Message"
	labelExportCSV    = "📦 Export CSV"

	labelVerify = "Verify Human✅"
)

// referralMarker prefixes the /start argument that carries a referrer ID.
const referralMarker = "ref_"

func adminKeyboard() *tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(labelAllContacts)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(labelGetLink)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(labelCheckDetails)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(labelBroadcast)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(labelExportCSV)),
	)
	kb.ResizeKeyboard = true
	return &kb
}

func linkKeyboard() *tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(labelGetLink)),
	)
	kb.ResizeKeyboard = true
	return &kb
}

func verifyKeyboard() *tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButtonContact(labelVerify)),
	)
	kb.ResizeKeyboard = true
	return &kb
}

func welcomeMessage(referrerID string) string {
	var b strings.Builder
	b.WriteString("👋 *Welcome!* \n\nThis bot is made by danger to help you.\n")
	if referrerID != "" {
		fmt.Fprintf(&b, "📨 Invite by user ID: `%s`\n\n", referrerID)
	}
	b.WriteString("First📱Press *Verify Human✅*\n\nWe respect your privacy")
	return b.String()
}

func referralLink(botName string, senderID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=%s%d", botName, referralMarker, senderID)
}

func linkMessage(botName string, senderID int64, deleteAfterSeconds int) string {
	link := referralLink(botName, senderID)
	return fmt.Sprintf("🔗 *Your Referral Link:*\n[%s](%s)\n\n_This message will auto-delete in %ds._", link, link, deleteAfterSeconds)
}

func adminContactNotification(c domain.Contact) string {
	return strings.Join([]string{
		"📩 *New Contact:*",
		"👤 TgName:👉" + c.Name,
		"📱 PhoneNo:👉" + c.Phone,
		"🔗 UserName:👉" + c.Username,
		fmt.Sprintf("🆔 UserID:👉%d", c.ChatID),
		fmt.Sprintf("📅 %s | 🕒 %s", c.Day, c.Time),
		"👥 Referred by: " + referrerOrNone(c),
	}, "\n")
}

func referrerNotification(c domain.Contact, adminHandle string) string {
	lines := []string{
		"🎉 *Someone used your referral link!*",
		"",
		"👤 TgName:👉" + c.Name,
		"📱 PhoneNo:👉" + c.Phone,
		"🔗 UserName:👉" + c.Username,
		fmt.Sprintf("🆔 UserID:👉%d", c.ChatID),
	}
	if adminHandle != "" {
		lines = append(lines, fmt.Sprintf("♻️ ADMIN:👉@%s♻️", strings.TrimPrefix(adminHandle, "@")))
	}
	return strings.Join(lines, "\n")
}

func contactEntry(position int, c domain.Contact) string {
	return strings.Join([]string{
		fmt.Sprintf("%d) *%s*", position, c.Name),
		"📱 " + c.Phone,
		"🔗 " + c.Username,
		fmt.Sprintf("🆔 %d", c.ChatID),
		fmt.Sprintf("📅 %s | %s", c.Day, c.Time),
		"👥 Ref: " + referrerOrNone(c),
		"",
		"",
	}, "\n")
}

func userDetails(c domain.Contact) string {
	return strings.Join([]string{
		"📇 *User Details:*",
		"👤 " + c.Name,
		"📱 " + c.Phone,
		"🔗 " + c.Username,
		fmt.Sprintf("🆔 %d", c.ChatID),
	}, "\n")
}

func referrerOrNone(c domain.Contact) string {
	if c.Referrer == "" {
		return domain.NoReferrer
	}
	return c.Referrer
}
