package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"contact-saver-bot/internal/adapters/telegram"
	"contact-saver-bot/internal/domain"
	"contact-saver-bot/internal/infra/metrics"
	"contact-saver-bot/internal/usecase/contacts"
)

// API is the slice of the Telegram Bot API the handler depends on.
// *tgbotapi.BotAPI satisfies it.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

var startPattern = regexp.MustCompile(`^/start(?:\s+(.+))?`)

// Handler routes every inbound update to exactly one handling path.
type Handler struct {
	api       API
	log       zerolog.Logger
	contacts  *contacts.Service
	referrals domain.ReferralStore

	adminID     int64
	adminHandle string
	botName     string

	linkDeleteAfter    time.Duration
	contactDeleteAfter time.Duration

	// schedule defers fire-and-forget cleanup without blocking dispatch.
	// Tests replace it to run callbacks inline.
	schedule func(delay time.Duration, fn func())

	modes *sessionModes
}

// NewHandler creates the update handler.
func NewHandler(api API, log zerolog.Logger, contactsUC *contacts.Service, referrals domain.ReferralStore, adminID int64, adminHandle, botName string, linkDeleteAfter, contactDeleteAfter time.Duration) *Handler {
	return &Handler{
		api:                api,
		log:                log,
		contacts:           contactsUC,
		referrals:          referrals,
		adminID:            adminID,
		adminHandle:        adminHandle,
		botName:            botName,
		linkDeleteAfter:    linkDeleteAfter,
		contactDeleteAfter: contactDeleteAfter,
		schedule:           func(delay time.Duration, fn func()) { time.AfterFunc(delay, fn) },
		modes:              newSessionModes(),
	}
}

// HandleUpdate dispatches one inbound update. Precedence: armed session
// mode, /start, shared contact, menu label; anything else is dropped.
func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.From == nil {
		return
	}
	senderID := msg.From.ID
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	if text != "" {
		switch h.modes.consume(senderID) {
		case domain.ModeAwaitingBroadcast:
			h.handleBroadcastText(text)
			return
		case domain.ModeAwaitingSearch:
			h.handleSearchQuery(text)
			return
		}
	}

	if m := startPattern.FindStringSubmatch(text); m != nil {
		h.handleStart(ctx, senderID, chatID, strings.TrimSpace(m[1]))
		return
	}

	if msg.Contact != nil {
		h.handleContactShare(ctx, msg)
		return
	}

	switch text {
	case labelGetLink:
		h.handleGetLink(senderID, chatID)
	case labelAllContacts:
		if senderID == h.adminID {
			h.handleListContacts(chatID)
		}
	case labelExportCSV:
		if senderID == h.adminID {
			h.handleExport()
		}
	case labelCheckDetails:
		if senderID == h.adminID {
			h.reply(h.adminID, "🆔 Send User ID, username or phone number:", nil)
			h.modes.arm(senderID, domain.ModeAwaitingSearch)
		}
	case labelBroadcast:
		if senderID == h.adminID {
			h.reply(h.adminID, "📝 Type the broadcast message:", nil)
			h.modes.arm(senderID, domain.ModeAwaitingBroadcast)
		}
	default:
		h.log.Debug().Int64("user", senderID).Msg("unhandled update")
	}
}

func (h *Handler) handleStart(ctx context.Context, senderID, chatID int64, arg string) {
	var referrerID string
	if strings.HasPrefix(arg, referralMarker) {
		referrerID = strings.TrimPrefix(arg, referralMarker)
		if err := h.referrals.Set(ctx, senderID, referrerID); err != nil {
			h.log.Warn().Err(err).Int64("user", senderID).Msg("failed to record referral")
		}
	}

	if senderID == h.adminID {
		h.reply(chatID, "👑Welcome Admin G👑", adminKeyboard())
		return
	}

	if h.contacts.IsVerified(senderID) {
		h.reply(chatID, "✅ Aapka already verified hai.", linkKeyboard())
		return
	}

	h.replyMarkdown(chatID, welcomeMessage(referrerID), verifyKeyboard())
}

func (h *Handler) handleContactShare(ctx context.Context, msg *tgbotapi.Message) {
	senderID := msg.From.ID
	chatID := msg.Chat.ID
	messageID := msg.MessageID

	// Courtesy cleanup of the contact card; never blocks dispatch.
	h.schedule(h.contactDeleteAfter, func() {
		h.deleteMessage(chatID, messageID)
	})

	contact, err := h.contacts.Register(ctx, senderID, msg.From.FirstName, msg.Contact.PhoneNumber, msg.From.UserName)
	if errors.Is(err, contacts.ErrAlreadyVerified) {
		metrics.DuplicateVerificationsTotal.Inc()
		h.reply(chatID, "ℹ️Already saved.", linkKeyboard())
		return
	}
	if err != nil {
		h.log.Error().Err(err).Int64("user", senderID).Msg("failed to save contact")
		h.reply(h.adminID, fmt.Sprintf("❌ Failed to save new contact: %v", err), nil)
		return
	}
	metrics.VerificationsTotal.Inc()

	h.reply(chatID, "✅ Human verification successful!", nil)
	h.replyMarkdown(h.adminID, adminContactNotification(contact), nil)
	h.notifyReferrer(contact)

	if err := h.referrals.Delete(ctx, senderID); err != nil {
		h.log.Warn().Err(err).Int64("user", senderID).Msg("failed to remove referral entry")
	}

	h.reply(chatID, "📤 Now you can generate your invite link.", linkKeyboard())
}

// notifyReferrer is best-effort: a failure never aborts the verification
// workflow, and self-referrals are ignored.
func (h *Handler) notifyReferrer(contact domain.Contact) {
	if contact.Referrer == "" || contact.Referrer == strconv.FormatInt(contact.ChatID, 10) {
		return
	}
	referrerChat, err := strconv.ParseInt(contact.Referrer, 10, 64)
	if err != nil {
		h.log.Warn().Str("referrer", contact.Referrer).Msg("referral entry is not a chat ID")
		return
	}
	note := tgbotapi.NewMessage(referrerChat, referrerNotification(contact, h.adminHandle))
	note.ParseMode = tgbotapi.ModeMarkdown
	_, err = h.deliver("notify_referrer", referrerChat, note)
	metrics.IncReferralNotification(err == nil)
	if err != nil {
		h.log.Warn().Err(err).Int64("referrer", referrerChat).Msg("could not notify referrer")
	}
}

func (h *Handler) handleGetLink(senderID, chatID int64) {
	text := linkMessage(h.botName, senderID, int(h.linkDeleteAfter.Seconds()))
	link := tgbotapi.NewMessage(chatID, text)
	link.ParseMode = tgbotapi.ModeMarkdown
	link.DisableWebPagePreview = true

	sent, err := h.deliver("send_link", chatID, link)
	if err != nil {
		h.log.Error().Err(err).Int64("chat", chatID).Msg("failed to send referral link")
		return
	}

	if senderID != h.adminID {
		messageID := sent.MessageID
		h.schedule(h.linkDeleteAfter, func() {
			h.deleteMessage(chatID, messageID)
		})
	}
}

func (h *Handler) handleListContacts(chatID int64) {
	all := h.contacts.All()
	if len(all) == 0 {
		h.reply(chatID, "⚠️ No contacts found.", nil)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 *Total Contacts:* %d\n\n", len(all))
	for i, c := range all {
		b.WriteString(contactEntry(i+1, c))
	}

	for _, part := range telegram.SplitMessage(b.String()) {
		h.replyMarkdown(chatID, part, nil)
	}
}

func (h *Handler) handleExport() {
	path := h.contacts.StorePath()
	f, err := os.Open(path)
	if err != nil {
		h.reply(h.adminID, "⚠️contacts.csv file missing.", nil)
		return
	}
	defer f.Close()

	doc := tgbotapi.NewDocument(h.adminID, tgbotapi.FileReader{
		Name:   "contacts_export.csv",
		Reader: f,
	})
	if _, err := h.deliver("send_document", h.adminID, doc); err != nil {
		h.log.Error().Err(err).Msg("CSV export failed")
		h.reply(h.adminID, "❌ Export failed.", nil)
	}
}

func (h *Handler) handleBroadcastText(text string) {
	all := h.contacts.All()
	runID := uuid.NewString()

	h.reply(h.adminID, fmt.Sprintf("📤 Sending broadcast to %d users...", len(all)), nil)

	delivered := 0
	for _, c := range all {
		out := tgbotapi.NewMessage(c.ChatID, "📢 *Admin Broadcast:*\n"+text)
		out.ParseMode = tgbotapi.ModeMarkdown
		_, err := h.deliver("broadcast", c.ChatID, out)
		metrics.IncBroadcastDelivery(err == nil)
		if err != nil {
			h.log.Warn().Err(err).Str("broadcast", runID).Int64("chat", c.ChatID).Msg("broadcast delivery failed")
			continue
		}
		delivered++
	}

	h.log.Info().Str("broadcast", runID).Int("delivered", delivered).Int("total", len(all)).Msg("broadcast finished")
	h.reply(h.adminID, "✅ Broadcast sent successfully.", nil)
}

func (h *Handler) handleSearchQuery(query string) {
	matches := h.contacts.Search(query)
	if len(matches) == 0 {
		h.reply(h.adminID, "❌ No record found.", nil)
		return
	}
	for _, c := range matches {
		h.replyMarkdown(h.adminID, userDetails(c), nil)
	}
}

func (h *Handler) reply(chatID int64, text string, keyboard *tgbotapi.ReplyKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}
	if _, err := h.deliver("send_message", chatID, msg); err != nil {
		h.log.Error().Err(err).Int64("chat", chatID).Msg("failed to send message")
	}
}

func (h *Handler) replyMarkdown(chatID int64, text string, keyboard *tgbotapi.ReplyKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}
	if _, err := h.deliver("send_message", chatID, msg); err != nil {
		h.log.Error().Err(err).Int64("chat", chatID).Msg("failed to send message")
	}
}

func (h *Handler) deliver(operation string, chatID int64, c tgbotapi.Chattable) (tgbotapi.Message, error) {
	start := time.Now()
	sent, err := h.api.Send(c)
	metrics.ObserveNetworkRequest("telegram_bot", operation, strconv.FormatInt(chatID, 10), start, err)
	if err != nil {
		metrics.BotSendErrors.Inc()
	}
	return sent, err
}

func (h *Handler) deleteMessage(chatID int64, messageID int) {
	start := time.Now()
	_, err := h.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	metrics.ObserveNetworkRequest("telegram_bot", "delete_message", strconv.FormatInt(chatID, 10), start, err)
	if err != nil {
		h.log.Debug().Err(err).Int64("chat", chatID).Int("message", messageID).Msg("could not delete message")
	}
}
