package bot

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/roach88/sellbot/internal/i18n"
)

// Callback data prefixes.
const (
	cbBuy         = "buy"
	cbCode        = "code"
	cbApprove     = "approve"
	cbReject      = "reject"
	cbAdminResend = "adminresend"
)

func buyKeyboard(cat *i18n.Catalog, lang, productID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(cat.T(lang, i18n.KeyBuy), cbBuy+":"+productID),
		),
	)
}

func codeKeyboard(cat *i18n.Catalog, lang, productID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(cat.T(lang, i18n.KeyCodeButton), cbCode+":"+productID),
		),
	)
}

func decisionKeyboard(cat *i18n.Catalog, lang string, uid int64, productID string) tgbotapi.InlineKeyboardMarkup {
	suffix := ":" + strconv.FormatInt(uid, 10) + ":" + productID
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(cat.T(lang, i18n.KeyApproveButton), cbApprove+suffix),
			tgbotapi.NewInlineKeyboardButtonData(cat.T(lang, i18n.KeyRejectButton), cbReject+suffix),
		),
	)
}

func resendKeyboard(cat *i18n.Catalog, lang, productID string, buyers []int64) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buyers))
	for _, uid := range buyers {
		id := strconv.FormatInt(uid, 10)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(cat.T(lang, i18n.KeyResendButton, id), cbAdminResend+":"+productID+":"+id),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func cancelKeyboard(cat *i18n.Catalog, lang string) tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(cat.T(lang, i18n.KeyCancelButton))),
	)
	kb.OneTimeKeyboard = true
	kb.ResizeKeyboard = true
	return kb
}

// splitDecision parses "<uid>:<pid>". Product ids may contain ':'.
func splitDecision(payload string) (uid int64, productID string, ok bool) {
	uidPart, pid, found := strings.Cut(payload, ":")
	if !found || pid == "" {
		return 0, "", false
	}
	uid, err := strconv.ParseInt(uidPart, 10, 64)
	if err != nil {
		return 0, "", false
	}
	return uid, pid, true
}

// splitResend parses "<pid>:<uid>". Product ids may contain ':'.
func splitResend(payload string) (productID string, uid int64, ok bool) {
	i := strings.LastIndexByte(payload, ':')
	if i <= 0 {
		return "", 0, false
	}
	uid, err := strconv.ParseInt(payload[i+1:], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return payload[:i], uid, true
}
