package bot

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/roach88/sellbot/internal/engine"
	"github.com/roach88/sellbot/internal/i18n"
)

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	b.answer(cq, "")

	uid := cq.From.ID
	chatID := uid
	if cq.Message != nil && cq.Message.Chat != nil {
		chatID = cq.Message.Chat.ID
	}

	action, payload, _ := strings.Cut(cq.Data, ":")
	switch action {
	case cbBuy:
		if payload == "" {
			break
		}
		b.sessions.Select(uid, engine.NormalizeProductID(payload))
		b.replyKey(chatID, uid, i18n.KeySendProof)
		return
	case cbCode:
		if payload == "" {
			break
		}
		b.sendCode(ctx, chatID, uid, payload)
		return
	case cbApprove, cbReject:
		buyer, pid, ok := splitDecision(payload)
		if !ok {
			break
		}
		if !b.eng.IsAdmin(uid) {
			b.replyKey(chatID, uid, i18n.KeyUnauthorized)
			return
		}
		done := i18n.KeyRejected
		if action == cbApprove {
			done = i18n.KeyApproved
		}
		b.resolve(ctx, chatID, uid, buyer, pid, action == cbApprove, done)
		return
	case cbAdminResend:
		pid, buyer, ok := splitResend(payload)
		if !ok {
			break
		}
		n, err := b.eng.ResendTo(ctx, uid, pid, buyer)
		b.reportResend(ctx, chatID, uid, n, err)
		return
	}
	slog.Debug("unrecognised callback", "data", cq.Data, "user_id", uid, "flow", engine.FlowFromContext(ctx))
}
