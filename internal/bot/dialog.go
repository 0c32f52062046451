package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/roach88/sellbot/internal/engine"
	"github.com/roach88/sellbot/internal/i18n"
	"github.com/roach88/sellbot/internal/session"
)

// prompts maps the step awaiting an answer to its question.
var prompts = map[session.Step]string{
	session.StepID:       i18n.KeyAskID,
	session.StepPrice:    i18n.KeyAskPrice,
	session.StepUsername: i18n.KeyAskUsername,
	session.StepPassword: i18n.KeyAskPassword,
	session.StepSecret:   i18n.KeyAskSecret,
	session.StepName:     i18n.KeyAskName,
}

// handleDraft feeds a plain-text answer into the add-product dialog.
func (b *Bot) handleDraft(ctx context.Context, m *tgbotapi.Message) {
	uid := m.From.ID
	lang := b.lang(uid)

	if b.cat.IsCancel(m.Text) {
		b.sessions.Cancel(uid)
		b.reply(m.Chat.ID, b.cat.T(lang, i18n.KeyCancelled), tgbotapi.NewRemoveKeyboard(false))
		return
	}

	if strings.TrimSpace(m.Text) == "" {
		return
	}
	d, done, ok := b.sessions.Feed(uid, m.Text)
	if !ok {
		return
	}
	if !done {
		// Reject a taken id before asking five more questions.
		if d.Step == session.StepPrice {
			if _, exists := b.eng.Product(d.ID); exists {
				b.sessions.Cancel(uid)
				b.reply(m.Chat.ID, b.cat.T(lang, i18n.KeyProductExists), tgbotapi.NewRemoveKeyboard(false))
				return
			}
		}
		b.reply(m.Chat.ID, b.cat.T(lang, prompts[d.Step]), cancelKeyboard(b.cat, lang))
		return
	}

	err := b.eng.AddProduct(ctx, uid, d.ID, engine.ProductInput{
		Price:    d.Price,
		Username: d.Username,
		Password: d.Password,
		Secret:   d.Secret,
		Name:     d.Name,
	})
	if err != nil {
		b.replyErr(ctx, m.Chat.ID, uid, err)
		return
	}
	b.reply(m.Chat.ID, b.cat.T(lang, i18n.KeyProductAdded), tgbotapi.NewRemoveKeyboard(false))
}
