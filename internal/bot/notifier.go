package bot

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/roach88/sellbot/internal/engine"
	"github.com/roach88/sellbot/internal/i18n"
)

// Languages resolves a user's preferred language. Implemented by
// *engine.Engine.
type Languages interface {
	Language(uid int64) string
}

// Notifier renders engine notices as Telegram messages in the
// recipient's language.
type Notifier struct {
	api Sender
	cat *i18n.Catalog

	// Languages is consulted per notice. Set it before delivery starts;
	// nil renders everything in English.
	Languages Languages
}

// NewNotifier creates a notifier sending through api.
func NewNotifier(api Sender, cat *i18n.Catalog) *Notifier {
	return &Notifier{api: api, cat: cat}
}

func (n *Notifier) lang(uid int64) string {
	if n.Languages == nil {
		return i18n.Default
	}
	return n.Languages.Language(uid)
}

// Notify implements engine.Notifier.
func (n *Notifier) Notify(_ context.Context, notice engine.Notice) error {
	var c tgbotapi.Chattable
	switch notice.Kind {
	case engine.NoticeCredentials:
		c = n.credentials(notice)
	case engine.NoticeProof:
		c = n.proof(notice)
	default:
		return fmt.Errorf("unknown notice kind %q", notice.Kind)
	}
	if _, err := n.api.Send(c); err != nil {
		return fmt.Errorf("send %s notice to %d: %w", notice.Kind, notice.To, err)
	}
	return nil
}

func (n *Notifier) credentials(notice engine.Notice) tgbotapi.MessageConfig {
	lang := n.lang(notice.To)
	text := n.cat.T(lang, i18n.KeyCredentials, notice.Username, notice.Password) +
		"\n\n" + n.cat.T(lang, i18n.KeyUseCode, notice.ProductID)
	msg := tgbotapi.NewMessage(notice.To, text)
	msg.ReplyMarkup = codeKeyboard(n.cat, lang, notice.ProductID)
	return msg
}

func (n *Notifier) proof(notice engine.Notice) tgbotapi.PhotoConfig {
	lang := n.lang(notice.To)
	uid := strconv.FormatInt(notice.BuyerID, 10)
	photo := tgbotapi.NewPhoto(notice.To, tgbotapi.FileID(notice.ProofRef))
	photo.Caption = n.cat.T(lang, i18n.KeyProofCaption, uid, notice.ProductID, uid, notice.ProductID)
	photo.ReplyMarkup = decisionKeyboard(n.cat, lang, notice.BuyerID, notice.ProductID)
	return photo
}
