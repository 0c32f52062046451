package bot

import (
	"context"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/roach88/sellbot/internal/engine"
	"github.com/roach88/sellbot/internal/i18n"
	"github.com/roach88/sellbot/internal/ids"
	"github.com/roach88/sellbot/internal/obs"
	"github.com/roach88/sellbot/internal/session"
)

// Sender is the subset of *tgbotapi.BotAPI the transport uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

const (
	limiterSweepEvery = 5 * time.Minute
	limiterIdle       = 30 * time.Minute
)

// Options configures a Bot.
type Options struct {
	AdminPhone string
	RatePerSec float64
	RateBurst  int
	Flows      ids.FlowGenerator
}

// Bot translates Telegram updates into engine calls and replies.
//
// Updates are handled one at a time in arrival order so a user's dialog
// answers are never reordered. Outbound notices go through the engine's
// outbox and do not block the loop.
type Bot struct {
	api      Sender
	eng      *engine.Engine
	cat      *i18n.Catalog
	sessions *session.Sessions
	limiter  *Limiter
	flows    ids.FlowGenerator
	phone    string
}

// New creates a bot. Zero rate options disable throttling.
func New(api Sender, eng *engine.Engine, cat *i18n.Catalog, opts Options) *Bot {
	b := &Bot{
		api:      api,
		eng:      eng,
		cat:      cat,
		sessions: session.New(),
		flows:    opts.Flows,
		phone:    opts.AdminPhone,
	}
	if b.flows == nil {
		b.flows = ids.UUIDv7Generator{}
	}
	if opts.RatePerSec > 0 && opts.RateBurst > 0 {
		b.limiter = NewLimiter(opts.RatePerSec, opts.RateBurst)
	}
	return b
}

// Run handles updates until ctx is cancelled or the channel closes.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) error {
	slog.Info("bot started")
	sweep := time.NewTicker(limiterSweepEvery)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("bot stopping")
			return ctx.Err()
		case <-sweep.C:
			if b.limiter != nil {
				if n := b.limiter.Sweep(limiterIdle); n > 0 {
					slog.Debug("rate limiter swept", "users", n)
				}
			}
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate processes a single update.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	flow := b.flows.Generate()
	ctx = engine.WithFlow(ctx, flow)

	switch {
	case update.Message != nil && update.Message.From != nil:
		m := update.Message
		if !b.allow(m.From.ID, flow) {
			return
		}
		b.handleMessage(ctx, m)
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		cq := update.CallbackQuery
		if !b.allow(cq.From.ID, flow) {
			b.answer(cq, b.cat.T(b.eng.Language(cq.From.ID), i18n.KeySlowDown))
			return
		}
		b.handleCallback(ctx, cq)
	}
}

func (b *Bot) allow(uid int64, flow string) bool {
	if b.limiter == nil || b.limiter.Allow(uid) {
		return true
	}
	obs.RecordThrottled()
	slog.Debug("update throttled", "user_id", uid, "flow", flow)
	return false
}

func (b *Bot) handleMessage(ctx context.Context, m *tgbotapi.Message) {
	uid := m.From.ID
	switch {
	case len(m.Photo) > 0:
		b.handlePhoto(ctx, m)
	case m.IsCommand():
		b.handleCommand(ctx, m)
	case b.sessions.InDraft(uid):
		b.handleDraft(ctx, m)
	}
}

func (b *Bot) handlePhoto(ctx context.Context, m *tgbotapi.Message) {
	uid := m.From.ID
	pid, ok := b.sessions.TakeSelected(uid)
	if !ok {
		slog.Debug("photo without selected product", "user_id", uid, "flow", engine.FlowFromContext(ctx))
		return
	}
	proof := m.Photo[len(m.Photo)-1].FileID
	if _, err := b.eng.SubmitProof(ctx, uid, pid, proof); err != nil {
		b.replyErr(ctx, m.Chat.ID, uid, err)
		return
	}
	b.replyKey(m.Chat.ID, uid, i18n.KeyProofSubmitted)
}

// lang returns uid's reply language.
func (b *Bot) lang(uid int64) string {
	return b.eng.Language(uid)
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		slog.Warn("reply not delivered", "error", err)
	}
}

func (b *Bot) reply(chatID int64, text string, markup any) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	b.send(msg)
}

func (b *Bot) replyKey(chatID, uid int64, key string, args ...string) {
	b.reply(chatID, b.cat.T(b.lang(uid), key, args...), nil)
}

// replyErr reports a workflow error to the actor. Expected outcomes are
// user-facing; anything else is logged and reported generically.
func (b *Bot) replyErr(ctx context.Context, chatID, uid int64, err error) {
	key, ok := errorKeys[engine.CodeOf(err)]
	if !ok || !engine.IsExpected(err) {
		slog.Error("action failed",
			"user_id", uid,
			"flow", engine.FlowFromContext(ctx),
			"error", err,
		)
		key = i18n.KeyInternalError
	}
	b.replyKey(chatID, uid, key)
}

func (b *Bot) answer(cq *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, text)); err != nil {
		slog.Debug("callback not answered", "error", err)
	}
}

var errorKeys = map[engine.ErrorCode]string{
	engine.CodeUnauthorized:       i18n.KeyUnauthorized,
	engine.CodeProductNotFound:    i18n.KeyProductNotFound,
	engine.CodeProductExists:      i18n.KeyProductExists,
	engine.CodePendingNotFound:    i18n.KeyPendingNotFound,
	engine.CodeNotPurchased:       i18n.KeyNotPurchased,
	engine.CodeNoSecretConfigured: i18n.KeyNoTOTP,
	engine.CodeInvalidSecret:      i18n.KeyInvalidSecret,
	engine.CodeInvalidField:       i18n.KeyInvalidField,
	engine.CodeInvalidUserID:      i18n.KeyInvalidUserID,
	engine.CodeBuyerNotFound:      i18n.KeyBuyerNotFound,
	engine.CodeInvalidInput:       i18n.KeyInvalidInput,
}
