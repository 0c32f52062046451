package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/roach88/sellbot/internal/engine"
	"github.com/roach88/sellbot/internal/i18n"
)

type command struct {
	admin bool
	run   func(b *Bot, ctx context.Context, m *tgbotapi.Message, args []string)
}

var commands = map[string]command{
	"start":         {run: (*Bot).cmdStart},
	"help":          {run: (*Bot).cmdHelp},
	"contact":       {run: (*Bot).cmdContact},
	"setlanguage":   {run: (*Bot).cmdSetLanguage},
	"products":      {run: (*Bot).cmdProducts},
	"code":          {run: (*Bot).cmdCode},
	"cancel":        {run: (*Bot).cmdCancel},
	"addproduct":    {admin: true, run: (*Bot).cmdAddProduct},
	"editproduct":   {admin: true, run: (*Bot).cmdEditProduct},
	"deleteproduct": {admin: true, run: (*Bot).cmdDeleteProduct},
	"approve":       {admin: true, run: (*Bot).cmdApprove},
	"reject":        {admin: true, run: (*Bot).cmdReject},
	"pending":       {admin: true, run: (*Bot).cmdPending},
	"buyers":        {admin: true, run: (*Bot).cmdBuyers},
	"deletebuyer":   {admin: true, run: (*Bot).cmdDeleteBuyer},
	"clearbuyers":   {admin: true, run: (*Bot).cmdClearBuyers},
	"resend":        {admin: true, run: (*Bot).cmdResend},
	"stats":         {admin: true, run: (*Bot).cmdStats},
	"history":       {admin: true, run: (*Bot).cmdHistory},
}

func (b *Bot) handleCommand(ctx context.Context, m *tgbotapi.Message) {
	uid := m.From.ID
	cmd, ok := commands[strings.ToLower(m.Command())]
	if !ok {
		b.replyKey(m.Chat.ID, uid, i18n.KeyUnknownCommand)
		return
	}
	if cmd.admin && !b.eng.IsAdmin(uid) {
		b.replyKey(m.Chat.ID, uid, i18n.KeyUnauthorized)
		return
	}
	cmd.run(b, ctx, m, strings.Fields(m.CommandArguments()))
}

func (b *Bot) cmdStart(_ context.Context, m *tgbotapi.Message, _ []string) {
	b.replyKey(m.Chat.ID, m.From.ID, i18n.KeyStart)
}

func (b *Bot) cmdHelp(_ context.Context, m *tgbotapi.Message, _ []string) {
	uid := m.From.ID
	text := b.cat.T(b.lang(uid), i18n.KeyHelp)
	if b.eng.IsAdmin(uid) {
		text += "\n\n" + b.cat.T(b.lang(uid), i18n.KeyHelpAdmin)
	}
	b.reply(m.Chat.ID, text, nil)
}

func (b *Bot) cmdContact(_ context.Context, m *tgbotapi.Message, _ []string) {
	b.replyKey(m.Chat.ID, m.From.ID, i18n.KeyContact, b.phone)
}

func (b *Bot) cmdSetLanguage(ctx context.Context, m *tgbotapi.Message, args []string) {
	uid := m.From.ID
	if len(args) == 0 {
		b.replyKey(m.Chat.ID, uid, i18n.KeyLanguageUsage)
		return
	}
	code, ok := b.cat.Match(args[0])
	if !ok {
		b.replyKey(m.Chat.ID, uid, i18n.KeyLanguagesSupport)
		return
	}
	if err := b.eng.SetLanguage(ctx, uid, code); err != nil {
		b.replyErr(ctx, m.Chat.ID, uid, err)
		return
	}
	b.replyKey(m.Chat.ID, uid, i18n.KeyLanguageSet, i18n.DisplayName(code))
}

func (b *Bot) cmdProducts(_ context.Context, m *tgbotapi.Message, _ []string) {
	uid := m.From.ID
	lang := b.lang(uid)
	listings := b.eng.ListProducts()
	if len(listings) == 0 {
		b.replyKey(m.Chat.ID, uid, i18n.KeyNoProducts)
		return
	}
	for _, l := range listings {
		text := strings.TrimRight(b.cat.T(lang, i18n.KeyProductLine, l.ID, l.Price, l.Name), "\n")
		b.reply(m.Chat.ID, text, buyKeyboard(b.cat, lang, l.ID))
	}
}

func (b *Bot) cmdCode(ctx context.Context, m *tgbotapi.Message, args []string) {
	if len(args) == 0 {
		b.replyKey(m.Chat.ID, m.From.ID, i18n.KeyCodeUsage)
		return
	}
	b.sendCode(ctx, m.Chat.ID, m.From.ID, args[0])
}

func (b *Bot) sendCode(ctx context.Context, chatID, uid int64, productID string) {
	code, err := b.eng.GetCode(ctx, uid, productID)
	if err != nil {
		b.replyErr(ctx, chatID, uid, err)
		return
	}
	b.replyKey(chatID, uid, i18n.KeyCode, code)
}

func (b *Bot) cmdCancel(_ context.Context, m *tgbotapi.Message, _ []string) {
	uid := m.From.ID
	if !b.sessions.Cancel(uid) {
		b.replyKey(m.Chat.ID, uid, i18n.KeyNothingToCancel)
		return
	}
	b.reply(m.Chat.ID, b.cat.T(b.lang(uid), i18n.KeyCancelled), tgbotapi.NewRemoveKeyboard(false))
}

func (b *Bot) cmdAddProduct(ctx context.Context, m *tgbotapi.Message, args []string) {
	uid := m.From.ID
	switch {
	case len(args) == 0:
		b.sessions.StartDraft(uid)
		lang := b.lang(uid)
		b.reply(m.Chat.ID, b.cat.T(lang, i18n.KeyAskID), cancelKeyboard(b.cat, lang))
	case len(args) >= 5:
		in := engine.ProductInput{
			Price:    args[1],
			Username: args[2],
			Password: args[3],
			Secret:   args[4],
			Name:     strings.Join(args[5:], " "),
		}
		if err := b.eng.AddProduct(ctx, uid, args[0], in); err != nil {
			b.replyErr(ctx, m.Chat.ID, uid, err)
			return
		}
		b.replyKey(m.Chat.ID, uid, i18n.KeyProductAdded)
	default:
		b.replyKey(m.Chat.ID, uid, i18n.KeyAddProductUsage)
	}
}

func (b *Bot) cmdEditProduct(ctx context.Context, m *tgbotapi.Message, args []string) {
	uid := m.From.ID
	if len(args) < 3 {
		b.replyKey(m.Chat.ID, uid, i18n.KeyEditProductUsage)
		return
	}
	field, err := engine.ParseField(args[1])
	if err != nil {
		b.replyErr(ctx, m.Chat.ID, uid, err)
		return
	}
	if err := b.eng.EditProduct(ctx, uid, args[0], field, strings.Join(args[2:], " ")); err != nil {
		b.replyErr(ctx, m.Chat.ID, uid, err)
		return
	}
	b.replyKey(m.Chat.ID, uid, i18n.KeyProductUpdated)
}

func (b *Bot) cmdDeleteProduct(ctx context.Context, m *tgbotapi.Message, args []string) {
	uid := m.From.ID
	if len(args) != 1 {
		b.replyKey(m.Chat.ID, uid, i18n.KeyDeleteUsage)
		return
	}
	if err := b.eng.DeleteProduct(ctx, uid, args[0]); err != nil {
		b.replyErr(ctx, m.Chat.ID, uid, err)
		return
	}
	b.replyKey(m.Chat.ID, uid, i18n.KeyProductDeleted)
}

func (b *Bot) cmdApprove(ctx context.Context, m *tgbotapi.Message, args []string) {
	b.decide(ctx, m.Chat.ID, m.From.ID, args, true)
}

func (b *Bot) cmdReject(ctx context.Context, m *tgbotapi.Message, args []string) {
	b.decide(ctx, m.Chat.ID, m.From.ID, args, false)
}

func (b *Bot) decide(ctx context.Context, chatID, actor int64, args []string, approve bool) {
	usage, done := i18n.KeyRejectUsage, i18n.KeyRejected
	if approve {
		usage, done = i18n.KeyApproveUsage, i18n.KeyApproved
	}
	if len(args) != 2 {
		b.replyKey(chatID, actor, usage)
		return
	}
	uid, err := engine.ParseUserID(args[0])
	if err != nil {
		b.replyKey(chatID, actor, usage)
		return
	}
	b.resolve(ctx, chatID, actor, uid, args[1], approve, done)
}

func (b *Bot) resolve(ctx context.Context, chatID, actor, uid int64, productID string, approve bool, doneKey string) {
	var err error
	if approve {
		_, err = b.eng.Approve(ctx, actor, uid, productID)
	} else {
		_, err = b.eng.Reject(ctx, actor, uid, productID)
	}
	if err != nil {
		b.replyErr(ctx, chatID, actor, err)
		return
	}
	b.replyKey(chatID, actor, doneKey)
}

func (b *Bot) cmdPending(ctx context.Context, m *tgbotapi.Message, _ []string) {
	uid := m.From.ID
	pending, err := b.eng.ListPending(uid)
	if err != nil {
		b.replyErr(ctx, m.Chat.ID, uid, err)
		return
	}
	if len(pending) == 0 {
		b.replyKey(m.Chat.ID, uid, i18n.KeyPendingEmpty)
		return
	}
	lang := b.lang(uid)
	lines := make([]string, 0, len(pending))
	for i, req := range pending {
		lines = append(lines, b.cat.T(lang, i18n.KeyPendingLine,
			strconv.Itoa(i+1), strconv.FormatInt(req.UserID, 10), req.ProductID))
	}
	b.reply(m.Chat.ID, strings.Join(lines, "\n"), nil)
}

func (b *Bot) cmdBuyers(ctx context.Context, m *tgbotapi.Message, args []string) {
	uid := m.From.ID
	if len(args) != 1 {
		b.replyKey(m.Chat.ID, uid, i18n.KeyBuyersUsage)
		return
	}
	buyers, err := b.eng.Buyers(uid, args[0])
	if err != nil {
		b.replyErr(ctx, m.Chat.ID, uid, err)
		return
	}
	if len(buyers) == 0 {
		b.replyKey(m.Chat.ID, uid, i18n.KeyNoBuyersList)
		return
	}
	lang := b.lang(uid)
	b.reply(m.Chat.ID, b.cat.T(lang, i18n.KeyBuyersList, joinIDs(buyers)),
		resendKeyboard(b.cat, lang, engine.NormalizeProductID(args[0]), buyers))
}

func (b *Bot) cmdDeleteBuyer(ctx context.Context, m *tgbotapi.Message, args []string) {
	actor := m.From.ID
	if len(args) != 2 {
		b.replyKey(m.Chat.ID, actor, i18n.KeyDeleteBuyerUsage)
		return
	}
	uid, err := engine.ParseUserID(args[1])
	if err != nil {
		b.replyErr(ctx, m.Chat.ID, actor, err)
		return
	}
	if err := b.eng.DeleteBuyer(ctx, actor, args[0], uid); err != nil {
		b.replyErr(ctx, m.Chat.ID, actor, err)
		return
	}
	b.replyKey(m.Chat.ID, actor, i18n.KeyBuyerRemoved)
}

func (b *Bot) cmdClearBuyers(ctx context.Context, m *tgbotapi.Message, args []string) {
	uid := m.From.ID
	if len(args) != 1 {
		b.replyKey(m.Chat.ID, uid, i18n.KeyClearBuyersUsage)
		return
	}
	if _, err := b.eng.ClearBuyers(ctx, uid, args[0]); err != nil {
		b.replyErr(ctx, m.Chat.ID, uid, err)
		return
	}
	b.replyKey(m.Chat.ID, uid, i18n.KeyAllBuyersRemoved)
}

func (b *Bot) cmdResend(ctx context.Context, m *tgbotapi.Message, args []string) {
	actor := m.From.ID
	if len(args) < 1 || len(args) > 2 {
		b.replyKey(m.Chat.ID, actor, i18n.KeyResendUsage)
		return
	}
	var (
		n   int
		err error
	)
	if len(args) == 2 {
		uid, perr := engine.ParseUserID(args[1])
		if perr != nil {
			b.replyErr(ctx, m.Chat.ID, actor, perr)
			return
		}
		n, err = b.eng.ResendTo(ctx, actor, args[0], uid)
	} else {
		n, err = b.eng.ResendAll(ctx, actor, args[0])
	}
	b.reportResend(ctx, m.Chat.ID, actor, n, err)
}

func (b *Bot) reportResend(ctx context.Context, chatID, actor int64, n int, err error) {
	switch {
	case err != nil:
		b.replyErr(ctx, chatID, actor, err)
	case n == 0:
		b.replyKey(chatID, actor, i18n.KeyNoBuyers)
	default:
		b.replyKey(chatID, actor, i18n.KeyCredentialsResent, strconv.Itoa(n))
	}
}

func (b *Bot) cmdStats(ctx context.Context, m *tgbotapi.Message, args []string) {
	uid := m.From.ID
	if len(args) != 1 {
		b.replyKey(m.Chat.ID, uid, i18n.KeyStatsUsage)
		return
	}
	st, err := b.eng.Stats(uid, args[0])
	if err != nil {
		b.replyErr(ctx, m.Chat.ID, uid, err)
		return
	}
	b.replyKey(m.Chat.ID, uid, i18n.KeyStats, st.Price, strconv.Itoa(st.Buyers), strconv.Itoa(st.Pending))
}

func (b *Bot) cmdHistory(ctx context.Context, m *tgbotapi.Message, args []string) {
	uid := m.From.ID
	if len(args) != 1 {
		b.replyKey(m.Chat.ID, uid, i18n.KeyHistoryUsage)
		return
	}
	entries, err := b.eng.History(ctx, uid, args[0], 20)
	if err != nil {
		b.replyErr(ctx, m.Chat.ID, uid, err)
		return
	}
	if len(entries) == 0 {
		b.replyKey(m.Chat.ID, uid, i18n.KeyHistoryEmpty)
		return
	}
	lang := b.lang(uid)
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, b.cat.T(lang, i18n.KeyHistoryLine,
			e.At.UTC().Format("2006-01-02 15:04"), string(e.Kind), strconv.FormatInt(e.UserID, 10)))
	}
	b.reply(m.Chat.ID, strings.Join(lines, "\n"), nil)
}

func joinIDs(uids []int64) string {
	parts := make([]string, len(uids))
	for i, uid := range uids {
		parts[i] = strconv.FormatInt(uid, 10)
	}
	return strings.Join(parts, ", ")
}
