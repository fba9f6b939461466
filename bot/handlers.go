package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"subgate/app"
)

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user := msg.From
	if user == nil {
		return
	}
	b.svc.TouchUser(ctx, user.ID, user.UserName, fullName(user))

	if msg.IsCommand() {
		b.setPending(user.ID, pendingNone)
		switch msg.Command() {
		case "start":
			b.log.Sugar().Infow("User started the bot", "user_id", user.ID)
			b.send(msg.Chat.ID, welcomeText(user.FirstName), checkKeyboard())
		case "check":
			b.renderCheck(ctx, msg.Chat.ID, 0, user.ID)
		case "admin":
			if !b.svc.IsAdmin(user.ID) {
				b.send(msg.Chat.ID, "You don't have access to this command.", nil)
				return
			}
			b.renderAdminPanel(ctx, msg.Chat.ID, 0)
		default:
			b.send(msg.Chat.ID, usageText, nil)
		}
		return
	}

	if b.svc.IsAdmin(user.ID) {
		if p := b.takePending(user.ID); p != pendingNone {
			b.handleAdminInput(ctx, msg, p)
			return
		}
	}
	b.send(msg.Chat.ID, usageText, nil)
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	if q.Message == nil || q.From == nil {
		return
	}
	user := q.From
	chatID := q.Message.Chat.ID
	messageID := q.Message.MessageID
	data := q.Data

	b.answer(q.ID, "")
	b.svc.TouchUser(ctx, user.ID, user.UserName, fullName(user))
	b.log.Sugar().Debugw("Callback", "data", data, "user_id", user.ID)

	switch {
	case data == "check":
		b.renderCheck(ctx, chatID, messageID, user.ID)
		return

	case strings.HasPrefix(data, "confirm_"):
		b.handleConfirm(ctx, q, strings.TrimPrefix(data, "confirm_"))
		return
	}

	// Everything below is the administrative surface.
	if !b.svc.IsAdmin(user.ID) {
		b.answer(q.ID, "No access")
		return
	}

	switch {
	case data == "admin":
		b.renderAdminPanel(ctx, chatID, messageID)

	case data == "manage":
		b.renderManage(ctx, chatID, messageID)

	case data == "add_public":
		b.setPending(user.ID, pendingPublicChannel)
		b.render(chatID, messageID, addPublicPrompt, nil)

	case data == "add_by_id":
		b.setPending(user.ID, pendingChannelByID)
		b.render(chatID, messageID, addByIDPrompt, nil)

	case data == "add_private":
		b.setPending(user.ID, pendingPrivateChannel)
		b.render(chatID, messageID, addPrivatePrompt, nil)

	case data == "add_final":
		b.setPending(user.ID, pendingFinalContent)
		b.render(chatID, messageID, addFinalPrompt, nil)

	case data == "pick_delete":
		b.renderDeletePicker(ctx, q)

	case data == "pick_delete_final":
		b.renderDeleteFinalPicker(ctx, q)

	case strings.HasPrefix(data, "delete_final_"):
		b.handleDeleteFinal(ctx, q, strings.TrimPrefix(data, "delete_final_"))

	case strings.HasPrefix(data, "delete_"):
		b.handleDelete(ctx, q, strings.TrimPrefix(data, "delete_"))

	default:
		b.log.Sugar().Warnw("Unknown callback", "data", data)
		b.answer(q.ID, "Unknown action")
	}
}

// renderCheck runs a verification pass and renders the decision, editing the
// originating message when there is one.
func (b *Bot) renderCheck(ctx context.Context, chatID int64, messageID int, userID int64) {
	decision, err := b.svc.CheckAccess(ctx, userID)
	if err != nil {
		b.log.Sugar().Errorw("Check failed", "user_id", userID, "err", err)
		b.render(chatID, messageID, serviceUnavailableText, checkKeyboard())
		return
	}
	b.renderDecision(chatID, messageID, userID, decision)
}

func (b *Bot) handleConfirm(ctx context.Context, q *tgbotapi.CallbackQuery, rawID string) {
	user := q.From
	channelID, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil {
		b.answer(q.ID, "Unknown channel")
		return
	}

	decision, err := b.svc.ConfirmAndCheck(ctx, user.ID, uint(channelID))
	switch {
	case errors.Is(err, app.ErrNotFound), errors.Is(err, app.ErrNotConfirmable):
		b.answer(q.ID, "This channel can't be confirmed")
		return
	case err != nil:
		b.log.Sugar().Errorw("Confirm failed", "user_id", user.ID, "channel_id", channelID, "err", err)
		b.render(q.Message.Chat.ID, q.Message.MessageID, serviceUnavailableText, checkKeyboard())
		return
	}

	b.answer(q.ID, "Subscription confirmed")
	b.renderDecision(q.Message.Chat.ID, q.Message.MessageID, user.ID, decision)
}

func (b *Bot) renderDecision(chatID int64, messageID int, userID int64, decision *app.Decision) {
	isAdmin := b.svc.IsAdmin(userID)
	if decision.Unlocked {
		text, markup := unlockedView(decision.Reward, isAdmin)
		b.render(chatID, messageID, text, markup)
		return
	}
	text, markup := remediationView(decision.Remediation, isAdmin)
	b.render(chatID, messageID, text, markup)
}

func (b *Bot) renderAdminPanel(ctx context.Context, chatID int64, messageID int) {
	stats, err := b.svc.Stats(ctx)
	if err != nil {
		b.log.Sugar().Errorw("Failed to load stats", "err", err)
		b.render(chatID, messageID, serviceUnavailableText, nil)
		return
	}
	b.render(chatID, messageID, adminPanelText(stats), adminPanelKeyboard())
}

func (b *Bot) renderManage(ctx context.Context, chatID int64, messageID int) {
	channels, err := b.svc.ListChannelRequirements(ctx)
	if err != nil {
		b.render(chatID, messageID, serviceUnavailableText, nil)
		return
	}
	content, err := b.svc.ListFinalContent(ctx)
	if err != nil {
		b.render(chatID, messageID, serviceUnavailableText, nil)
		return
	}
	b.render(chatID, messageID, manageText(channels, content), manageKeyboard(len(channels) > 0, len(content) > 0))
}

func (b *Bot) renderDeletePicker(ctx context.Context, q *tgbotapi.CallbackQuery) {
	channels, err := b.svc.ListChannelRequirements(ctx)
	if err != nil {
		b.render(q.Message.Chat.ID, q.Message.MessageID, serviceUnavailableText, nil)
		return
	}
	if len(channels) == 0 {
		b.alert(q.ID, "No channels to delete")
		return
	}
	b.render(q.Message.Chat.ID, q.Message.MessageID, "Pick a channel to delete:", deletePickerKeyboard(channels))
}

func (b *Bot) renderDeleteFinalPicker(ctx context.Context, q *tgbotapi.CallbackQuery) {
	content, err := b.svc.ListFinalContent(ctx)
	if err != nil {
		b.render(q.Message.Chat.ID, q.Message.MessageID, serviceUnavailableText, nil)
		return
	}
	if len(content) == 0 {
		b.alert(q.ID, "No final content to delete")
		return
	}
	b.render(q.Message.Chat.ID, q.Message.MessageID, "Pick final content to delete:", deleteFinalPickerKeyboard(content))
}

func (b *Bot) handleDelete(ctx context.Context, q *tgbotapi.CallbackQuery, rawID string) {
	id, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil {
		b.answer(q.ID, "Unknown channel")
		return
	}
	if err := b.svc.RemoveChannelRequirement(ctx, uint(id)); err != nil {
		b.log.Sugar().Errorw("Failed to delete channel", "id", id, "err", err)
		b.answer(q.ID, "Failed to delete channel")
		return
	}
	b.answer(q.ID, "Channel deleted")
	b.renderManage(ctx, q.Message.Chat.ID, q.Message.MessageID)
}

func (b *Bot) handleDeleteFinal(ctx context.Context, q *tgbotapi.CallbackQuery, rawID string) {
	id, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil {
		b.answer(q.ID, "Unknown entry")
		return
	}
	if err := b.svc.RemoveFinalContent(ctx, uint(id)); err != nil {
		b.log.Sugar().Errorw("Failed to delete final content", "id", id, "err", err)
		b.answer(q.ID, "Failed to delete final content")
		return
	}
	b.answer(q.ID, "Final content deleted")
	b.renderManage(ctx, q.Message.Chat.ID, q.Message.MessageID)
}

func (b *Bot) handleAdminInput(ctx context.Context, msg *tgbotapi.Message, p pendingInput) {
	text := strings.TrimSpace(msg.Text)

	switch p {
	case pendingPublicChannel, pendingChannelByID, pendingPrivateChannel:
		ch, err := parseChannelInput(p, text)
		if err != nil {
			b.send(msg.Chat.ID, "Invalid format: "+err.Error(), nil)
			return
		}
		if _, err := b.svc.AddChannelRequirement(ctx, ch); err != nil {
			b.log.Sugar().Errorw("Failed to add channel", "err", err)
			b.send(msg.Chat.ID, "Failed to add channel.", nil)
			return
		}
		b.send(msg.Chat.ID, "Channel added:\n"+ch.Name+"\n"+ch.URL, nil)

	case pendingFinalContent:
		fc, err := app.ParseFinalContent(text)
		if err != nil {
			b.send(msg.Chat.ID, "Invalid format: "+err.Error(), nil)
			return
		}
		if err := b.svc.AddFinalContent(ctx, fc); err != nil {
			b.log.Sugar().Errorw("Failed to add final content", "err", err)
			b.send(msg.Chat.ID, "Failed to add final content.", nil)
			return
		}
		b.send(msg.Chat.ID, "Final content added:\n"+fc.Name+"\n"+fc.URL, nil)

	default:
		return
	}

	b.renderManage(ctx, msg.Chat.ID, 0)
}

func parseChannelInput(p pendingInput, text string) (*app.Channel, error) {
	switch p {
	case pendingPublicChannel:
		return app.ParsePublicChannel(text)
	case pendingChannelByID:
		return app.ParseChannelByID(text)
	default:
		return app.ParsePrivateChannel(text)
	}
}

func fullName(u *tgbotapi.User) string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
