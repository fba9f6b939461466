package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"subgate/app"
)

const usageText = "Available commands:\n" +
	"/start - start the bot\n" +
	"/check - check your subscriptions\n" +
	"/admin - admin panel (admin only)"

const serviceUnavailableText = "Service is temporarily unavailable, please try again later."

const addPublicPrompt = "*Add a public channel*\n\n" +
	"Send a message in the format:\n" +
	"`@username Channel Name`"

const addByIDPrompt = "*Add a channel by id*\n\n" +
	"Send a message in the format:\n" +
	"`chat_id Channel Name`\n\n" +
	"Channel ids usually start with -100."

const addPrivatePrompt = "*Add a private channel*\n\n" +
	"Send a message in the format:\n" +
	"`https://t.me/+invite Channel Name`"

const addFinalPrompt = "*Add final content*\n\n" +
	"Send a message in the format:\n" +
	"`https://... Name Optional description`"

func welcomeText(firstName string) string {
	return fmt.Sprintf(
		"*Welcome, %s!*\n\n"+
			"To access the content you need to join the required channels.\n\n"+
			"Press the button below to check your subscriptions.",
		firstName,
	)
}

func checkKeyboard() *tgbotapi.InlineKeyboardMarkup {
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Check subscriptions", "check"),
		),
	)
	return &markup
}

// remediationView renders the unmet list: join buttons for public channels, a
// link plus confirm button for private ones. Broken public requirements get a
// distinct marker, and the admin additionally sees the failure reason.
func remediationView(unmet []app.UnmetRequirement, isAdmin bool) (string, *tgbotapi.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString("*You need to join these channels:*\n\n")

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, req := range unmet {
		switch {
		case req.Kind == app.KindPrivate:
			sb.WriteString("• " + req.Name + " (private, confirmation required)\n")
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL(req.Name, req.URL),
				tgbotapi.NewInlineKeyboardButtonData("Confirm", fmt.Sprintf("confirm_%d", req.ChannelID)),
			))

		case req.Accessible:
			sb.WriteString("• " + req.Name + "\n")
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("Join "+req.Name, req.URL),
			))

		default:
			sb.WriteString("• ⚠ " + req.Name + " (unavailable, contact the admin)\n")
			if isAdmin && req.ErrorReason != "" {
				sb.WriteString("    reason: " + req.ErrorReason + "\n")
			}
		}
	}

	sb.WriteString("\nPress the check button once you are done.")
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Check again", "check"),
	))

	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return sb.String(), &markup
}

func unlockedView(reward *app.FinalContent, isAdmin bool) (string, *tgbotapi.InlineKeyboardMarkup) {
	var sb strings.Builder
	var rows [][]tgbotapi.InlineKeyboardButton

	if reward == nil {
		sb.WriteString("*Congratulations!*\n\n")
		sb.WriteString("You joined all the required channels.\n")
		sb.WriteString("The content link will be added soon.")
	} else {
		sb.WriteString("*Access granted!*\n\n")
		sb.WriteString("*" + reward.Name + "*\n")
		if reward.Description != "" {
			sb.WriteString(reward.Description + "\n")
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("Open content", reward.URL),
		))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Check again", "check"),
	))
	if isAdmin {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Admin panel", "admin"),
		))
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return sb.String(), &markup
}

func adminPanelText(stats app.Stats) string {
	return fmt.Sprintf(
		"*Admin panel*\n\n"+
			"Users: %d\n"+
			"Channels: %d\n"+
			"Final content entries: %d",
		stats.Users, stats.Channels, stats.FinalContent,
	)
}

func adminPanelKeyboard() *tgbotapi.InlineKeyboardMarkup {
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Manage channels", "manage"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Check subscriptions", "check"),
		),
	)
	return &markup
}

func manageText(channels []app.Channel, content []app.FinalContent) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*Channel management*\n\nRequired channels (%d):\n", len(channels))
	for _, ch := range channels {
		sb.WriteString(channelLine(&ch) + "\n")
	}

	fmt.Fprintf(&sb, "\nFinal content (%d):\n", len(content))
	for _, fc := range content {
		marker := ""
		if fc.Active {
			marker = " (active)"
		}
		sb.WriteString("• " + fc.Name + marker + "\n")
	}
	return sb.String()
}

func channelLine(ch *app.Channel) string {
	marker := "🔓"
	if ch.Kind == app.KindPrivate {
		marker = "🔒"
	}

	switch {
	case ch.ChatID != 0:
		return fmt.Sprintf("%s %s (id: %d)", marker, ch.Name, ch.ChatID)
	case ch.Username != "":
		return fmt.Sprintf("%s %s (@%s)", marker, ch.Name, ch.Username)
	default:
		return fmt.Sprintf("%s %s (link)", marker, ch.Name)
	}
}

func manageKeyboard(hasChannels, hasContent bool) *tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Add public channel", "add_public")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Add private channel", "add_private")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Add channel by id", "add_by_id")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Add final content", "add_final")),
	}
	if hasChannels {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Delete channel", "pick_delete"),
		))
	}
	if hasContent {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Delete final content", "pick_delete_final"),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Back", "admin"),
	))

	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func deletePickerKeyboard(channels []app.Channel) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, ch := range channels {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(ch.Name, fmt.Sprintf("delete_%d", ch.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Back", "manage"),
	))
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func deleteFinalPickerKeyboard(content []app.FinalContent) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, fc := range content {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fc.Name, fmt.Sprintf("delete_final_%d", fc.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Back", "manage"),
	))
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

// render edits the originating message when there is one, otherwise sends a
// fresh message.
func (b *Bot) render(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	if messageID == 0 {
		b.send(chatID, text, markup)
		return
	}

	var msg tgbotapi.Chattable
	if markup != nil {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, *markup)
		edit.ParseMode = tgbotapi.ModeMarkdown
		msg = edit
	} else {
		edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
		edit.ParseMode = tgbotapi.ModeMarkdown
		msg = edit
	}
	if _, err := b.api.Send(msg); err != nil {
		b.log.Sugar().Warnw("Failed to edit message", "chat_id", chatID, "err", err)
	}
}

func (b *Bot) send(chatID int64, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if markup != nil {
		msg.ReplyMarkup = *markup
	}
	if _, err := b.api.Send(msg); err != nil {
		b.log.Sugar().Warnw("Failed to send message", "chat_id", chatID, "err", err)
	}
}

func (b *Bot) answer(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.log.Sugar().Debugw("Failed to answer callback", "err", err)
	}
}

func (b *Bot) alert(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallbackWithAlert(callbackID, text)); err != nil {
		b.log.Sugar().Debugw("Failed to answer callback", "err", err)
	}
}
