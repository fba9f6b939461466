package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Parsers for the one-line admin add flows. Each returns either a fully
// populated value or a reason suitable for echoing back to the admin; nothing
// is written on failure.

// ParsePublicChannel parses "@handle Channel Name".
func ParsePublicChannel(text string) (*Channel, error) {
	handle, name, ok := splitFirst(text)
	if !ok {
		return nil, errors.New("expected: @username followed by the channel name")
	}
	if !strings.HasPrefix(handle, "@") || len(handle) < 2 {
		return nil, fmt.Errorf("'%s' is not a channel username, it must start with @", handle)
	}
	handle = strings.TrimPrefix(handle, "@")
	return &Channel{
		Kind:     KindPublic,
		Username: handle,
		URL:      "https://t.me/" + handle,
		Name:     name,
	}, nil
}

// ParseChannelByID parses "<chat_id> Channel Name" for channels the bot can
// only reach by numeric id.
func ParseChannelByID(text string) (*Channel, error) {
	idField, name, ok := splitFirst(text)
	if !ok {
		return nil, errors.New("expected: numeric chat id followed by the channel name")
	}
	chatID, err := strconv.ParseInt(idField, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("'%s' is not a numeric chat id", idField)
	}
	return &Channel{
		Kind:   KindPublic,
		ChatID: chatID,
		URL:    internalChannelURL(chatID),
		Name:   name,
	}, nil
}

// ParsePrivateChannel parses "<invite url> Channel Name".
func ParsePrivateChannel(text string) (*Channel, error) {
	url, name, ok := splitFirst(text)
	if !ok {
		return nil, errors.New("expected: invite link followed by the channel name")
	}
	if !isURL(url) {
		return nil, fmt.Errorf("'%s' is not a link", url)
	}
	return &Channel{
		Kind: KindPrivate,
		URL:  url,
		Name: name,
	}, nil
}

// ParseFinalContent parses "<url> Name" with an optional trailing description.
func ParseFinalContent(text string) (*FinalContent, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return nil, errors.New("expected: link, name and an optional description")
	}
	if !isURL(fields[0]) {
		return nil, fmt.Errorf("'%s' is not a link", fields[0])
	}
	fc := &FinalContent{URL: fields[0], Name: fields[1]}
	if len(fields) > 2 {
		fc.Description = strings.Join(fields[2:], " ")
	}
	return fc, nil
}

func splitFirst(text string) (first, rest string, ok bool) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) < 2 {
		return "", "", false
	}
	return fields[0], strings.Join(fields[1:], " "), true
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}

// internalChannelURL derives the t.me link for a channel known only by id.
// Telegram channel ids carry a -100 prefix that the /c/ link form omits.
func internalChannelURL(chatID int64) string {
	if chatID < 0 {
		id := strconv.FormatInt(-chatID, 10)
		id = strings.TrimPrefix(id, "100")
		return "https://t.me/c/" + id
	}
	return fmt.Sprintf("https://t.me/%d", chatID)
}
