package app

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/carlmjohnson/requests"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"subgate/config"
)

// MembershipStatus is the chat-member status reported by Telegram.
type MembershipStatus string

const (
	StatusMember        MembershipStatus = "member"
	StatusAdministrator MembershipStatus = "administrator"
	StatusCreator       MembershipStatus = "creator"
	StatusRestricted    MembershipStatus = "restricted"
	StatusLeft          MembershipStatus = "left"
	StatusKicked        MembershipStatus = "kicked"
)

// Subscribed reports whether this status counts as being subscribed.
func (s MembershipStatus) Subscribed() bool {
	switch s {
	case StatusMember, StatusAdministrator, StatusCreator:
		return true
	}
	return false
}

// ChannelRef identifies a public channel either by username or by numeric
// chat id, resolved once when the requirement is created.
type ChannelRef struct {
	handle string
	chatID int64
}

func RefByHandle(handle string) ChannelRef {
	return ChannelRef{handle: strings.TrimPrefix(handle, "@")}
}

func RefByID(chatID int64) ChannelRef {
	return ChannelRef{chatID: chatID}
}

func (r ChannelRef) IsZero() bool {
	return r.handle == "" && r.chatID == 0
}

// Recipient renders the reference the way the Bot API expects a chat_id.
func (r ChannelRef) Recipient() string {
	if r.chatID != 0 {
		return strconv.FormatInt(r.chatID, 10)
	}
	return "@" + r.handle
}

// MembershipOracle answers whether a user currently belongs to a public
// channel. Any returned error means the channel was unreachable, not that the
// user is absent from it.
type MembershipOracle interface {
	ChatMember(ctx context.Context, ref ChannelRef, userID int64) (MembershipStatus, error)
}

type botAPIOracle struct {
	token     string
	timeout   time.Duration
	transport http.RoundTripper
	log       *zap.Logger
}

func NewOracle(lc fx.Lifecycle, cfg *config.Config, transport http.RoundTripper, log *zap.Logger) MembershipOracle {
	return &botAPIOracle{
		token:     cfg.BotToken,
		timeout:   cfg.OracleTimeout(),
		transport: transport,
		log:       log,
	}
}

func (o *botAPIOracle) ChatMember(ctx context.Context, ref ChannelRef, userID int64) (MembershipStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	var resp struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
		Result      struct {
			Status string `json:"status"`
		} `json:"result"`
	}
	err := requests.
		URL("https://api.telegram.org").
		Pathf("/bot%s/getChatMember", o.token).
		Param("chat_id", ref.Recipient()).
		Param("user_id", strconv.FormatInt(userID, 10)).
		Transport(o.transport).
		ToJSON(&resp).
		Fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("getChatMember %s: %w", ref.Recipient(), err)
	}
	if !resp.OK {
		return "", fmt.Errorf("getChatMember %s: %s", ref.Recipient(), resp.Description)
	}
	return MembershipStatus(resp.Result.Status), nil
}
