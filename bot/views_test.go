package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subgate/app"
)

func TestRemediationView(t *testing.T) {
	unmet := []app.UnmetRequirement{
		{ChannelID: 1, Kind: app.KindPublic, Name: "Public", URL: "https://t.me/pub", Accessible: true},
		{ChannelID: 2, Kind: app.KindPrivate, Name: "Private", URL: "https://t.me/+x"},
		{ChannelID: 3, Kind: app.KindPublic, Name: "Broken", URL: "https://t.me/gone", ErrorReason: "chat not found"},
	}

	text, markup := remediationView(unmet, false)
	assert.Contains(t, text, "Public")
	assert.Contains(t, text, "Private")
	assert.Contains(t, text, "confirmation required")
	assert.Contains(t, text, "unavailable, contact the admin")
	assert.NotContains(t, text, "chat not found")

	// Rows: join button, private link+confirm pair, check-again. The broken
	// requirement gets no button.
	require.Len(t, markup.InlineKeyboard, 3)
	require.Len(t, markup.InlineKeyboard[1], 2)
	assert.Equal(t, "confirm_2", *markup.InlineKeyboard[1][1].CallbackData)
	assert.Equal(t, "check", *markup.InlineKeyboard[2][0].CallbackData)

	// The failure reason is shown to the admin only.
	text, _ = remediationView(unmet, true)
	assert.Contains(t, text, "chat not found")
}

func TestUnlockedView(t *testing.T) {
	text, markup := unlockedView(nil, false)
	assert.Contains(t, text, "Congratulations")
	require.Len(t, markup.InlineKeyboard, 1)

	reward := &app.FinalContent{URL: "https://t.me/prize", Name: "Prize", Description: "The goods"}
	text, markup = unlockedView(reward, true)
	assert.Contains(t, text, "Prize")
	assert.Contains(t, text, "The goods")
	require.Len(t, markup.InlineKeyboard, 3)
	assert.Equal(t, "https://t.me/prize", *markup.InlineKeyboard[0][0].URL)
	assert.Equal(t, "admin", *markup.InlineKeyboard[2][0].CallbackData)
}

func TestManageKeyboard(t *testing.T) {
	markup := manageKeyboard(false, false)
	assert.Len(t, markup.InlineKeyboard, 5) // four add flows + back

	markup = manageKeyboard(true, true)
	assert.Len(t, markup.InlineKeyboard, 7)
}

func TestParseChannelInputDispatch(t *testing.T) {
	ch, err := parseChannelInput(pendingPublicChannel, "@gophers Gophers")
	require.NoError(t, err)
	assert.Equal(t, app.KindPublic, ch.Kind)
	assert.Equal(t, "gophers", ch.Username)

	ch, err = parseChannelInput(pendingChannelByID, "-1001234567890 By ID")
	require.NoError(t, err)
	assert.EqualValues(t, -1001234567890, ch.ChatID)

	ch, err = parseChannelInput(pendingPrivateChannel, "https://t.me/+x Inner")
	require.NoError(t, err)
	assert.Equal(t, app.KindPrivate, ch.Kind)

	_, err = parseChannelInput(pendingPublicChannel, "nope")
	assert.Error(t, err)
}

func TestPendingInputState(t *testing.T) {
	b := &Bot{pending: make(map[int64]pendingInput)}

	assert.Equal(t, pendingNone, b.takePending(1))

	b.setPending(1, pendingFinalContent)
	assert.Equal(t, pendingFinalContent, b.takePending(1))
	// Taking consumes the state.
	assert.Equal(t, pendingNone, b.takePending(1))

	b.setPending(1, pendingPublicChannel)
	b.setPending(1, pendingNone)
	assert.Equal(t, pendingNone, b.takePending(1))
}
