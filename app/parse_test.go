package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePublicChannel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *Channel
		wantErr bool
	}{
		{
			name:  "ok",
			input: "@gophers Go Community",
			want:  &Channel{Kind: KindPublic, Username: "gophers", URL: "https://t.me/gophers", Name: "Go Community"},
		},
		{
			name:  "extra whitespace",
			input: "  @gophers   Go   Community ",
			want:  &Channel{Kind: KindPublic, Username: "gophers", URL: "https://t.me/gophers", Name: "Go Community"},
		},
		{name: "missing name", input: "@gophers", wantErr: true},
		{name: "no at sign", input: "gophers Go Community", wantErr: true},
		{name: "bare at sign", input: "@ Go Community", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePublicChannel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseChannelByID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantID  int64
		wantURL string
		wantErr bool
	}{
		{
			name:    "channel id",
			input:   "-1001234567890 My Channel",
			wantID:  -1001234567890,
			wantURL: "https://t.me/c/1234567890",
		},
		{
			name:    "positive id",
			input:   "12345 Some Chat",
			wantID:  12345,
			wantURL: "https://t.me/12345",
		},
		{name: "not a number", input: "abc My Channel", wantErr: true},
		{name: "missing name", input: "-100123", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseChannelByID(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, KindPublic, got.Kind)
			assert.Equal(t, tt.wantID, got.ChatID)
			assert.Equal(t, tt.wantURL, got.URL)
		})
	}
}

func TestParsePrivateChannel(t *testing.T) {
	got, err := ParsePrivateChannel("https://t.me/+abcdef Inner Circle")
	require.NoError(t, err)
	assert.Equal(t, &Channel{Kind: KindPrivate, URL: "https://t.me/+abcdef", Name: "Inner Circle"}, got)

	_, err = ParsePrivateChannel("not-a-link Inner Circle")
	assert.Error(t, err)

	_, err = ParsePrivateChannel("https://t.me/+abcdef")
	assert.Error(t, err)
}

func TestParseFinalContent(t *testing.T) {
	got, err := ParseFinalContent("https://t.me/premium Premium Exclusive content inside")
	require.NoError(t, err)
	assert.Equal(t, "https://t.me/premium", got.URL)
	assert.Equal(t, "Premium", got.Name)
	assert.Equal(t, "Exclusive content inside", got.Description)

	got, err = ParseFinalContent("https://t.me/premium Premium")
	require.NoError(t, err)
	assert.Empty(t, got.Description)

	_, err = ParseFinalContent("https://t.me/premium")
	assert.Error(t, err)

	_, err = ParseFinalContent("premium https://t.me/premium")
	assert.Error(t, err)
}

func TestChannelRef(t *testing.T) {
	assert.Equal(t, "@gophers", RefByHandle("@gophers").Recipient())
	assert.Equal(t, "@gophers", RefByHandle("gophers").Recipient())
	assert.Equal(t, "-1001234567890", RefByID(-1001234567890).Recipient())
	assert.True(t, ChannelRef{}.IsZero())
	assert.False(t, RefByHandle("x").IsZero())
}
