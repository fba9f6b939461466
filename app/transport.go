package app

import (
	"net/http"
	"regexp"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewTransport(lc fx.Lifecycle, log *zap.Logger) http.RoundTripper {
	return &transport{base: http.DefaultTransport, log: log}
}

type transport struct {
	base http.RoundTripper
	log  *zap.Logger
}

// Bot API URLs embed the token in the path.
var tokenPattern = regexp.MustCompile(`/bot[^/]+/`)

// redactToken masks the bot token wherever a Bot API URL leaks into a string,
// such as transport errors wrapped by the oracle.
func redactToken(s string) string {
	return tokenPattern.ReplaceAllString(s, "/bot<redacted>/")
}

func (tpt *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := tpt.base.RoundTrip(req)

	url := redactToken(req.URL.Redacted())
	if err != nil {
		tpt.log.Sugar().Warnw("Outbound request failed", "url", url, "err", err)
	} else {
		tpt.log.Sugar().Debugw("Outbound request", "url", url, "status", resp.StatusCode, "elapsed", time.Since(start))
	}
	return resp, err
}
