package cooldown

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"

	"github.com/crowdstage/live/clients"
)

func throttled(header http.Header, body string) error {
	if header == nil {
		header = http.Header{}
	}
	return &clients.APIError{StatusCode: http.StatusTooManyRequests, Header: header, Body: []byte(body)}
}

func TestExtractSecondsRetryAfterHeader(t *testing.T) {
	n := NewNormalizer(clockwork.NewFakeClock())

	err := throttled(http.Header{"Retry-After": []string{"5"}}, `{}`)
	assert.Equal(t, 5, n.ExtractSeconds(err, 0))
}

func TestExtractSecondsRetryAfterDate(t *testing.T) {
	fc := clockwork.NewFakeClockAt(time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC))
	n := NewNormalizer(fc)

	at := fc.Now().UTC().Add(10 * time.Second)
	err := throttled(http.Header{"Retry-After": []string{at.Format(http.TimeFormat)}}, `{}`)
	assert.Equal(t, 10, n.ExtractSeconds(err, 0))
}

func TestExtractSecondsCooldownUntilMillis(t *testing.T) {
	fc := clockwork.NewFakeClock()
	n := NewNormalizer(fc)

	untilMs := fc.Now().Add(7 * time.Second).UnixMilli()
	err := throttled(nil, fmt.Sprintf(`{"cooldown_until": %d}`, untilMs))
	got := n.ExtractSeconds(err, 0)
	assert.InDelta(t, 7, got, 1)
}

func TestExtractSecondsCooldownUntilEpochSeconds(t *testing.T) {
	fc := clockwork.NewFakeClock()
	n := NewNormalizer(fc)

	until := fc.Now().Add(30 * time.Second).Unix()
	err := throttled(nil, fmt.Sprintf(`{"cooldown_until": %d}`, until))
	got := n.ExtractSeconds(err, 0)
	assert.InDelta(t, 30, got, 1)
}

func TestExtractSecondsRelativeBodyFields(t *testing.T) {
	n := NewNormalizer(clockwork.NewFakeClock())

	assert.Equal(t, 8, n.ExtractSeconds(throttled(nil, `{"retry_after": 8}`), 0))
	assert.Equal(t, 9, n.ExtractSeconds(throttled(nil, `{"retry_after_seconds": 9}`), 0))
	assert.Equal(t, 4, n.ExtractSeconds(throttled(nil, `{"cooldown_seconds": 3.2}`), 0))
}

func TestExtractSecondsDetailText(t *testing.T) {
	n := NewNormalizer(clockwork.NewFakeClock())

	assert.Equal(t, 12, n.ExtractSeconds(throttled(nil, `{"detail": "Please wait 12 seconds"}`), 0))
	assert.Equal(t, 30, n.ExtractSeconds(throttled(nil, `{"detail": "Подождите 30 сек"}`), 0))
}

func TestExtractSecondsFallback(t *testing.T) {
	n := NewNormalizer(clockwork.NewFakeClock())

	assert.Equal(t, 15, n.ExtractSeconds(throttled(nil, `{"detail": "Too many requests"}`), 15))
}

func TestExtractSecondsNonThrottleStatus(t *testing.T) {
	n := NewNormalizer(clockwork.NewFakeClock())

	forbidden := &clients.APIError{
		StatusCode: http.StatusForbidden,
		Header:     http.Header{"Retry-After": []string{"5"}},
		Body:       []byte(`{"retry_after": 8}`),
	}
	assert.Equal(t, 0, n.ExtractSeconds(forbidden, 10))
	assert.Equal(t, 0, n.ExtractSeconds(errors.New("network down"), 10))
}

func TestExtractSecondsExpiredDeadlineIsNotThrottled(t *testing.T) {
	fc := clockwork.NewFakeClock()
	n := NewNormalizer(fc)

	past := fc.Now().Add(-5 * time.Second).UnixMilli()
	assert.Equal(t, 0, n.ExtractSeconds(throttled(nil, fmt.Sprintf(`{"cooldown_until": %d}`, past)), 0))
	assert.Equal(t, 0, n.ExtractSeconds(throttled(nil, `{"retry_after": -3}`), 0))
}
