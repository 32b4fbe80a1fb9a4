// Package cooldown turns heterogeneous backend throttling responses into a
// single client-side gating deadline.
package cooldown

import (
	"encoding/json"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/crowdstage/live/clients"
)

// detailPattern matches a leading integer followed by a seconds-unit word,
// English or Russian ("wait 12 seconds", "подождите 12 сек").
var detailPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:seconds?|secs?|s\b|секунд\w*|сек\b|с\b)`)

// Epoch values at or above this magnitude are milliseconds, below it seconds.
const epochMillisThreshold = 1e12

type throttleBody struct {
	CooldownUntil     *float64 `json:"cooldown_until"`
	RetryAfter        *float64 `json:"retry_after"`
	RetryAfterSeconds *float64 `json:"retry_after_seconds"`
	CooldownSeconds   *float64 `json:"cooldown_seconds"`
	Detail            string   `json:"detail"`
}

// Normalizer extracts cooldown durations from failed submissions. The clock
// is injectable so date-based and epoch-based fields are testable.
type Normalizer struct {
	clock clockwork.Clock
}

func NewNormalizer(clock clockwork.Clock) Normalizer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return Normalizer{clock: clock}
}

// ExtractSeconds resolves how many whole seconds the caller must wait before
// retrying a submission. It returns 0 ("not throttled") for anything that is
// not an HTTP 429, and never returns a negative value. Resolution order:
// Retry-After header, cooldown_until epoch field, relative-seconds body
// fields, a unit-suffixed integer in the detail text, then fallback.
func (n Normalizer) ExtractSeconds(err error, fallback int) int {
	apiErr, ok := clients.AsAPIError(err)
	if !ok || apiErr.StatusCode != http.StatusTooManyRequests {
		return 0
	}

	if secs, ok := n.fromRetryAfterHeader(apiErr.Header); ok {
		return clampSeconds(secs)
	}

	var body throttleBody
	_ = json.Unmarshal(apiErr.Body, &body)

	if body.CooldownUntil != nil {
		until := *body.CooldownUntil
		var deadline time.Time
		if until >= epochMillisThreshold {
			deadline = time.UnixMilli(int64(until))
		} else {
			deadline = time.Unix(int64(until), 0)
		}
		return clampSeconds(ceilSeconds(deadline.Sub(n.clock.Now())))
	}

	for _, field := range []*float64{body.RetryAfter, body.RetryAfterSeconds, body.CooldownSeconds} {
		if field != nil {
			return clampSeconds(int(math.Ceil(*field)))
		}
	}

	if m := detailPattern.FindStringSubmatch(body.Detail); m != nil {
		if secs, err := strconv.Atoi(m[1]); err == nil {
			return clampSeconds(secs)
		}
	}

	return clampSeconds(fallback)
}

func (n Normalizer) fromRetryAfterHeader(header http.Header) (int, bool) {
	raw := header.Get("Retry-After")
	if raw == "" {
		return 0, false
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(math.Ceil(secs)), true
	}
	if at, err := http.ParseTime(raw); err == nil {
		if secs := ceilSeconds(at.Sub(n.clock.Now())); secs > 0 {
			return secs, true
		}
	}
	return 0, false
}

func ceilSeconds(d time.Duration) int {
	return int(math.Ceil(d.Seconds()))
}

// clampSeconds maps expired or negative waits to "not throttled".
func clampSeconds(secs int) int {
	if secs <= 0 {
		return 0
	}
	return secs
}
