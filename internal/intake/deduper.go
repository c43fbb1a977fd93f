package intake

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/webplotcentersj-hash/clinicasj/internal/booking"
)

const defaultDedupeWindow = 10 * time.Minute

// Deduper reports whether an accepted request is seen for the first time.
type Deduper interface {
	FirstSeen(ctx context.Context, r booking.Request) (bool, error)
}

// RedisDeduper suppresses repeats of the same request within a window using
// SET NX on a fingerprint key.
type RedisDeduper struct {
	client *redis.Client
	window time.Duration
	prefix string
}

// NewRedisDeduper returns nil when client is nil so callers can skip duplicate
// suppression entirely.
func NewRedisDeduper(client *redis.Client, window time.Duration) *RedisDeduper {
	if client == nil {
		return nil
	}
	if window <= 0 {
		window = defaultDedupeWindow
	}
	return &RedisDeduper{client: client, window: window, prefix: "intake:booking:"}
}

func (d *RedisDeduper) FirstSeen(ctx context.Context, r booking.Request) (bool, error) {
	created, err := d.client.SetNX(ctx, d.prefix+Fingerprint(r), time.Now().UTC().Format(time.RFC3339), d.window).Result()
	if err != nil {
		return false, fmt.Errorf("intake: mark request seen: %w", err)
	}
	return created, nil
}

// Fingerprint identifies a request independently of letter case and
// surrounding whitespace. The comment is not part of the identity.
func Fingerprint(r booking.Request) string {
	parts := []string{
		r.FirstName,
		r.LastName,
		r.NationalID,
		digitsOnly(r.Phone),
		r.Email,
		r.Specialty,
		r.PreferredDate,
		string(r.TimeOfDay),
	}
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(sum[:])
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
