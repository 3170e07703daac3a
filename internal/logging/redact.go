package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"sail/internal/crypto"
)

const redactedValue = "[REDACTED]"

var (
	bootNonce      = randomNonce()
	sensitiveParts = []string{"key", "secret", "password", "passphrase", "token"}
	fingerprinted  = map[string]struct{}{
		"wallet_address": {},
		"onion_address":  {},
		"anonymous_id":   {},
		"routing_id":     {},
		"network_id":     {},
		"identity_id":    {},
	}
)

// RedactingHandler rewrites sensitive attributes before passing records on.
type RedactingHandler struct {
	next slog.Handler
}

// WrapHandler wraps next in a RedactingHandler.
func WrapHandler(next slog.Handler) slog.Handler {
	if next == nil {
		return nil
	}
	return &RedactingHandler{next: next}
}

func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *RedactingHandler) Handle(ctx context.Context, rec slog.Record) error {
	out := slog.NewRecord(rec.Time, rec.Level, rec.Message, rec.PC)
	rec.Attrs(func(attr slog.Attr) bool {
		out.AddAttrs(RedactAttr(attr))
		return true
	})
	return h.next.Handle(ctx, out)
}

func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, RedactAttr(a))
	}
	return &RedactingHandler{next: h.next.WithAttrs(out)}
}

func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{next: h.next.WithGroup(name)}
}

// RedactAttr returns attr with sensitive values removed or fingerprinted.
// Group attributes are processed recursively.
func RedactAttr(attr slog.Attr) slog.Attr {
	key := strings.ToLower(strings.TrimSpace(attr.Key))
	if attr.Value.Kind() == slog.KindGroup {
		group := attr.Value.Group()
		out := make([]any, 0, len(group))
		for _, a := range group {
			out = append(out, RedactAttr(a))
		}
		return slog.Group(attr.Key, out...)
	}
	if _, ok := fingerprinted[key]; ok {
		return slog.String(attr.Key+"_fp", FingerprintID(attr.Value.Resolve().String()))
	}
	for _, part := range sensitiveParts {
		if strings.Contains(key, part) {
			return slog.String(attr.Key, redactedValue)
		}
	}
	return attr
}

// FingerprintID returns a stable-per-process fingerprint of value.
func FingerprintID(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	return "fp_" + crypto.Fingerprint([]byte(trimmed + "|" + bootNonce))[:16]
}

func randomNonce() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("logging: reading boot nonce: %v", err))
	}
	return hex.EncodeToString(buf)
}
