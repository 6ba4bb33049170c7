package logger

import (
	"encoding/json"
	"strings"
	"sync"

	"go.uber.org/zap"
)

type Fields map[string]any

var sensitiveKeys = map[string]struct{}{
	"identification": {},
	"nationalid":     {},
	"national_id":    {},
	"password":       {},
}

var (
	mu   sync.RWMutex
	base = newDefault()
)

func newDefault() *zap.Logger {
	l, err := zap.NewProduction(zap.AddCallerSkip(1))
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// Replace swaps the backing zap logger. Tests use it to silence output.
func Replace(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = l
}

func Info(message string, fields Fields) {
	mu.RLock()
	l := base
	mu.RUnlock()
	l.Info(message, zapFields(fields)...)
}

func Error(message string, err error, fields Fields) {
	out := Fields{}
	for k, v := range fields {
		out[k] = v
	}
	if err != nil {
		out["error"] = err.Error()
	}

	mu.RLock()
	l := base
	mu.RUnlock()
	l.Error(message, zapFields(out)...)
}

func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = base.Sync()
}

// SanitizePayload round-trips a payload through JSON and masks sensitive keys,
// so request bodies can be logged wholesale.
func SanitizePayload(payload any) any {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "<unavailable>"
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return "<unavailable>"
	}

	return sanitizeValue(data)
}

func zapFields(fields Fields) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for key, value := range fields {
		if isSensitiveKey(key) {
			out = append(out, zap.String(key, "******"))
			continue
		}
		out = append(out, zap.Any(key, sanitizeValue(value)))
	}
	return out
}

func sanitizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, inner := range typed {
			if isSensitiveKey(key) {
				out[key] = "******"
				continue
			}
			out[key] = sanitizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, sanitizeValue(item))
		}
		return out
	default:
		return value
	}
}

func isSensitiveKey(key string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "-", ""))
	_, ok := sensitiveKeys[normalized]
	return ok
}
