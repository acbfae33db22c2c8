package logger

import (
	"log/slog"
	"strings"
)

// Session tokens are the only credential in the system; their prefix
// makes them recognizable anywhere in a log record.
var sensitiveValuePrefixes = []string{
	"sgss-",
}

// Key names that suggest credentials. Values under these keys are fully
// redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"card",
	"credential",
	"auth",
}

const redactedValue = "***REDACTED***"

// redactSensitive redacts an attribute when its value carries a session
// token or its key suggests a credential.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()
		for _, prefix := range sensitiveValuePrefixes {
			if strings.HasPrefix(strVal, prefix) {
				return slog.String(a.Key, maskValue(strVal, prefix))
			}
		}

		keyLower := strings.ToLower(a.Key)
		for _, pattern := range sensitiveKeyPatterns {
			if strings.Contains(keyLower, pattern) {
				if strVal != "" {
					return slog.String(a.Key, redactedValue)
				}
				break
			}
		}
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// maskValue keeps the prefix plus three characters either side so log
// lines stay correlatable without exposing the credential.
func maskValue(value, prefix string) string {
	body := value[len(prefix):]
	if len(body) > 6 {
		return prefix + body[:3] + "..." + body[len(body)-3:]
	}
	return prefix + "***"
}

// RedactToken masks a session token for manual inclusion in a message.
func RedactToken(value string) string {
	for _, prefix := range sensitiveValuePrefixes {
		if strings.HasPrefix(value, prefix) {
			return maskValue(value, prefix)
		}
	}
	return value
}

// IsSensitiveKey reports whether a key name suggests credential content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
