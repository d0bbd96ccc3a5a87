package workflow

import "strings"

// Callback data prefixes routed by the bot dispatcher.
const (
	CalendarPrefix = "cal:"
	ZodiacPrefix   = "zod:"
	TarotPrefix    = "tar:"
	FortunePrefix  = "for:"
	DailyPrefix    = "day:"
)

// CallbackData is a parsed callback token.
type CallbackData struct {
	Action string
	Value  string
}

// ParseCallback parses a callback token of the form "<prefix>action:value"
// or "<prefix>action". Returns nil when the prefix does not match.
func ParseCallback(prefix, data string) *CallbackData {
	if !strings.HasPrefix(data, prefix) {
		return nil
	}

	data = strings.TrimPrefix(data, prefix)
	parts := strings.SplitN(data, ":", 2)

	cb := &CallbackData{Action: parts[0]}
	if len(parts) > 1 {
		cb.Value = parts[1]
	}
	return cb
}

// BuildCallback creates a callback token.
func BuildCallback(prefix, action string, value ...string) string {
	if len(value) > 0 && value[0] != "" {
		return prefix + action + ":" + value[0]
	}
	return prefix + action
}

// IsCalendarCallback checks whether the data belongs to the date picker.
func IsCalendarCallback(data string) bool {
	return strings.HasPrefix(data, CalendarPrefix)
}
