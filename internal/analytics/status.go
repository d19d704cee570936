package analytics

import "strings"

var successfulStatuses = map[string]struct{}{
	"успешный": {},
	"ответ":    {},
	"answered": {},
	"success":  {},
}

var busyStatuses = map[string]struct{}{
	"занято":       {},
	"линия занята": {},
	"busy":         {},
}

// IsSuccessful reports whether a call status means the call was answered.
// An empty status is never successful.
func IsSuccessful(status string) bool {
	_, ok := successfulStatuses[normalizeStatus(status)]
	return ok
}

// IsBusy reports whether a call status means the line was busy.
func IsBusy(status string) bool {
	_, ok := busyStatuses[normalizeStatus(status)]
	return ok
}

func normalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
