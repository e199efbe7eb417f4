package flow

import (
	"regexp"
	"strconv"
	"strings"
)

// NoBound is the input that clears a trim boundary.
const NoBound = "-"

var timestampRe = regexp.MustCompile(`^(\d{1,2}):([0-5]?\d):([0-5]?\d)$`)

// ParseTimestamp validates an H:MM:SS trim boundary. Hours run 0-99, minutes
// and seconds 0-59.
func ParseTimestamp(input string) (int, bool) {
	m := timestampRe.FindStringSubmatch(strings.TrimSpace(input))
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	sec, _ := strconv.Atoi(m[3])
	return h*3600 + min*60 + sec, true
}
