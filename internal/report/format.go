package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const Ellipsis = "…"

var Months = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// Unquote strips a single layer of surrounding double quotes.
func Unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// Truncate shortens s to fit in max runes, marking the cut with an ellipsis.
// Quotes in s are part of the text and are kept.
func Truncate(s string, max int) string {
	s = norm.NFC.String(s)
	if max <= 0 || utf8.RuneCountInString(s) < max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + Ellipsis
}

// MonthDay renders t as "Mon DD".
func MonthDay(t time.Time) string {
	return fmt.Sprintf("%s %02d", Months[t.Month()-1], t.Day())
}

// DateOrdinal turns "Mon DD" back into a sortable number. It is
// (month+1)*30 + day, which is not calendar accurate; legacy reports sort
// this way and the output has to match them.
func DateOrdinal(s string) (int, bool) {
	mon, day, ok := strings.Cut(strings.TrimSpace(s), " ")
	if !ok {
		return 0, false
	}
	idx := -1
	for i, m := range Months {
		if m == mon {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, false
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return 0, false
	}
	return (idx+1)*30 + d, true
}

// LocalPart returns the part of an email address before the "@".
func LocalPart(email string) string {
	local, _, _ := strings.Cut(Unquote(email), "@")
	return local
}

// Email turns a person identifier into an address in domain.
func Email(person, domain string) string {
	if strings.Contains(person, "@") || domain == "" {
		return person
	}
	return person + "@" + domain
}
