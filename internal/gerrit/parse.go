package gerrit

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Afrawles/weekly/internal/report"
)

// Account is a Gerrit user as it appears in query output.
type Account struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Change is one object of `gerrit query --format=JSON` output. The same
// stream also carries a trailing stats object and, on failure, an error object.
type Change struct {
	Type        string      `json:"type"`
	Message     string      `json:"message"`
	Project     string      `json:"project"`
	Branch      string      `json:"branch"`
	Number      json.Number `json:"number"`
	Subject     string      `json:"subject"`
	Owner       Account     `json:"owner"`
	URL         string      `json:"url"`
	Status      string      `json:"status"`
	LastUpdated int64       `json:"lastUpdated"`
}

func (c Change) Record() report.Record {
	owner := c.Owner.Username
	if owner == "" {
		owner = report.LocalPart(c.Owner.Email)
	}
	return report.Record{
		ID:       c.Number.String(),
		Status:   report.Status(c.Status),
		Owner:    owner,
		Updated:  time.Unix(c.LastUpdated, 0),
		Summary:  c.Subject,
		Category: c.Project,
	}
}

// ParseJSONLines decodes every line holding an object on its own. A line
// that fails to decode is skipped and reported in the result; the stats
// trailer is dropped. An error object from Gerrit fails the whole query.
func ParseJSONLines(raw string) (report.ParseResult, error) {
	var result report.ParseResult
	for i, line := range strings.Split(raw, "\n") {
		if !strings.Contains(line, "{") {
			continue
		}

		var c Change
		if err := json.Unmarshal([]byte(line), &c); err != nil {
			result.Skipped = append(result.Skipped,
				report.ParseError(fmt.Sprintf("gerrit line %d", i+1), fmt.Errorf("%w: %v", report.ErrMalformedRecord, err)))
			continue
		}

		switch c.Type {
		case "stats":
			continue
		case "error":
			return result, report.TransportError("gerrit query", errors.New(c.Message))
		}
		result.Records = append(result.Records, c.Record())
	}
	return result, nil
}
