package bugzilla

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Afrawles/weekly/internal/report"
)

// Positions of the fields in a buglist row: the bug ID followed by Columns.
const (
	fieldID = iota
	fieldProduct
	fieldComponent
	fieldAssignee
	fieldStatus
	fieldResolution
	fieldSummary
	fieldKeywords
	fieldChanged
	fieldCount
)

var timeLayouts = []string{"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02"}

// ParseCSV turns a buglist CSV response into records. The header row is
// dropped; rows with missing fields or a bad timestamp are skipped and
// reported in the result. Timestamps are read in loc.
func ParseCSV(raw string, loc *time.Location) (report.ParseResult, error) {
	var result report.ParseResult
	if strings.TrimSpace(raw) == "" {
		return result, report.ParseError("buglist", report.ErrNoData)
	}
	if loc == nil {
		loc = time.Local
	}

	r := csv.NewReader(strings.NewReader(raw))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return result, report.ParseError("buglist", report.ErrNoData)
		}
		return result, report.ParseError("buglist header", err)
	}

	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				result.Skipped = append(result.Skipped, report.ParseError(fmt.Sprintf("buglist line %d", perr.Line), err))
				continue
			}
			return result, report.ParseError("buglist", err)
		}
		line, _ := r.FieldPos(0)

		rec, err := parseRow(fields, loc)
		if err != nil {
			result.Skipped = append(result.Skipped, report.ParseError(fmt.Sprintf("buglist line %d", line), err))
			continue
		}
		result.Records = append(result.Records, rec)
	}

	return result, nil
}

func parseRow(fields []string, loc *time.Location) (report.Record, error) {
	if len(fields) < fieldCount {
		return report.Record{}, fmt.Errorf("%w: %d fields, want %d", report.ErrMalformedRecord, len(fields), fieldCount)
	}

	updated, err := parseTime(fields[fieldChanged], loc)
	if err != nil {
		return report.Record{}, fmt.Errorf("%w: changed date %q", report.ErrMalformedRecord, fields[fieldChanged])
	}

	return report.Record{
		ID:        strings.TrimSpace(fields[fieldID]),
		Status:    report.Status(strings.TrimSpace(fields[fieldStatus])),
		Owner:     strings.TrimSpace(fields[fieldAssignee]),
		Updated:   updated,
		Summary:   fields[fieldSummary],
		Category:  strings.TrimSpace(fields[fieldProduct]),
		Component: strings.TrimSpace(fields[fieldComponent]),
		Keywords:  splitKeywords(fields[fieldKeywords]),
	}, nil
}

func parseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(report.Unquote(s))
	var err error
	for _, layout := range timeLayouts {
		var t time.Time
		if t, err = time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func splitKeywords(s string) []string {
	var out []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
