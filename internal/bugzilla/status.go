package bugzilla

import (
	"strings"

	"github.com/Afrawles/weekly/internal/report"
)

const (
	StatusNew            report.Status = "NEW"
	StatusAssigned       report.Status = "ASSIGNED"
	StatusModified       report.Status = "MODIFIED"
	StatusOnDev          report.Status = "ON_DEV"
	StatusOnQA           report.Status = "ON_QA"
	StatusVerified       report.Status = "VERIFIED"
	StatusReleasePending report.Status = "RELEASE_PENDING"
	StatusPost           report.Status = "POST"
	StatusClosed         report.Status = "CLOSED"
)

var (
	// StatusesAll is every open-or-fixed status counted by the project summary.
	StatusesAll  = report.StatusSet{StatusNew, StatusAssigned, StatusModified, StatusOnDev, StatusOnQA, StatusVerified, StatusReleasePending, StatusPost}
	StatusesNew  = report.StatusSet{StatusNew, StatusAssigned}
	StatusesWIP  = report.StatusSet{StatusAssigned, StatusModified, StatusOnDev}
	StatusesDone = report.StatusSet{StatusOnQA, StatusVerified, StatusReleasePending, StatusPost, StatusClosed}
)

var shortStatus = map[report.Status]string{
	StatusNew:            "New",
	StatusAssigned:       "Ass",
	StatusModified:       "Mod",
	StatusOnDev:          "Dev",
	StatusOnQA:           "QA",
	StatusVerified:       "Ver",
	StatusReleasePending: "Rel",
	StatusPost:           "Pst",
	StatusClosed:         "Clo",
}

// ShortStatus maps a status to its display code.
func ShortStatus(status report.Status) (string, error) {
	code, ok := shortStatus[report.Status(report.Unquote(string(status)))]
	if !ok {
		return "", report.FormatError("status "+string(status), report.ErrUnknownStatus)
	}
	return code, nil
}

var sourceCodes = map[string]string{
	"Red Hat OpenStack": "RHOS",
	"Fedora":            "Fedo",
	"Fedora EPEL":       "EPEL",
	"RHOS Tracking":     "Task",
}

// SourceCode abbreviates a product name. Unknown products map to "".
func SourceCode(product string) string {
	return sourceCodes[report.Unquote(product)]
}

// SummaryHeader shortens status names that would widen the summary table.
func SummaryHeader(status report.Status) string {
	return strings.NewReplacer("RELEASE_PENDING", "RELS_PEND", "MODIFIED", "MOD").Replace(string(status))
}
