package cli

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// spinner shows which report is being fetched. It draws on the command's
// stderr so the report text on stdout stays clean.
type spinner struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func (s *spinner) Start(title string) {
	s.bar = newSpinner(s.out, title)
}

func (s *spinner) Done() {
	finishBar(s.bar)
	s.bar = nil
}

func newSpinner(w io.Writer, description string) *progressbar.ProgressBar {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	_ = bar.RenderBlank()
	return bar
}

func finishBar(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Finish()
	}
}
