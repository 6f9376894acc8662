package aggregator

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

const progressDescription = "Aggregating files"

// progressReporter advances once per processed file. A nil writer disables reporting.
type progressReporter struct {
	bar *progressbar.ProgressBar
}

func newProgressReporter(writer io.Writer, total int) progressReporter {
	if writer == nil || total == 0 {
		return progressReporter{}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionSetDescription(progressDescription),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return progressReporter{bar: bar}
}

func (reporter progressReporter) advance() {
	if reporter.bar != nil {
		_ = reporter.bar.Add(1)
	}
}

func (reporter progressReporter) finish() {
	if reporter.bar != nil {
		_ = reporter.bar.Finish()
	}
}
