package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the svcmap console logger. Lines carry a wall clock
// stamp with centiseconds ("14:32:01.45"), and anything below level is
// dropped.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one command step, such as a pipeline run.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with keyvals and the step's elapsed time,
// rounded to milliseconds:
//
//	14:32:01.45 INFO Laid out cards=12 arrows=17 elapsed=3ms
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}
