package provision

import "log"

// Observer receives human-readable progress from the poller and the
// orchestrator. Implementations must be cheap; they are called from the
// single control thread between polling rounds.
type Observer interface {
	Printf(format string, v ...any)
	Progress(phase string, current, total int)
}

// LogObserver writes progress through a standard logger.
type LogObserver struct {
	logger *log.Logger
}

// NewLogObserver creates an Observer backed by the given logger. A nil
// logger uses the standard log package default.
func NewLogObserver(logger *log.Logger) *LogObserver {
	if logger == nil {
		logger = log.Default()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) Printf(format string, v ...any) {
	o.logger.Printf(format, v...)
}

func (o *LogObserver) Progress(phase string, current, total int) {
	o.logger.Printf("[%s] %d/%d", phase, current, total)
}

// NopObserver discards all progress output.
type NopObserver struct{}

func (NopObserver) Printf(string, ...any)     {}
func (NopObserver) Progress(string, int, int) {}
