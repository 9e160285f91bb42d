package progress

import (
	"os"
	"strings"
	"time"

	"github.com/Kargones/apk-files/internal/pkg/logging"
)

// DefaultThrottleInterval - интервал throttling по умолчанию.
const DefaultThrottleInterval = time.Second

// New выбирает реализацию Progress:
// Format=json → JSONProgress, терминал → TTYProgress, иначе NonTTYProgress в лог.
func New(opts Options, logger logging.Logger) Progress {
	if opts.ThrottleInterval == 0 {
		opts.ThrottleInterval = DefaultThrottleInterval
	}
	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	if strings.EqualFold(opts.Format, "json") {
		return NewJSONProgress(opts)
	}
	if IsTTY(opts.Output) {
		return NewTTYProgress(opts)
	}
	return NewNonTTYProgress(opts, logger)
}
