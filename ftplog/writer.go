package ftplog

import (
	"io"
	"os"

	gklog "github.com/go-kit/kit/log"
)

// New builds a Logger that writes logfmt lines to stdout and, if logPath is
// non-empty, appends the same lines to that file — the two-sink behavior the
// CLI's -l/--log flag asks for.
func New(logPath string) (Logger, error) {
	dst := io.Writer(os.Stdout)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}

		dst = io.MultiWriter(os.Stdout, f)
	}

	base := gklog.NewLogfmtLogger(gklog.NewSyncWriter(dst))
	base = gklog.With(base, "ts", defaultTimestampUTC, "caller", defaultCaller)

	return NewGKLogger(base), nil
}
