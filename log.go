package parambulator

import (
	"io"

	kitlog "github.com/go-kit/kit/log"
)

// NewLogger returns a logfmt logger writing to w, tagged with the application
// name. Call sites add their own "level" and "subsys" pairs.
func NewLogger(w io.Writer, app string) kitlog.Logger {
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(w))
	return kitlog.With(klog, "app", app)
}

// nopIfNil returns a logger which discards everything if l is nil.
func nopIfNil(l kitlog.Logger) kitlog.Logger {
	if l == nil {
		return kitlog.NewNopLogger()
	}
	return l
}
