package reactive

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrReentrantCollect = errors.New("reactive: watcher constructed while another is collecting")
	ErrPathNotFound     = errors.New("reactive: path not found")
	ErrNotObject        = errors.New("reactive: value is not an observable object")
	ErrWatcherPanic     = errors.New("reactive: watcher panicked")
)

// WatcherFailure is one watcher's failed update inside a notification.
type WatcherFailure struct {
	WatcherID uint64
	Path      string
	Err       error
}

// NotifyError reports the watchers that failed while a field notified them.
// In FailFast mode it always holds exactly one failure.
type NotifyError struct {
	Path     string
	Failures []WatcherFailure
}

func (e *NotifyError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("notify %q:", e.Path))
	for i, f := range e.Failures {
		if i > 0 {
			sb.WriteString(";")
		}
		sb.WriteString(fmt.Sprintf(" watcher %d (%s): %v", f.WatcherID, f.Path, f.Err))
	}
	return sb.String()
}

func (e *NotifyError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}
