// Package clipboard provides the system-clipboard backed implementation of
// core.Clipboard, wiring the same atotto/clipboard calls the teacher used
// for its own WriteAll/ReadAll plumbing.
package clipboard

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
)

// System writes to and reads from the OS clipboard. It is the default
// core.Clipboard passed to core.NewEngine outside of tests.
type System struct{}

// New returns a System clipboard. It has no state and never fails to
// construct; failures surface from Write/Read when the platform has no
// clipboard utility available (e.g. a headless Linux box without xclip).
func New() *System {
	return &System{}
}

func (System) Write(text string) error {
	return clipboard.WriteAll(text)
}

func (System) Read() (string, error) {
	return clipboard.ReadAll()
}

// WatchExternalChanges polls the system clipboard at the given interval and
// invokes onChange whenever its content differs from the last-seen value —
// the "external change is reported" event named by spec §4.6/§5. atotto's
// clipboard package has no native change notification on any platform, so
// polling is the only portable option; it stops when ctx is cancelled.
func WatchExternalChanges(ctx context.Context, interval time.Duration, onChange func()) {
	last, _ := clipboard.ReadAll()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			text, err := clipboard.ReadAll()
			if err != nil {
				continue
			}
			if text != last {
				last = text
				onChange()
			}
		}
	}
}
