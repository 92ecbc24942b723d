package scenario

import (
	"fmt"
	"io"

	"github.com/go-drift/conductor/pkg/bootstrap"
	"github.com/go-drift/conductor/pkg/screentest"
)

// Transcript is the view of a scenario's root. It prints the journal.
type Transcript struct {
	Journal *screentest.Journal
	Out     io.Writer

	printed int
}

// Flush writes the entries recorded since the previous Flush, one per line.
func (t *Transcript) Flush() error {
	entries := t.Journal.Entries()
	if t.printed > len(entries) {
		t.printed = 0
	}
	for _, entry := range entries[t.printed:] {
		if _, err := fmt.Fprintln(t.Out, entry); err != nil {
			return err
		}
		t.printed++
	}
	return nil
}

// RegisterView registers a Transcript writing to out as the default view of
// the scenario's root.
func (s *Scenario) RegisterView(l *bootstrap.TypeViewLocator, out io.Writer) {
	l.Register(s.Root, nil, func(any) (any, error) {
		return &Transcript{Journal: s.Journal, Out: out}, nil
	})
}
