package conductor_test

import (
	"context"
	"time"

	"github.com/go-drift/conductor/pkg/lifecycle"
)

const (
	timeout = time.Second
	tick    = time.Millisecond
)

type processed struct {
	Item    any
	Success bool
}

type processedLog struct {
	entries []processed
}

func recordProcessed(c lifecycle.Conductor) *processedLog {
	log := &processedLog{}
	c.ActivationProcessed().Subscribe(func(_ context.Context, _ any, args lifecycle.ActivationProcessedEventArgs) error {
		log.entries = append(log.entries, processed{Item: args.Item, Success: args.Success})
		return nil
	})
	return log
}

func (l *processedLog) last() processed {
	if len(l.entries) == 0 {
		return processed{}
	}
	return l.entries[len(l.entries)-1]
}

type plain struct{ name string }
