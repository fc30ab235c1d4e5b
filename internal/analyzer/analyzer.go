// Package analyzer runs mining strategies over datasets, generates rules
// and records each run in the store.
package analyzer

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/blackwell-systems/basketminer/internal/store"
)

// Analyzer mines datasets and, when a store is attached, records every run.
type Analyzer struct {
	store *store.Store
	log   logrus.FieldLogger
	now   func() time.Time
}

// New creates a new Analyzer. st may be nil, in which case runs are not
// persisted. A nil logger discards output.
func New(st *store.Store, log logrus.FieldLogger) *Analyzer {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Analyzer{store: st, log: log, now: time.Now}
}
