package processor

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/urbanatlas/greenspace/internal/gdb"
)

// sleep is swapped out in tests.
var sleep = time.Sleep

// Retry runs op, retrying while the geodatabase reports a held schema
// lock. Any other error propagates immediately; after the attempt budget
// is spent the final failure is returned unchanged.
func Retry(op func() error, attempts int, delay time.Duration) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		if !errors.Is(err, gdb.ErrWorkspaceLocked) || attempt == attempts {
			return err
		}

		log.Warn().
			Int("attempt", attempt).
			Dur("delay", delay).
			Msg("Workspace is locked, retrying")

		sleep(delay)
	}

	return err
}
