package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	domain "github.com/BruksfildServices01/barber-reservations/internal/domain/reservation"
)

// readRetries is the number of extra attempts a read gets after a
// transient storage failure.
const readRetries = 2

// withReadRetry runs a read-only fn, retrying it with exponential backoff
// while it fails with domain.ErrTransient. Writes must not use it.
func withReadRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(readRetries, retry.NewExponential(50*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if errors.Is(err, domain.ErrTransient) {
			return retry.RetryableError(err)
		}
		return err
	})
}
