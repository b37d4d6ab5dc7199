package session

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/NitinReddy01/codejudge-cli/internal/logger"
)

// RefreshFunc performs the actual refresh round trip and returns the
// newly minted access token
type RefreshFunc func(ctx context.Context) (string, error)

// Refresher owns the single-flight refresh operation. However many
// requests discover an expired token at the same time, exactly one
// network refresh happens and every caller observes its outcome.
//
// With rotating refresh tokens this is a correctness requirement, not
// an optimization: a duplicate refresh call would consume the freshly
// rotated cookie and cascade into a spurious logout.
type Refresher struct {
	store   *Store
	refresh RefreshFunc
	logger  logger.Logger

	group singleflight.Group
}

func NewRefresher(store *Store, refresh RefreshFunc, l logger.Logger) *Refresher {
	return &Refresher{
		store:   store,
		refresh: refresh,
		logger:  l,
	}
}

// Token acquires a refreshed access token. Callers arriving while a
// refresh is in flight attach to it instead of starting another one.
// The new token is pushed to the store before any waiter is released.
// Failure is terminal for the cycle: the Refresher never retries.
func (r *Refresher) Token(ctx context.Context) (string, error) {
	v, err, shared := r.group.Do("refresh", func() (any, error) {
		token, err := r.refresh(ctx)
		if err != nil {
			return nil, err
		}

		r.store.SetAccessToken(token)
		return token, nil
	})
	if err != nil {
		r.logger.Debug("token refresh failed", "shared", shared, "error", err)
		return "", err
	}

	return v.(string), nil
}
