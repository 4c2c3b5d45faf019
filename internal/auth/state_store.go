package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"utilityapi/internal/cache"
)

const stateKeyPrefix = "oauth_state:"

// StateTTL is how long an issued OAuth state nonce stays valid. A login
// redirect older than this must be restarted.
const StateTTL = 10 * time.Minute

// StateStoreInterface defines the OAuth CSRF state operations.
type StateStoreInterface interface {
	Issue(ctx context.Context) (string, error)
	Consume(ctx context.Context, state string) (bool, error)
}

// StateStore keeps single-use OAuth state nonces in Redis so the login leg
// stays stateless in-process and the check holds across service instances.
type StateStore struct {
	cache *cache.Client
}

// Ensure StateStore implements StateStoreInterface
var _ StateStoreInterface = (*StateStore)(nil)

// NewStateStore creates a new state store.
func NewStateStore(cache *cache.Client) *StateStore {
	return &StateStore{cache: cache}
}

// Issue stores a fresh nonce with TTL and returns it.
func (s *StateStore) Issue(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := s.cache.Set(ctx, stateKeyPrefix+state, []byte("1"), StateTTL); err != nil {
		return "", fmt.Errorf("store oauth state: %w", err)
	}
	return state, nil
}

// Consume removes the nonce, reporting whether it existed. A nonce can be
// consumed exactly once; replays and expired states report false.
func (s *StateStore) Consume(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}
	data, err := s.cache.GetDel(ctx, stateKeyPrefix+state)
	if err != nil {
		return false, fmt.Errorf("consume oauth state: %w", err)
	}
	return data != nil, nil
}
