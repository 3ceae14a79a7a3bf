package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const mergeFlagTTL = 30 * 24 * time.Hour

// MergeFlags records which guest sessions already had their cart merged into
// a user cart during the current login.
type MergeFlags struct {
	client *redis.Client
}

func NewMergeFlags(client *redis.Client) *MergeFlags {
	return &MergeFlags{client: client}
}

// Acquire sets the flag for the session and reports whether this call set
// it. Only the caller that gets true may run the merge.
func (m *MergeFlags) Acquire(ctx context.Context, sessionID string) (bool, error) {
	ok, err := m.client.SetNX(ctx, mergeFlagKey(sessionID), time.Now().UTC().Format(time.RFC3339), mergeFlagTTL).Result()
	if err != nil {
		return false, fmt.Errorf("setting merge flag: %w", err)
	}
	return ok, nil
}

// Release clears the flag so a later login on the session merges again.
func (m *MergeFlags) Release(ctx context.Context, sessionID string) error {
	if err := m.client.Del(ctx, mergeFlagKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("clearing merge flag: %w", err)
	}
	return nil
}

func (m *MergeFlags) IsSet(ctx context.Context, sessionID string) (bool, error) {
	n, err := m.client.Exists(ctx, mergeFlagKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("reading merge flag: %w", err)
	}
	return n == 1, nil
}

func mergeFlagKey(sessionID string) string {
	return fmt.Sprintf("cart:merged:%s", sessionID)
}
