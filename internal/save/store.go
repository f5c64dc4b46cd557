package save

import (
	"context"

	"github.com/tomz197/blackwall/internal/game"
)

// Store persists one snapshot per key.
type Store interface {
	Save(ctx context.Context, key string, s game.Snapshot) error
	Load(ctx context.Context, key string) (game.Snapshot, error)
}
