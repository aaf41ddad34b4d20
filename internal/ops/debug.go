package ops

import (
	"context"

	"github.com/hpungsan/moodlog/internal/store"
)

// DebugOutput is the raw stored payload and the number of entries it holds.
type DebugOutput = store.RawPayload

// Debug returns the raw persisted payload for diagnostics.
// Unlike List, it reports STORAGE_UNAVAILABLE when the backend cannot be read
// and flags a payload that does not parse instead of hiding it.
func Debug(ctx context.Context, deps Deps) (*DebugOutput, error) {
	return deps.Store.Raw(ctx)
}
