package cli

import (
	"fmt"
	"strconv"

	"github.com/example/cmms/internal/wire"
)

// parseID parses a numeric entity ID argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

// actorPtr returns the configured actor as an optional user reference,
// nil when no actor is configured.
func actorPtr() *int64 {
	actor := wire.Config().ActorID
	if actor == 0 {
		return nil
	}
	return &actor
}
