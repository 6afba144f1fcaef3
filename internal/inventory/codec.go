package inventory

import (
	"encoding/json"
	"fmt"

	"github.com/MrSnakeDoc/hwtrack/internal/domain"
)

// encode serializes the collection in the persisted shape: a JSON array
// of assets, derived status included.
func encode(assets []domain.Asset) ([]byte, error) {
	if assets == nil {
		assets = []domain.Asset{}
	}
	return json.Marshal(assets)
}

// decode parses a persisted record. Any error wraps ErrMalformedState.
func decode(data []byte) ([]domain.Asset, error) {
	var assets []domain.Asset
	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	if assets == nil {
		// a literal null is not a collection
		return nil, fmt.Errorf("%w: record is not an array", ErrMalformedState)
	}
	seen := make(map[string]struct{}, len(assets))
	for i, a := range assets {
		if a.ID == "" {
			return nil, fmt.Errorf("%w: asset %d has no id", ErrMalformedState, i)
		}
		if _, dup := seen[a.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrMalformedState, a.ID)
		}
		seen[a.ID] = struct{}{}
	}
	return assets, nil
}
