package manifest

import (
	"encoding/json"
	"fmt"
)

// AssetObject is one entry of an asset index: a content-addressed object
// referenced by a logical (in-game) path.
type AssetObject struct {
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

// AssetIndex is the decoded `assets/indexes/<id>.json` document: a map of
// logical name to content-addressed object.
type AssetIndex struct {
	Objects map[string]AssetObject `json:"objects"`
}

// DecodeAssetIndex parses an asset index document.
func DecodeAssetIndex(data []byte) (*AssetIndex, error) {
	var idx AssetIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVersionProfile, err)
	}
	return &idx, nil
}
