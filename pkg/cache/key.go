package cache

import (
	"encoding/json"
	"fmt"
)

// CacheKey identifies a cacheable DexPaprika read request.
type CacheKey struct {
	// Endpoint is the API path (e.g., "/networks/ethereum/pools")
	Endpoint string

	// Params are the query parameters (e.g., {"page": 0, "limit": 10})
	Params map[string]any
}

// String generates the cache key string.
// Format: endpoint:json(params)
//
// Example:
//
//	/networks/ethereum/pools:{"limit":10,"page":0}
//
// A nil Params map serializes as "{}". encoding/json writes map keys in
// sorted order, so the same logical params always yield the same key.
// Values are not normalized: 1 and "1" produce different keys.
func (k CacheKey) String() string {
	params := k.Params
	if params == nil {
		params = map[string]any{}
	}

	data, err := json.Marshal(params)
	if err != nil {
		// Unserializable values (channels, funcs) still need a stable key.
		return fmt.Sprintf("%s:%v", k.Endpoint, params)
	}

	return k.Endpoint + ":" + string(data)
}
