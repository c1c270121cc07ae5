package api

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// DecodeList coerces the two list shapes the backend emits for the same
// endpoints: a bare JSON array, or an object wrapping the array under
// "data". Anything else decodes to nil deterministically.
func DecodeList[T any](raw []byte) []T {
	if len(raw) == 0 {
		return nil
	}

	doc := gjson.ParseBytes(raw)
	list := doc
	if !doc.IsArray() {
		list = doc.Get("data")
	}
	if !list.IsArray() {
		return nil
	}

	var out []T
	if err := json.Unmarshal([]byte(list.Raw), &out); err != nil {
		log.Debug().Err(err).Msg("list decode failed, returning empty")
		return nil
	}

	return out
}

// Page is the paginated listing envelope used by the artisans_pages and
// search-page endpoints.
type Page[T any] struct {
	Data        []T `json:"data"`
	Total       int `json:"total"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
}
