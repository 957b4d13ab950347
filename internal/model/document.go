// Package model defines the persistent types for the Photodit CMS backend.
package model

import (
	"encoding/json"
	"time"
)

// ConfigDocument is a named, opaque JSON payload holding one page's or
// feature's editable content. The store never inspects Data; its shape
// belongs to the editor forms and page components that read it.
type ConfigDocument struct {
	Key         string          `json:"key"`
	Data        json.RawMessage `json:"data"`
	LastUpdated time.Time       `json:"last_updated"`
}
