package models

// HistoryEvent holds one entry in an entity's history log
type HistoryEvent struct {
	At    string                 `json:"at"`
	Actor string                 `json:"actor,omitempty"`
	Type  string                 `json:"type"`
	Diff  map[string]interface{} `json:"diff,omitempty"`
}
