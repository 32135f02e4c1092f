package models

import "time"

// HistoryEntry is an immutable record of one product or batch mutation.
type HistoryEntry struct {
	ID         string     `json:"id"`
	EntityType EntityType `json:"entityType"`
	EntityID   string     `json:"entityId"`
	EntityName string     `json:"entityName"`
	Action     Action     `json:"action"`
	UserID     string     `json:"userId"`
	UserName   string     `json:"userName"`
	Timestamp  time.Time  `json:"timestamp"`
	Changes    string     `json:"changes,omitempty"`
}
