package models

// FileMeta holds the structure for an uploaded file's metadata. The blob
// itself lives in object storage under StorageKey; only metadata is kept in
// the key-value store.
type FileMeta struct {
	ID         string `json:"id" bson:"id"`
	Name       string `json:"name" bson:"name"`
	Size       int64  `json:"size" bson:"size"`
	StorageKey string `json:"storageKey,omitempty" bson:"storageKey,omitempty"`
	CreatedAt  string `json:"createdAt" bson:"createdAt"`
	DeletedAt  string `json:"deletedAt,omitempty" bson:"deletedAt,omitempty"`
}
