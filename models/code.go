package models

// StoredCode holds the structure for a stored snippet record in the
// key-value store. Timestamps are epoch milliseconds to stay wire-compatible
// with the original service.
type StoredCode struct {
	AccessCode string `json:"accessCode" bson:"accessCode"`
	Code       string `json:"code" bson:"code"`
	CreatedAt  int64  `json:"createdAt" bson:"createdAt"`
	ExpiresAt  int64  `json:"expiresAt" bson:"expiresAt"`
	Extended   bool   `json:"extended" bson:"extended"`
	TeacherID  string `json:"teacherId,omitempty" bson:"teacherId,omitempty"`
	Expired    bool   `json:"expired,omitempty" bson:"expired,omitempty"`
}

// SweepResult summarizes one expiry sweep over the store
type SweepResult struct {
	MovedToHistory    int `json:"movedToHistory"`
	PurgedFromHistory int `json:"purgedFromHistory"`
}
