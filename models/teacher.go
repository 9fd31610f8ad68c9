package models

// Teacher holds the structure for a teacher record
type Teacher struct {
	ID        string   `json:"id" bson:"id" validate:"required,uuid4"`
	Name      string   `json:"name" bson:"name" validate:"required,min=1"`
	Email     string   `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	Subjects  []string `json:"subjects" bson:"subjects"`
	Active    bool     `json:"active" bson:"active"`
	CreatedAt string   `json:"createdAt" bson:"createdAt"`
	UpdatedAt string   `json:"updatedAt" bson:"updatedAt"`
	DeletedAt string   `json:"deletedAt,omitempty" bson:"deletedAt,omitempty"`
}

// TeacherPatch holds the updatable fields of a teacher record
type TeacherPatch struct {
	Name     *string   `json:"name,omitempty"`
	Email    *string   `json:"email,omitempty"`
	Subjects *[]string `json:"subjects,omitempty"`
	Active   *bool     `json:"active,omitempty"`
}
