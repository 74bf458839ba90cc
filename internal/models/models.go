package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName     string    `gorm:"not null"             json:"fullName"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null"             json:"-"`
	Contact      string    `json:"contact"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Course struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string    `gorm:"not null"             json:"title"`
	Instructor    string    `gorm:"not null"             json:"instructor"`
	DurationWeeks int       `gorm:"not null"             json:"duration"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Enrollment is the join row between a user and a course. The composite
// primary key keeps at most one row per user/course pair, so both sides
// of the relation are updated with a single insert.
type Enrollment struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CourseID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"course_id"`
	CreatedAt time.Time `json:"createdAt"`
}
