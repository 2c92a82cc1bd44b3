package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FirstName         string     `json:"first_name" gorm:"size:100;not null"`
	LastName          string     `json:"last_name" gorm:"size:100;not null"`
	Email             string     `json:"email" gorm:"uniqueIndex;not null"`
	Gender            string     `json:"gender" gorm:"size:10"`
	Phone             string     `json:"phone" gorm:"size:20"`
	Age               int        `json:"age"`
	DeptID            *uuid.UUID `json:"dept_id" gorm:"type:uuid"`
	Role              string     `json:"role" gorm:"size:100"`
	JoiningDate       *time.Time `json:"joining_date" gorm:"type:date"`
	IsActive          bool       `json:"is_active" gorm:"default:false"`
	Rating            int        `json:"rating" gorm:"default:0"`
	ProfileColor      string     `json:"profile_color" gorm:"size:20"`
	AvailabilityStart *string    `json:"availability_start" gorm:"size:8"`
	AvailabilityEnd   *string    `json:"availability_end" gorm:"size:8"`
	Tags              string     `json:"tags"`
	Agreement         bool       `json:"agreement" gorm:"default:false"`
	Resume            *string    `json:"resume"`
	ProfilePicture    *string    `json:"profile_picture"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// Relations
	Department Department `json:"department" gorm:"foreignKey:DeptID"`
}
