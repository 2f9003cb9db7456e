package models

import "time"

const (
	// RoleTeacher identifies users allowed to author exams and view cohort results.
	RoleTeacher = "teacher"
	// RoleStudent identifies users allowed to join exams and submit answers.
	RoleStudent = "student"
)

// User represents an authenticated principal, either a teacher or a student.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:16;not null" json:"role"`
	Department   string    `gorm:"size:255" json:"department,omitempty"`
	RollNumber   string    `gorm:"size:64" json:"roll_number,omitempty"`
	Class        string    `gorm:"size:64" json:"class,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsTeacher reports whether the user holds the teacher role.
func (u User) IsTeacher() bool {
	return u.Role == RoleTeacher
}
