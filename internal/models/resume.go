package models

import (
	"time"
)

// Resume is one completed analysis. Rows are written once and never updated.
type Resume struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FileName       string    `gorm:"type:text;not null" json:"file_name"`
	JobDescription string    `gorm:"type:text;not null" json:"job_description"`
	ResumeText     string    `gorm:"type:text;not null" json:"resume_text"`
	AIResult       string    `gorm:"type:text;not null" json:"ai_result"`
	Score          int       `gorm:"not null;default:0" json:"score"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}

func (Resume) TableName() string {
	return "resumes"
}
