package models

import "time"

type AnalyzeRequest struct {
	JobDescription string `form:"job_description" validate:"required,notblank"`
}

type AnalyzeResponse struct {
	ID        uint      `json:"id"`
	FileName  string    `json:"file_name"`
	Score     int       `json:"score"`
	AIResult  string    `json:"ai_result"`
	CreatedAt time.Time `json:"created_at"`
}

type ResumeListResponse struct {
	Items  []Resume `json:"items"`
	Total  int64    `json:"total"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
}

type SimilarResume struct {
	ID         uint    `json:"id"`
	FileName   string  `json:"file_name"`
	Score      int     `json:"score"`
	Similarity float32 `json:"similarity"`
}

type SimilarResponse struct {
	ID    uint            `json:"id"`
	Items []SimilarResume `json:"items"`
}
