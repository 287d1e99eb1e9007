package models

import "encoding/json"

type JobRequest struct {
	Title           string `json:"title"`
	DescriptionText string `json:"description_text"`
	Location        string `json:"location"`
	SalaryRange     string `json:"salary_range"`
	RequiredSkills  string `json:"required_skills"`
	MinExperience   string `json:"min_experience"`
}

type JobSummary struct {
	ID             uint   `json:"id"`
	Title          string `json:"title"`
	Location       string `json:"location"`
	CreatedAt      string `json:"created_at"`
	CandidateCount int    `json:"candidate_count"`
}

type BulkDeleteJobsRequest struct {
	JobIDs []uint `json:"job_ids"`
}

type BulkDeleteCandidatesRequest struct {
	CandidateIDs []uint `json:"candidate_ids"`
}

type UpdateStatusRequest struct {
	Status    string `json:"status"`
	Comments  string `json:"comments"`
	ChangedBy string `json:"changed_by"`
}

type RescheduleRequest struct {
	Comments  string `json:"comments"`
	ChangedBy string `json:"changed_by"`
}

type InterviewRequest struct {
	RoundNumber     int      `json:"round_number"`
	InterviewerName string   `json:"interviewer_name"`
	InterviewDate   string   `json:"interview_date"`
	Score           *float64 `json:"score"`
	Feedback        string   `json:"feedback"`
}

type BulkMessageRequest struct {
	CandidateIDs []uint `json:"candidate_ids"`
	Channel      string `json:"channel"`
	Subject      string `json:"subject"`
	Message      string `json:"message"`
	ChangedBy    string `json:"changed_by"`
}

type CandidateSummary struct {
	ID          uint    `json:"id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	Status      string  `json:"status"`
	JobTitle    string  `json:"job_title"`
	ATSScore    float64 `json:"ats_score"`
}

type StatusHistoryEntry struct {
	StatusDescription string `json:"status_description"`
	Comments          string `json:"comments"`
	ChangedBy         string `json:"changed_by"`
	ChangedAt         string `json:"changed_at"`
}

type CandidateDetail struct {
	CandidateSummary
	Name          string               `json:"name"`
	AIAnalysis    json.RawMessage      `json:"ai_analysis"`
	StatusHistory []StatusHistoryEntry `json:"status_history"`
	ResumePath    string               `json:"resume_path"`
}

type IntakeResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

type DashboardStats struct {
	ActiveJobs             int64 `json:"active_jobs"`
	TotalCandidates        int64 `json:"total_candidates_shortlisted"`
	CandidatesInterviewing int64 `json:"candidates_interviewing"`
	OffersExtended         int64 `json:"offers_extended"`
}
