package models

type ApplyResponse struct {
	Source      string `json:"source"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	SubmittedAt string `json:"submitted_at"`
}

type CandidateStatusResponse struct {
	Source      string `json:"source"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Status      string `json:"status"`
	SubmittedAt string `json:"submitted_at"`
}
