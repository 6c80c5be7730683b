package models

// Report is the immutable JSON snapshot persisted once per candidate.
type Report struct {
	Metadata       ReportMetadata `json:"evaluation_metadata"`
	MatchScore     float64        `json:"match_score"`
	RankedList     []string       `json:"ranked_candidates"`
	CriticFeedback string         `json:"critic_feedback"`
	IterationCount int            `json:"iteration_count"`
	FullDetails    ReportDetails  `json:"full_details"`
}

type ReportMetadata struct {
	CandidateID    string `json:"candidate_id"`
	CandidateEmail string `json:"candidate_email"`
	Source         string `json:"source"`
	Timestamp      string `json:"timestamp"`
	Model          string `json:"model"`
}

type ReportDetails struct {
	Plan         *Plan               `json:"plan"`
	Screening    *ScreeningResult    `json:"screening"`
	Questions    *InterviewQuestions `json:"interview_questions"`
	Assessment   *SkillAssessment    `json:"skill_assessment"`
	CriticReview *Critique           `json:"critic_review"`
}

// MasterReport is the read-only aggregate over one workflow run.
type MasterReport struct {
	Meta       MasterMeta       `json:"meta"`
	Statistics MasterStatistics `json:"statistics"`
	Rankings   []RankedReport   `json:"rankings"`
}

type MasterMeta struct {
	GeneratedAt    string `json:"generated_at"`
	ModelVersion   string `json:"model_version"`
	TotalProcessed int    `json:"total_processed"`
}

type MasterStatistics struct {
	HighMatchCount    int     `json:"high_match_count"`
	AverageMatchScore float64 `json:"average_match_score"`
	SuccessRate       string  `json:"success_rate"`
}

type RankedReport struct {
	ID       string  `json:"id"`
	Score    float64 `json:"score"`
	Summary  string  `json:"summary"`
	Filename string  `json:"filename"`
}
