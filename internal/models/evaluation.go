package models

// CandidateDocument is one chunk of resume text returned by the vector
// index. Several chunks may share one Source; candidate uniqueness is
// defined by Source, never by chunk.
type CandidateDocument struct {
	Content  string
	Source   string
	Score    float32
	Metadata map[string]interface{}
}

// Structured outputs of the five evaluation agents. Each slot is a
// pointer on EvaluationState; nil means the call failed and downstream
// logic treats it as "no data".

type Plan struct {
	Steps []string `json:"steps"`
	Logic string   `json:"logic"`
}

type ScreeningResult struct {
	MatchScore       float64  `json:"match_score"`
	RankedCandidates []string `json:"ranked_candidates"`
	MatchingSkills   []string `json:"matching_skills"`
	MissingSkills    []string `json:"missing_skills"`
	Reasoning        string   `json:"reasoning"`
}

type InterviewQuestions struct {
	Questions  []string `json:"questions"`
	Difficulty string   `json:"difficulty"`
}

type SkillAssessment struct {
	Tasks              []string `json:"tasks"`
	EvaluationCriteria string   `json:"evaluation_criteria"`
}

type Critique struct {
	CritiquePassed bool     `json:"critique_passed"`
	CriticFeedback string   `json:"critic_feedback"`
	Issues         []string `json:"issues"`
}

// EvaluationState is the shared record one state machine run mutates.
// IterationCount counts screening attempts and only ever grows;
// Feedback carries the latest failed critique into the next attempt.
type EvaluationState struct {
	JobDescription string
	CandidateID    string
	CandidateEmail string
	Source         string
	ResumeText     string

	Plan       *Plan
	Screening  *ScreeningResult
	Questions  *InterviewQuestions
	Assessment *SkillAssessment
	Critique   *Critique

	IterationCount int
	Feedback       string
}
