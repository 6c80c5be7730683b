package models

type CandidateStatus string

const (
	StatusQueued     CandidateStatus = "queued"
	StatusProcessing CandidateStatus = "processing"
	StatusCompleted  CandidateStatus = "completed"
	StatusFailed     CandidateStatus = "failed"
)

// CandidateIdentity maps a resume source name to the human behind it.
// Stored as a Redis hash at "candidate:<source>"; field updates are
// last-writer-wins.
type CandidateIdentity struct {
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Status      CandidateStatus `json:"status"`
	SubmittedAt string          `json:"submitted_at"`
}

func (c *CandidateIdentity) ToFields() map[string]interface{} {
	return map[string]interface{}{
		"name":         c.Name,
		"email":        c.Email,
		"status":       string(c.Status),
		"submitted_at": c.SubmittedAt,
	}
}

func IdentityFromFields(fields map[string]string) *CandidateIdentity {
	return &CandidateIdentity{
		Name:        fields["name"],
		Email:       fields["email"],
		Status:      CandidateStatus(fields["status"]),
		SubmittedAt: fields["submitted_at"],
	}
}
