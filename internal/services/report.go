package services

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"denisetiawan/ai-recruiter/internal/models"
)

const (
	reportModelName  = "gemini-2.5-flash"
	highMatchCutoff  = 80.0
	summaryMaxLength = 150

	autoRejectReasoning = "Rejected at relevance filter: resume content not relevant to the job description."
)

// ReportService persists one JSON report per candidate and aggregates
// them into the master report for a workflow run.
type ReportService interface {
	SaveReport(state *models.EvaluationState) error
	SaveRejectionReport(identity *models.CandidateIdentity, source string) error
	LoadReport(candidateID string) (*models.Report, error)
	Aggregate() (*models.MasterReport, error)
}

type reportService struct {
	reportsDir string
	masterFile string
}

func NewReportService(reportsDir, masterFile string) (ReportService, error) {
	if err := os.MkdirAll(reportsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create reports directory: %w", err)
	}

	return &reportService{
		reportsDir: reportsDir,
		masterFile: masterFile,
	}, nil
}

// SaveReport implements ReportService. Re-running an evaluation for
// the same candidate overwrites the previous snapshot.
func (r *reportService) SaveReport(state *models.EvaluationState) error {
	report := &models.Report{
		Metadata: models.ReportMetadata{
			CandidateID:    state.CandidateID,
			CandidateEmail: state.CandidateEmail,
			Source:         state.Source,
			Timestamp:      time.Now().Format(time.RFC1123),
			Model:          reportModelName,
		},
		RankedList:     []string{state.CandidateID},
		CriticFeedback: "None",
		IterationCount: state.IterationCount,
		FullDetails: models.ReportDetails{
			Plan:         state.Plan,
			Screening:    state.Screening,
			Questions:    state.Questions,
			Assessment:   state.Assessment,
			CriticReview: state.Critique,
		},
	}

	if state.Screening != nil {
		report.MatchScore = state.Screening.MatchScore
	}
	if state.Critique != nil && state.Critique.CriticFeedback != "" {
		report.CriticFeedback = state.Critique.CriticFeedback
	}

	return r.writeReport(state.CandidateID, report)
}

// SaveRejectionReport implements ReportService. The short-circuit path
// for candidates dropped at the relevance filter: zero score, fixed
// reasoning, no state machine run.
func (r *reportService) SaveRejectionReport(identity *models.CandidateIdentity, source string) error {
	report := &models.Report{
		Metadata: models.ReportMetadata{
			CandidateID:    identity.Name,
			CandidateEmail: identity.Email,
			Source:         source,
			Timestamp:      time.Now().Format(time.RFC1123),
			Model:          reportModelName,
		},
		MatchScore:     0,
		RankedList:     []string{},
		CriticFeedback: "None",
		IterationCount: 0,
		FullDetails: models.ReportDetails{
			Screening: &models.ScreeningResult{
				MatchScore:       0,
				RankedCandidates: []string{},
				MatchingSkills:   []string{},
				MissingSkills:    []string{},
				Reasoning:        autoRejectReasoning,
			},
		},
	}

	return r.writeReport(identity.Name, report)
}

// LoadReport implements ReportService.
func (r *reportService) LoadReport(candidateID string) (*models.Report, error) {
	path := r.reportPath(candidateID)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var report models.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// Aggregate implements ReportService. Malformed report files are
// skipped with a warning, never fatal. Rankings are stable-sorted so
// equal scores keep their read order.
func (r *reportService) Aggregate() (*models.MasterReport, error) {
	log.Println("📊 Generating master report...")

	files, err := filepath.Glob(filepath.Join(r.reportsDir, "*_report.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list report files: %w", err)
	}
	sort.Strings(files)

	var rankings []models.RankedReport
	highMatch := 0
	totalScore := 0.0

	// Glob returns cleaned paths; clean the configured spelling too or
	// the master file slips past its own skip.
	masterPath := filepath.Clean(r.masterFile)

	for _, path := range files {
		if filepath.Clean(path) == masterPath {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("⚠️  Skipping unreadable report %s: %v\n", path, err)
			continue
		}

		var report models.Report
		if err := json.Unmarshal(data, &report); err != nil {
			log.Printf("⚠️  Skipping malformed report %s: %v\n", path, err)
			continue
		}

		reasoning := "No reasoning provided."
		if report.FullDetails.Screening != nil && report.FullDetails.Screening.Reasoning != "" {
			reasoning = report.FullDetails.Screening.Reasoning
		}

		rankings = append(rankings, models.RankedReport{
			ID:       report.Metadata.CandidateID,
			Score:    report.MatchScore,
			Summary:  truncateSummary(reasoning),
			Filename: filepath.Base(path),
		})

		totalScore += report.MatchScore
		if report.MatchScore >= highMatchCutoff {
			highMatch++
		}
	}

	validCount := len(rankings)

	avgScore := 0.0
	successRate := "0%"
	if validCount > 0 {
		avgScore = math.Round(totalScore/float64(validCount)*100) / 100
		successRate = fmt.Sprintf("%.1f%%", float64(highMatch)/float64(validCount)*100)
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].Score > rankings[j].Score
	})

	master := &models.MasterReport{
		Meta: models.MasterMeta{
			GeneratedAt:    time.Now().Format(time.RFC3339),
			ModelVersion:   fmt.Sprintf("ai-recruiter (%s)", reportModelName),
			TotalProcessed: validCount,
		},
		Statistics: models.MasterStatistics{
			HighMatchCount:    highMatch,
			AverageMatchScore: avgScore,
			SuccessRate:       successRate,
		},
		Rankings: rankings,
	}

	if err := r.writeMaster(master); err != nil {
		return nil, err
	}

	log.Printf("✅ Master report saved: %s (%d candidates, %d high matches)\n", r.masterFile, validCount, highMatch)
	return master, nil
}

func (r *reportService) writeReport(candidateID string, report *models.Report) error {
	path := r.reportPath(candidateID)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	log.Printf("💾 Report saved: %s\n", path)
	return nil
}

func (r *reportService) writeMaster(master *models.MasterReport) error {
	data, err := json.MarshalIndent(master, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal master report: %w", err)
	}

	if err := os.WriteFile(r.masterFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write master report: %w", err)
	}

	return nil
}

func (r *reportService) reportPath(candidateID string) string {
	return filepath.Join(r.reportsDir, fmt.Sprintf("%s_report.json", SanitizeID(candidateID)))
}

// SanitizeID reduces a candidate name to a stable filename fragment:
// alphanumerics kept, spaces become underscores, everything else
// dropped.
func SanitizeID(id string) string {
	var sb strings.Builder
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			sb.WriteRune(c)
		case c == ' ':
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

func truncateSummary(text string) string {
	runes := []rune(text)
	if len(runes) <= summaryMaxLength {
		return text
	}
	return string(runes[:summaryMaxLength]) + "..."
}
