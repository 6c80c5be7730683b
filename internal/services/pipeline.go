package services

import (
	"context"
	"fmt"
	"log"

	"denisetiawan/ai-recruiter/internal/models"
	"denisetiawan/ai-recruiter/internal/repositories"
)

// OrchestratorService runs the full evaluation workflow for one job
// description: retrieval narrowing, one state machine run per accepted
// candidate, gap verification, and report persistence. Candidates are
// processed sequentially; cross-candidate ordering carries no
// guarantee.
type OrchestratorService interface {
	RunWorkflow(ctx context.Context, jobDescription string) ([]*models.EvaluationState, error)
}

type orchestratorService struct {
	retrieval     RetrievalService
	stateMachine  *StateMachine
	reports       ReportService
	candidateRepo repositories.CandidateRepository
	retrievalK    int
}

func NewOrchestratorService(
	retrieval RetrievalService,
	stateMachine *StateMachine,
	reports ReportService,
	candidateRepo repositories.CandidateRepository,
	retrievalK int,
) OrchestratorService {
	return &orchestratorService{
		retrieval:     retrieval,
		stateMachine:  stateMachine,
		reports:       reports,
		candidateRepo: candidateRepo,
		retrievalK:    retrievalK,
	}
}

// RunWorkflow implements OrchestratorService.
func (o *orchestratorService) RunWorkflow(ctx context.Context, jobDescription string) ([]*models.EvaluationState, error) {
	broadMatches, err := o.retrieval.Retrieve(ctx, jobDescription, o.retrievalK)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	accepted, rejectedSources := o.retrieval.FilterRelevant(ctx, jobDescription, broadMatches)

	// Rejected sources still get a terminal report; they just never
	// enter the state machine.
	for _, source := range rejectedSources {
		identity, err := o.candidateRepo.Find(ctx, source)
		if err != nil {
			log.Printf("⚠️  Identity lookup failed for %s: %v\n", source, err)
			identity = &models.CandidateIdentity{Name: fmt.Sprintf("Unknown (%s)", source), Email: "N/A"}
		}
		if err := o.reports.SaveRejectionReport(identity, source); err != nil {
			log.Printf("⚠️  Failed to save rejection report for %s: %v\n", source, err)
		}
	}

	if len(accepted) == 0 {
		log.Println("❌ No relevant candidates found.")
		return nil, nil
	}

	log.Printf("✅ Starting evaluation for %d candidates...\n", len(accepted))

	var finalStates []*models.EvaluationState
	for _, doc := range accepted {
		identity, err := o.candidateRepo.Find(ctx, doc.Source)
		if err != nil {
			log.Printf("⚠️  Identity lookup failed for %s: %v\n", doc.Source, err)
			identity = &models.CandidateIdentity{Name: fmt.Sprintf("Unknown (%s)", doc.Source), Email: "N/A"}
		}

		log.Printf("🚀 Processing: %s\n", identity.Name)

		state := &models.EvaluationState{
			JobDescription: jobDescription,
			CandidateID:    identity.Name,
			CandidateEmail: identity.Email,
			Source:         doc.Source,
			ResumeText:     doc.Content,
		}

		o.stateMachine.Run(ctx, state)

		// Hop 3: correct screening false negatives caused by chunk
		// boundaries before the report is frozen.
		if state.Screening != nil && len(state.Screening.MissingSkills) > 0 {
			state.Screening.MissingSkills = o.retrieval.VerifyMissingSkills(ctx, doc, state.Screening.MissingSkills)
		}

		if err := o.reports.SaveReport(state); err != nil {
			log.Printf("⚠️  Failed to save report for %s: %v\n", identity.Name, err)
		}

		finalStates = append(finalStates, state)
	}

	return finalStates, nil
}
