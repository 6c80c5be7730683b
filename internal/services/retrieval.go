package services

import (
	"context"
	"fmt"
	"log"

	"denisetiawan/ai-recruiter/internal/models"
)

// RetrievalService is the three-hop pipeline that narrows the resume
// pool for one job description: broad similarity search, binary
// relevance filtering with per-source dedup, and targeted gap
// verification.
type RetrievalService interface {
	Retrieve(ctx context.Context, jobDescription string, k int) ([]models.CandidateDocument, error)
	FilterRelevant(ctx context.Context, jobDescription string, docs []models.CandidateDocument) (accepted []models.CandidateDocument, rejectedSources []string)
	VerifyMissingSkills(ctx context.Context, doc models.CandidateDocument, missingSkills []string) []string
}

type retrievalService struct {
	gemini        GeminiService
	qdrant        QdrantService
	agents        AgentService
	promptBuilder *PromptBuilder
}

func NewRetrievalService(gemini GeminiService, qdrant QdrantService, agents AgentService) RetrievalService {
	return &retrievalService{
		gemini:        gemini,
		qdrant:        qdrant,
		agents:        agents,
		promptBuilder: NewPromptBuilder(),
	}
}

// Retrieve implements RetrievalService. Hop 1: over-fetches 2k chunks
// so the relevance filter has room to drop noise.
func (r *retrievalService) Retrieve(ctx context.Context, jobDescription string, k int) ([]models.CandidateDocument, error) {
	log.Printf("🔍 HOP 1: Retrieving top %d chunks...\n", k*2)

	embedding, err := r.gemini.GenerateEmbedding(ctx, jobDescription)
	if err != nil {
		return nil, fmt.Errorf("failed to embed job description: %w", err)
	}

	docs, err := r.qdrant.Search(ctx, embedding, k*2)
	if err != nil {
		return nil, fmt.Errorf("broad retrieval failed: %w", err)
	}

	return docs, nil
}

// FilterRelevant implements RetrievalService. Hop 2: at most one
// accepted chunk per source. Acceptance is sticky; rejection is not,
// so a source dropped on one chunk may still be accepted on a later
// one. Chunks whose source is already accepted skip the judgment call
// entirely. A failed judgment drops that chunk and the batch keeps
// going.
func (r *retrievalService) FilterRelevant(ctx context.Context, jobDescription string, docs []models.CandidateDocument) ([]models.CandidateDocument, []string) {
	log.Println("🔍 HOP 2: Agentic relevance filter...")

	var accepted []models.CandidateDocument
	acceptedSources := make(map[string]bool)
	seenOrder := []string{}
	seen := make(map[string]bool)

	for _, doc := range docs {
		if !seen[doc.Source] {
			seen[doc.Source] = true
			seenOrder = append(seenOrder, doc.Source)
		}

		if acceptedSources[doc.Source] {
			continue
		}

		relevant, err := r.agents.JudgeRelevance(ctx, jobDescription, doc.Content)
		if err != nil {
			log.Printf("⚠️  Filter error for %s: %v\n", doc.Source, err)
			continue
		}

		if relevant {
			accepted = append(accepted, doc)
			acceptedSources[doc.Source] = true
			log.Printf("   ✅ Kept candidate: %s\n", doc.Source)
		} else {
			log.Printf("   ❌ Dropped candidate: %s\n", doc.Source)
		}
	}

	var rejected []string
	for _, source := range seenOrder {
		if !acceptedSources[source] {
			rejected = append(rejected, source)
		}
	}

	return accepted, rejected
}

// VerifyMissingSkills implements RetrievalService. Hop 3: a claimed
// gap is withdrawn when a targeted re-query finds the skill in another
// chunk of the same source, meaning the screener was tripped up by a
// chunk boundary rather than a real gap. The output is always a subset
// of the input; this pass never invents new gaps. A failed re-query
// leaves the skill on the list (the claim stands unverified).
func (r *retrievalService) VerifyMissingSkills(ctx context.Context, doc models.CandidateDocument, missingSkills []string) []string {
	if len(missingSkills) == 0 {
		return []string{}
	}

	log.Printf("🔍 HOP 3: Verifying %d missing skills...\n", len(missingSkills))
	verified := []string{}

	for _, skill := range missingSkills {
		query := r.promptBuilder.BuildGapVerificationQuery(skill)

		embedding, err := r.gemini.GenerateEmbedding(ctx, query)
		if err != nil {
			log.Printf("⚠️  Gap query embedding failed for '%s': %v\n", skill, err)
			verified = append(verified, skill)
			continue
		}

		results, err := r.qdrant.Search(ctx, embedding, 3)
		if err != nil {
			log.Printf("⚠️  Gap query failed for '%s': %v\n", skill, err)
			verified = append(verified, skill)
			continue
		}

		found := false
		for _, result := range results {
			if result.Source == doc.Source {
				log.Printf("   ⚠️  Correction: found '%s' in deeper search\n", skill)
				found = true
				break
			}
		}

		if !found {
			verified = append(verified, skill)
		}
	}

	return verified
}
