package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"denisetiawan/ai-recruiter/internal/models"
)

const testJob = "Bioinformatics Scientist, requires Python and NGS experience."

func chunk(source, content string) models.CandidateDocument {
	return models.CandidateDocument{Source: source, Content: content}
}

func TestRetrieveOverfetches(t *testing.T) {
	gemini := &fakeGemini{
		embedFn: func(string) ([]float32, error) { return []float32{0.1, 0.2}, nil },
	}
	qdrant := &fakeQdrant{
		searchFn: func(limit int) ([]models.CandidateDocument, error) {
			return []models.CandidateDocument{chunk("a.pdf", "python")}, nil
		},
	}
	svc := NewRetrievalService(gemini, qdrant, passingAgents())

	_, err := svc.Retrieve(context.Background(), testJob, 5)
	require.NoError(t, err)

	require.Len(t, qdrant.searchCalls, 1)
	assert.Equal(t, 10, qdrant.searchCalls[0])
}

func TestFilterRelevantAcceptsOneChunkPerSource(t *testing.T) {
	agents := passingAgents()
	agents.relevanceFn = func(string) (bool, error) { return true, nil }
	svc := NewRetrievalService(&fakeGemini{}, &fakeQdrant{}, agents)

	docs := []models.CandidateDocument{
		chunk("a.pdf", "chunk 1"),
		chunk("a.pdf", "chunk 2"),
		chunk("a.pdf", "chunk 3"),
		chunk("b.pdf", "chunk 1"),
	}

	accepted, rejected := svc.FilterRelevant(context.Background(), testJob, docs)

	require.Len(t, accepted, 2)
	assert.Equal(t, "a.pdf", accepted[0].Source)
	assert.Equal(t, "b.pdf", accepted[1].Source)
	assert.Empty(t, rejected)

	// Chunks of an already-accepted source skip the judgment call.
	assert.Equal(t, 2, agents.relevanceCalls)
}

func TestFilterRelevantRejectionNotSticky(t *testing.T) {
	agents := passingAgents()
	agents.relevanceFn = func(excerpt string) (bool, error) {
		// Only the third chunk of a.pdf mentions the right skills.
		return strings.Contains(excerpt, "NGS"), nil
	}
	svc := NewRetrievalService(&fakeGemini{}, &fakeQdrant{}, agents)

	docs := []models.CandidateDocument{
		chunk("a.pdf", "hobby section"),
		chunk("a.pdf", "education section"),
		chunk("a.pdf", "NGS pipelines in Python"),
	}

	accepted, rejected := svc.FilterRelevant(context.Background(), testJob, docs)

	require.Len(t, accepted, 1)
	assert.Equal(t, "NGS pipelines in Python", accepted[0].Content)
	assert.Empty(t, rejected)
	assert.Equal(t, 3, agents.relevanceCalls)
}

func TestFilterRelevantReportsRejectedSources(t *testing.T) {
	agents := passingAgents()
	agents.relevanceFn = func(excerpt string) (bool, error) {
		return !strings.Contains(excerpt, "florist"), nil
	}
	svc := NewRetrievalService(&fakeGemini{}, &fakeQdrant{}, agents)

	docs := []models.CandidateDocument{
		chunk("a.pdf", "python developer"),
		chunk("b.pdf", "florist with 10 years experience"),
		chunk("c.pdf", "genomics researcher"),
	}

	accepted, rejected := svc.FilterRelevant(context.Background(), testJob, docs)

	require.Len(t, accepted, 2)
	assert.Equal(t, []string{"b.pdf"}, rejected)
}

func TestFilterRelevantJudgmentFailureDropsChunkOnly(t *testing.T) {
	agents := passingAgents()
	agents.relevanceFn = func(excerpt string) (bool, error) {
		if strings.Contains(excerpt, "flaky") {
			return false, fmt.Errorf("service unavailable")
		}
		return true, nil
	}
	svc := NewRetrievalService(&fakeGemini{}, &fakeQdrant{}, agents)

	docs := []models.CandidateDocument{
		chunk("a.pdf", "flaky chunk"),
		chunk("b.pdf", "good chunk"),
		chunk("a.pdf", "second chance chunk"),
	}

	accepted, _ := svc.FilterRelevant(context.Background(), testJob, docs)

	// The failed call drops only that chunk; the batch continues and
	// the same source is retried on its next chunk.
	require.Len(t, accepted, 2)
	assert.Equal(t, "b.pdf", accepted[0].Source)
	assert.Equal(t, "a.pdf", accepted[1].Source)
}

func TestVerifyMissingSkillsRemovesFalseNegatives(t *testing.T) {
	gemini := &fakeGemini{
		embedFn: func(string) ([]float32, error) { return []float32{0.5}, nil },
	}

	// Python is found in a deeper chunk of the same resume; Kubernetes
	// is not (the hit belongs to another resume).
	callCount := 0
	qdrant := &fakeQdrant{
		searchFn: func(int) ([]models.CandidateDocument, error) {
			callCount++
			if callCount == 1 {
				return []models.CandidateDocument{chunk("a.pdf", "Python scripting")}, nil
			}
			return []models.CandidateDocument{chunk("other.pdf", "Kubernetes admin")}, nil
		},
	}
	svc := NewRetrievalService(gemini, qdrant, passingAgents())

	doc := chunk("a.pdf", "resume excerpt")
	verified := svc.VerifyMissingSkills(context.Background(), doc, []string{"Python", "Kubernetes"})
	assert.Equal(t, []string{"Kubernetes"}, verified)
}

func TestVerifyMissingSkillsNeverAdds(t *testing.T) {
	gemini := &fakeGemini{
		embedFn: func(string) ([]float32, error) { return []float32{0.5}, nil },
	}
	qdrant := &fakeQdrant{
		searchFn: func(int) ([]models.CandidateDocument, error) {
			return []models.CandidateDocument{chunk("other.pdf", "unrelated")}, nil
		},
	}
	svc := NewRetrievalService(gemini, qdrant, passingAgents())

	missing := []string{"Go", "Rust"}
	verified := svc.VerifyMissingSkills(context.Background(), chunk("a.pdf", "x"), missing)

	assert.Subset(t, missing, verified)
	assert.Equal(t, missing, verified)
}

func TestVerifyMissingSkillsEmptyInput(t *testing.T) {
	svc := NewRetrievalService(&fakeGemini{}, &fakeQdrant{}, passingAgents())

	verified := svc.VerifyMissingSkills(context.Background(), chunk("a.pdf", "x"), nil)
	assert.Empty(t, verified)
}

func TestVerifyMissingSkillsQueryFailureKeepsClaim(t *testing.T) {
	// Index down: the claim stands unverified rather than being
	// silently cleared.
	svc := NewRetrievalService(&fakeGemini{}, &fakeQdrant{}, passingAgents())

	verified := svc.VerifyMissingSkills(context.Background(), chunk("a.pdf", "x"), []string{"Python"})
	assert.Equal(t, []string{"Python"}, verified)
}
