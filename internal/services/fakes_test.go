package services

import (
	"context"
	"fmt"

	"denisetiawan/ai-recruiter/internal/models"
)

// Scriptable fakes for the external collaborators. Function fields
// left nil make the corresponding call fail, which doubles as the
// outage scenario.

type fakeGemini struct {
	embedFn    func(text string) ([]float32, error)
	generateFn func(prompt string) (string, error)
	calls      []string
}

func (f *fakeGemini) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	if f.embedFn == nil {
		return nil, fmt.Errorf("embedding unavailable")
	}
	return f.embedFn(text)
}

func (f *fakeGemini) GenerateText(_ context.Context, prompt string, _ float32) (string, error) {
	f.calls = append(f.calls, prompt)
	if f.generateFn == nil {
		return "", fmt.Errorf("generation unavailable")
	}
	return f.generateFn(prompt)
}

func (f *fakeGemini) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, _ int) (string, error) {
	return f.GenerateText(ctx, prompt, temperature)
}

type fakeQdrant struct {
	searchFn    func(limit int) ([]models.CandidateDocument, error)
	searchCalls []int
}

func (f *fakeQdrant) InitCollection() error { return nil }

func (f *fakeQdrant) UpsertChunk(_ context.Context, _ string, _ int, _ string, _ []float32) error {
	return nil
}

func (f *fakeQdrant) Search(_ context.Context, _ []float32, limit int) ([]models.CandidateDocument, error) {
	f.searchCalls = append(f.searchCalls, limit)
	if f.searchFn == nil {
		return nil, fmt.Errorf("index unavailable")
	}
	return f.searchFn(limit)
}

func (f *fakeQdrant) DeleteSource(_ context.Context, _ string) error { return nil }

type fakeAgents struct {
	plannerFn   func(transcript string) (*models.Plan, *ToolRequest, error)
	screenFn    func(feedback string, attempt int) (*models.ScreeningResult, error)
	questionsFn func() (*models.InterviewQuestions, error)
	assessFn    func() (*models.SkillAssessment, error)
	critiqueFn  func(attempt int) (*models.Critique, error)
	relevanceFn func(excerpt string) (bool, error)

	plannerCalls   int
	screenCalls    int
	critiqueCalls  int
	relevanceCalls int
	feedbackSeen   []string
}

func (f *fakeAgents) PlannerTurn(_ context.Context, _, _, transcript string) (*models.Plan, *ToolRequest, error) {
	f.plannerCalls++
	if f.plannerFn == nil {
		return nil, nil, fmt.Errorf("planner unavailable")
	}
	return f.plannerFn(transcript)
}

func (f *fakeAgents) ScreenResume(_ context.Context, _, _, feedback string) (*models.ScreeningResult, error) {
	f.screenCalls++
	f.feedbackSeen = append(f.feedbackSeen, feedback)
	if f.screenFn == nil {
		return nil, fmt.Errorf("screener unavailable")
	}
	return f.screenFn(feedback, f.screenCalls)
}

func (f *fakeAgents) GenerateQuestions(_ context.Context, _, _ string) (*models.InterviewQuestions, error) {
	if f.questionsFn == nil {
		return nil, fmt.Errorf("interviewer unavailable")
	}
	return f.questionsFn()
}

func (f *fakeAgents) CreateAssessment(_ context.Context, _ string) (*models.SkillAssessment, error) {
	if f.assessFn == nil {
		return nil, fmt.Errorf("assessor unavailable")
	}
	return f.assessFn()
}

func (f *fakeAgents) CritiqueOutputs(_ context.Context, _ string, _ *models.ScreeningResult, _ *models.InterviewQuestions) (*models.Critique, error) {
	f.critiqueCalls++
	if f.critiqueFn == nil {
		return nil, fmt.Errorf("critic unavailable")
	}
	return f.critiqueFn(f.critiqueCalls)
}

func (f *fakeAgents) JudgeRelevance(_ context.Context, _, excerpt string) (bool, error) {
	f.relevanceCalls++
	if f.relevanceFn == nil {
		return false, fmt.Errorf("relevance judge unavailable")
	}
	return f.relevanceFn(excerpt)
}

func passingAgents() *fakeAgents {
	return &fakeAgents{
		plannerFn: func(string) (*models.Plan, *ToolRequest, error) {
			return &models.Plan{Steps: []string{"Screening", "Interview Generation"}, Logic: "standard"}, nil, nil
		},
		screenFn: func(string, int) (*models.ScreeningResult, error) {
			return &models.ScreeningResult{
				MatchScore:     85,
				MatchingSkills: []string{"Python"},
				MissingSkills:  []string{"NGS"},
				Reasoning:      "solid background",
			}, nil
		},
		questionsFn: func() (*models.InterviewQuestions, error) {
			return &models.InterviewQuestions{
				Questions:  []string{"q1", "q2", "q3", "q4", "q5"},
				Difficulty: "Senior",
			}, nil
		},
		assessFn: func() (*models.SkillAssessment, error) {
			return &models.SkillAssessment{
				Tasks:              []string{"build a pipeline"},
				EvaluationCriteria: "correctness",
			}, nil
		},
		critiqueFn: func(int) (*models.Critique, error) {
			return &models.Critique{CritiquePassed: true}, nil
		},
	}
}
