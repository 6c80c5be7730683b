package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "markdown fence",
			input:    "```json\n{\"match_score\": 85}\n```",
			expected: "{\"match_score\": 85}",
		},
		{
			name:     "surrounding prose",
			input:    "Here is my analysis: {\"match_score\": 85} Hope that helps!",
			expected: "{\"match_score\": 85}",
		},
		{
			name:     "bare array",
			input:    "The questions are: [\"q1\", \"q2\"]",
			expected: "[\"q1\", \"q2\"]",
		},
		{
			name:     "clean json untouched",
			input:    "{\"a\": 1}",
			expected: "{\"a\": 1}",
		},
		{
			name:     "no json at all",
			input:    "I could not produce a result.",
			expected: "I could not produce a result.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, extractJSON(tc.input))
		})
	}
}

func TestPlannerTurnReturnsToolRequest(t *testing.T) {
	gemini := &fakeGemini{
		generateFn: func(string) (string, error) {
			return "```json\n{\"tool\": \"lookup_salary_range\", \"args\": {\"role\": \"Bioinformatics Scientist\", \"location\": \"Boston\"}}\n```", nil
		},
	}
	agents := NewAgentService(gemini, 1)

	plan, req, err := agents.PlannerTurn(context.Background(), "job", "resume", "")
	require.NoError(t, err)
	assert.Nil(t, plan)
	require.NotNil(t, req)
	assert.Equal(t, ToolSalaryLookup, req.Tool)
	assert.Equal(t, "Boston", req.Args["location"])
}

func TestPlannerTurnReturnsFinalPlan(t *testing.T) {
	gemini := &fakeGemini{
		generateFn: func(string) (string, error) {
			return `{"steps": ["screen", "interview"], "logic": "standard pipeline"}`, nil
		},
	}
	agents := NewAgentService(gemini, 1)

	plan, req, err := agents.PlannerTurn(context.Background(), "job", "resume", "")
	require.NoError(t, err)
	assert.Nil(t, req)
	require.NotNil(t, plan)
	assert.Equal(t, []string{"screen", "interview"}, plan.Steps)
	assert.Equal(t, "standard pipeline", plan.Logic)
}

func TestPlannerTurnUnparseableReply(t *testing.T) {
	gemini := &fakeGemini{
		generateFn: func(string) (string, error) {
			return "I am unable to plan today.", nil
		},
	}
	agents := NewAgentService(gemini, 1)

	plan, req, err := agents.PlannerTurn(context.Background(), "job", "resume", "")
	require.Error(t, err)
	assert.Nil(t, plan)
	assert.Nil(t, req)
}

func TestScreenResumeParsesFencedJSON(t *testing.T) {
	gemini := &fakeGemini{
		generateFn: func(string) (string, error) {
			return "```json\n{\"match_score\": 72.5, \"ranked_candidates\": [\"Jane\"], \"matching_skills\": [\"Python\"], \"missing_skills\": [\"NGS\"], \"reasoning\": \"solid\"}\n```", nil
		},
	}
	agents := NewAgentService(gemini, 1)

	result, err := agents.ScreenResume(context.Background(), "job", "resume", "")
	require.NoError(t, err)
	assert.Equal(t, 72.5, result.MatchScore)
	assert.Equal(t, []string{"NGS"}, result.MissingSkills)
}

func TestScreenResumeFeedbackReachesPrompt(t *testing.T) {
	gemini := &fakeGemini{
		generateFn: func(string) (string, error) {
			return `{"match_score": 50, "reasoning": "revised"}`, nil
		},
	}
	agents := NewAgentService(gemini, 1)

	_, err := agents.ScreenResume(context.Background(), "job", "resume", "scores lack justification")
	require.NoError(t, err)

	require.Len(t, gemini.calls, 1)
	assert.Contains(t, gemini.calls[0], "CRITICAL INSTRUCTION")
	assert.Contains(t, gemini.calls[0], "scores lack justification")
}

func TestScreenResumeNoFeedbackNoRetryBlock(t *testing.T) {
	gemini := &fakeGemini{
		generateFn: func(string) (string, error) {
			return `{"match_score": 50, "reasoning": "first pass"}`, nil
		},
	}
	agents := NewAgentService(gemini, 1)

	_, err := agents.ScreenResume(context.Background(), "job", "resume", "")
	require.NoError(t, err)

	require.Len(t, gemini.calls, 1)
	assert.NotContains(t, gemini.calls[0], "CRITICAL INSTRUCTION")
}

func TestCritiqueOutputsRendersNilSlotsAsNull(t *testing.T) {
	gemini := &fakeGemini{
		generateFn: func(string) (string, error) {
			return `{"critique_passed": false, "critic_feedback": "screening is missing", "issues": ["no screening output"]}`, nil
		},
	}
	agents := NewAgentService(gemini, 1)

	critique, err := agents.CritiqueOutputs(context.Background(), "job", nil, nil)
	require.NoError(t, err)
	assert.False(t, critique.CritiquePassed)
	assert.Equal(t, "screening is missing", critique.CriticFeedback)

	require.Len(t, gemini.calls, 1)
	assert.Contains(t, gemini.calls[0], "null")
}

func TestJudgeRelevance(t *testing.T) {
	cases := []struct {
		reply    string
		relevant bool
	}{
		{"YES", true},
		{"yes, this matches.", true},
		{"NO", false},
		{"Not related to the role.", false},
		{"", false},
	}

	for _, tc := range cases {
		gemini := &fakeGemini{
			generateFn: func(string) (string, error) { return tc.reply, nil },
		}
		agents := NewAgentService(gemini, 1)

		relevant, err := agents.JudgeRelevance(context.Background(), "job", "excerpt")
		require.NoError(t, err)
		assert.Equal(t, tc.relevant, relevant, "reply %q", tc.reply)
	}
}

func TestGenerateQuestionsParseFailure(t *testing.T) {
	gemini := &fakeGemini{
		generateFn: func(string) (string, error) {
			return "no structured output", nil
		},
	}
	agents := NewAgentService(gemini, 1)

	questions, err := agents.GenerateQuestions(context.Background(), "job", "resume")
	require.Error(t, err)
	assert.Nil(t, questions)
	assert.True(t, strings.Contains(err.Error(), "interview"))
}

func TestCreateAssessment(t *testing.T) {
	gemini := &fakeGemini{
		generateFn: func(string) (string, error) {
			return `{"tasks": ["build a variant-calling pipeline"], "evaluation_criteria": "correctness and clarity"}`, nil
		},
	}
	agents := NewAgentService(gemini, 1)

	assessment, err := agents.CreateAssessment(context.Background(), "job")
	require.NoError(t, err)
	require.NotNil(t, assessment)
	assert.Len(t, assessment.Tasks, 1)
	assert.Equal(t, "correctness and clarity", assessment.EvaluationCriteria)
}
