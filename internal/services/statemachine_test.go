package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"denisetiawan/ai-recruiter/internal/models"
)

func newTestState() *models.EvaluationState {
	return &models.EvaluationState{
		JobDescription: "Bioinformatics Scientist, requires Python and NGS experience.",
		CandidateID:    "Jane Doe",
		CandidateEmail: "jane@example.com",
		Source:         "jane_doe.pdf",
		ResumeText:     "Experienced in Python and R. Worked on RNA-seq analysis.",
	}
}

func TestStateMachineHappyPath(t *testing.T) {
	agents := passingAgents()
	sm := NewStateMachine(agents, NewToolRegistry())

	state := newTestState()
	sm.Run(context.Background(), state)

	require.NotNil(t, state.Plan)
	require.NotNil(t, state.Screening)
	require.NotNil(t, state.Questions)
	require.NotNil(t, state.Assessment)
	require.NotNil(t, state.Critique)

	assert.Equal(t, 1, state.IterationCount)
	assert.True(t, state.Critique.CritiquePassed)
	assert.Equal(t, 1, agents.screenCalls)
}

func TestStateMachineRefineLoopThreadsFeedback(t *testing.T) {
	agents := passingAgents()
	agents.critiqueFn = func(call int) (*models.Critique, error) {
		if call < 3 {
			return &models.Critique{
				CritiquePassed: false,
				CriticFeedback: fmt.Sprintf("fix attempt %d", call),
			}, nil
		}
		return &models.Critique{CritiquePassed: true}, nil
	}
	sm := NewStateMachine(agents, NewToolRegistry())

	state := newTestState()
	sm.Run(context.Background(), state)

	assert.Equal(t, 3, state.IterationCount)
	assert.Equal(t, 3, agents.screenCalls)

	// First screen runs without feedback; re-screens consume the
	// critic's latest feedback.
	require.Len(t, agents.feedbackSeen, 3)
	assert.Equal(t, "", agents.feedbackSeen[0])
	assert.Equal(t, "fix attempt 1", agents.feedbackSeen[1])
	assert.Equal(t, "fix attempt 2", agents.feedbackSeen[2])
}

func TestStateMachineRetryBound(t *testing.T) {
	agents := passingAgents()
	agents.critiqueFn = func(int) (*models.Critique, error) {
		return &models.Critique{CritiquePassed: false, CriticFeedback: "never good enough"}, nil
	}
	sm := NewStateMachine(agents, NewToolRegistry())

	state := newTestState()
	sm.Run(context.Background(), state)

	// The refine loop force-finishes; the counter never exceeds the
	// cap and the machine always terminates.
	assert.Equal(t, maxScreeningAttempts, state.IterationCount)
	assert.LessOrEqual(t, state.IterationCount, 4)
}

func TestStateMachineNoRescreenAfterPass(t *testing.T) {
	agents := passingAgents()
	sm := NewStateMachine(agents, NewToolRegistry())

	state := newTestState()
	sm.Run(context.Background(), state)

	assert.True(t, state.Critique.CritiquePassed)
	assert.Equal(t, 1, agents.screenCalls)
	assert.Equal(t, 1, agents.critiqueCalls)
}

func TestStateMachineCriticFailOpen(t *testing.T) {
	agents := passingAgents()
	agents.critiqueFn = nil // critic outage
	sm := NewStateMachine(agents, NewToolRegistry())

	state := newTestState()
	sm.Run(context.Background(), state)

	require.NotNil(t, state.Critique)
	assert.True(t, state.Critique.CritiquePassed)
	assert.Equal(t, 1, state.IterationCount)
}

func TestStateMachineDegradedSlotsDoNotBlock(t *testing.T) {
	agents := passingAgents()
	agents.screenFn = nil    // screener outage
	agents.questionsFn = nil // interviewer outage
	sm := NewStateMachine(agents, NewToolRegistry())

	state := newTestState()
	sm.Run(context.Background(), state)

	assert.Nil(t, state.Screening)
	assert.Nil(t, state.Questions)
	require.NotNil(t, state.Assessment)
	require.NotNil(t, state.Critique)
	assert.Equal(t, 1, state.IterationCount)
}

func TestPlannerToolSubLoop(t *testing.T) {
	agents := passingAgents()
	agents.plannerFn = func(transcript string) (*models.Plan, *ToolRequest, error) {
		if transcript == "" {
			return nil, &ToolRequest{
				Tool: ToolSalaryLookup,
				Args: map[string]string{"role": "Bioinformatics Scientist", "location": "Boston"},
			}, nil
		}
		// The observation from the first round must be visible now.
		assert.Contains(t, transcript, ToolSalaryLookup)
		assert.Contains(t, transcript, "100k-140k")
		return &models.Plan{Steps: []string{"Screening"}, Logic: "salary checked"}, nil, nil
	}
	sm := NewStateMachine(agents, NewToolRegistry())

	state := newTestState()
	sm.Run(context.Background(), state)

	require.NotNil(t, state.Plan)
	assert.Equal(t, "salary checked", state.Plan.Logic)
	assert.Equal(t, 2, agents.plannerCalls)
}

func TestPlannerToolSubLoopBounded(t *testing.T) {
	agents := passingAgents()
	agents.plannerFn = func(string) (*models.Plan, *ToolRequest, error) {
		return nil, &ToolRequest{Tool: ToolSkillFramework, Args: map[string]string{"skill": "NGS"}}, nil
	}
	sm := NewStateMachine(agents, NewToolRegistry())

	state := newTestState()
	sm.Run(context.Background(), state)

	assert.Equal(t, maxPlannerRounds, agents.plannerCalls)
	assert.Nil(t, state.Plan)
	// The rest of the pipeline still ran.
	require.NotNil(t, state.Screening)
}

func TestStateMachinePlannerFailureProceeds(t *testing.T) {
	agents := passingAgents()
	agents.plannerFn = nil
	sm := NewStateMachine(agents, NewToolRegistry())

	state := newTestState()
	sm.Run(context.Background(), state)

	assert.Nil(t, state.Plan)
	require.NotNil(t, state.Screening)
	assert.Equal(t, 1, state.IterationCount)
}
