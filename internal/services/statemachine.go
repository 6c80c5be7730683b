package services

import (
	"context"
	"fmt"
	"log"

	"denisetiawan/ai-recruiter/internal/models"
)

// EvaluationStage is one node in the per-candidate evaluation graph.
type EvaluationStage string

const (
	StagePlan      EvaluationStage = "plan"
	StageScreen    EvaluationStage = "screen"
	StageInterview EvaluationStage = "interview"
	StageAssess    EvaluationStage = "assess"
	StageCritique  EvaluationStage = "critique"
	StageEnd       EvaluationStage = "end"
)

const (
	// The critique->screen back-edge stops refining once this many
	// screening attempts have run. Termination is guaranteed by the
	// counter, not by the critic's goodwill.
	maxScreeningAttempts = 3

	// The planner's tool sub-loop has no natural bound, so we impose
	// one.
	maxPlannerRounds = 5
)

// StateMachine walks one candidate through plan -> screen -> interview
// -> assess -> critique, with critique conditionally routing back to
// screen. Every run terminates: a failed agent call leaves its slot
// nil and the machine moves on, and the refine loop is bounded by
// IterationCount.
type StateMachine struct {
	agents AgentService
	tools  *ToolRegistry
}

func NewStateMachine(agents AgentService, tools *ToolRegistry) *StateMachine {
	return &StateMachine{
		agents: agents,
		tools:  tools,
	}
}

// Run mutates state in place until the terminal stage is reached.
func (m *StateMachine) Run(ctx context.Context, state *models.EvaluationState) {
	stage := StagePlan

	for stage != StageEnd {
		switch stage {
		case StagePlan:
			m.planNode(ctx, state)
			stage = StageScreen
		case StageScreen:
			m.screenNode(ctx, state)
			stage = StageInterview
		case StageInterview:
			m.interviewNode(ctx, state)
			stage = StageAssess
		case StageAssess:
			m.assessNode(ctx, state)
			stage = StageCritique
		case StageCritique:
			m.criticNode(ctx, state)
			stage = m.routeCritique(state)
		}
	}
}

// planNode runs the planner, executing requested lookups in a bounded
// ReAct sub-loop until a final plan appears or the round cap is hit.
func (m *StateMachine) planNode(ctx context.Context, state *models.EvaluationState) {
	log.Println("🔹 NODE: Planner")

	transcript := ""
	for round := 1; round <= maxPlannerRounds; round++ {
		plan, toolReq, err := m.agents.PlannerTurn(ctx, state.JobDescription, state.ResumeText, transcript)
		if err != nil {
			log.Printf("⚠️  Planner failed: %v\n", err)
			return
		}

		if toolReq == nil {
			state.Plan = plan
			return
		}

		observation, err := m.tools.Execute(toolReq.Tool, toolReq.Args)
		if err != nil {
			observation = fmt.Sprintf("error: %v", err)
		}
		transcript += fmt.Sprintf("- %s(%v) => %s\n", toolReq.Tool, toolReq.Args, observation)
	}

	log.Printf("⚠️  Planner exhausted %d tool rounds without a final plan\n", maxPlannerRounds)
}

// screenNode counts the attempt and consumes any critic feedback from
// the previous pass. The screening slot is overwritten on every visit.
func (m *StateMachine) screenNode(ctx context.Context, state *models.EvaluationState) {
	state.IterationCount++
	log.Printf("🔹 NODE: Screener (Attempt %d)\n", state.IterationCount)

	result, err := m.agents.ScreenResume(ctx, state.JobDescription, state.ResumeText, state.Feedback)
	if err != nil {
		log.Printf("⚠️  Screener failed: %v\n", err)
		state.Screening = nil
		return
	}
	state.Screening = result
}

func (m *StateMachine) interviewNode(ctx context.Context, state *models.EvaluationState) {
	log.Println("🔹 NODE: Interviewer")

	questions, err := m.agents.GenerateQuestions(ctx, state.JobDescription, state.ResumeText)
	if err != nil {
		log.Printf("⚠️  Interviewer failed: %v\n", err)
		state.Questions = nil
		return
	}
	state.Questions = questions
}

func (m *StateMachine) assessNode(ctx context.Context, state *models.EvaluationState) {
	log.Println("🔹 NODE: Assessor")

	assessment, err := m.agents.CreateAssessment(ctx, state.JobDescription)
	if err != nil {
		log.Printf("⚠️  Assessor failed: %v\n", err)
		state.Assessment = nil
		return
	}
	state.Assessment = assessment
}

// criticNode validates the screening and question outputs. A critic
// outage is fail-open: treated as passed so a candidate cannot wedge
// in the refine loop behind a dead critic.
func (m *StateMachine) criticNode(ctx context.Context, state *models.EvaluationState) {
	log.Println("🔹 NODE: Critic")

	critique, err := m.agents.CritiqueOutputs(ctx, state.JobDescription, state.Screening, state.Questions)
	if err != nil {
		log.Printf("⚠️  Critic failed, treating as passed: %v\n", err)
		state.Critique = &models.Critique{
			CritiquePassed: true,
			CriticFeedback: "",
		}
		return
	}

	state.Critique = critique
	state.Feedback = critique.CriticFeedback
}

func (m *StateMachine) routeCritique(state *models.EvaluationState) EvaluationStage {
	if state.Critique == nil || state.Critique.CritiquePassed {
		return StageEnd
	}
	if state.IterationCount >= maxScreeningAttempts {
		log.Println("⚠️  Max retries reached. Force finishing.")
		return StageEnd
	}
	return StageScreen
}
