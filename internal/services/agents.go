package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"denisetiawan/ai-recruiter/internal/models"
)

// ToolRequest is a planner reply asking for a lookup instead of a
// final plan.
type ToolRequest struct {
	Tool string            `json:"tool"`
	Args map[string]string `json:"args"`
}

// AgentService holds the five evaluation call sites plus the Hop 2
// relevance judgment. Every method returns a typed slot or an error;
// callers decide whether an error is fatal (it almost never is).
type AgentService interface {
	PlannerTurn(ctx context.Context, jobDesc, resumeText, transcript string) (*models.Plan, *ToolRequest, error)
	ScreenResume(ctx context.Context, jobDesc, resumeText, feedback string) (*models.ScreeningResult, error)
	GenerateQuestions(ctx context.Context, jobDesc, resumeText string) (*models.InterviewQuestions, error)
	CreateAssessment(ctx context.Context, jobDesc string) (*models.SkillAssessment, error)
	CritiqueOutputs(ctx context.Context, jobDesc string, screening *models.ScreeningResult, questions *models.InterviewQuestions) (*models.Critique, error)
	JudgeRelevance(ctx context.Context, jobDesc, resumeExcerpt string) (bool, error)
}

type agentService struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
}

func NewAgentService(gemini GeminiService, maxRetries int) AgentService {
	return &agentService{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
	}
}

const agentTemperature = 0.1

// PlannerTurn implements AgentService. One round of the planner's
// ReAct conversation: the reply is either a tool request or the final
// plan.
func (a *agentService) PlannerTurn(ctx context.Context, jobDesc, resumeText, transcript string) (*models.Plan, *ToolRequest, error) {
	prompt := a.promptBuilder.BuildPlannerPrompt(jobDesc, resumeText, transcript)

	response, err := a.gemini.GenerateTextWithRetry(ctx, prompt, agentTemperature, a.maxRetries)
	if err != nil {
		return nil, nil, fmt.Errorf("planner call failed: %w", err)
	}

	jsonStr := extractJSON(response)

	var req ToolRequest
	if err := json.Unmarshal([]byte(jsonStr), &req); err == nil && req.Tool != "" {
		return nil, &req, nil
	}

	var plan models.Plan
	if err := json.Unmarshal([]byte(jsonStr), &plan); err != nil {
		return nil, nil, fmt.Errorf("failed to parse plan: %w", err)
	}

	return &plan, nil, nil
}

// ScreenResume implements AgentService.
func (a *agentService) ScreenResume(ctx context.Context, jobDesc, resumeText, feedback string) (*models.ScreeningResult, error) {
	prompt := a.promptBuilder.BuildScreeningPrompt(jobDesc, resumeText, feedback)

	response, err := a.gemini.GenerateTextWithRetry(ctx, prompt, agentTemperature, a.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("screener call failed: %w", err)
	}

	var result models.ScreeningResult
	if err := parseJSONResponse(response, &result); err != nil {
		return nil, fmt.Errorf("failed to parse screening result: %w", err)
	}

	return &result, nil
}

// GenerateQuestions implements AgentService.
func (a *agentService) GenerateQuestions(ctx context.Context, jobDesc, resumeText string) (*models.InterviewQuestions, error) {
	prompt := a.promptBuilder.BuildInterviewPrompt(jobDesc, resumeText)

	response, err := a.gemini.GenerateTextWithRetry(ctx, prompt, agentTemperature, a.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("interviewer call failed: %w", err)
	}

	var result models.InterviewQuestions
	if err := parseJSONResponse(response, &result); err != nil {
		return nil, fmt.Errorf("failed to parse interview questions: %w", err)
	}

	return &result, nil
}

// CreateAssessment implements AgentService.
func (a *agentService) CreateAssessment(ctx context.Context, jobDesc string) (*models.SkillAssessment, error) {
	prompt := a.promptBuilder.BuildAssessmentPrompt(jobDesc)

	response, err := a.gemini.GenerateTextWithRetry(ctx, prompt, agentTemperature, a.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("assessor call failed: %w", err)
	}

	var result models.SkillAssessment
	if err := parseJSONResponse(response, &result); err != nil {
		return nil, fmt.Errorf("failed to parse skill assessment: %w", err)
	}

	return &result, nil
}

// CritiqueOutputs implements AgentService. Nil screening or questions
// are rendered as "null" so a degraded state can still be critiqued.
func (a *agentService) CritiqueOutputs(ctx context.Context, jobDesc string, screening *models.ScreeningResult, questions *models.InterviewQuestions) (*models.Critique, error) {
	screeningJSON := marshalOrNull(screening)
	questionsJSON := marshalOrNull(questions)

	prompt := a.promptBuilder.BuildCritiquePrompt(jobDesc, screeningJSON, questionsJSON)

	response, err := a.gemini.GenerateTextWithRetry(ctx, prompt, agentTemperature, a.maxRetries)
	if err != nil {
		return nil, fmt.Errorf("critic call failed: %w", err)
	}

	var result models.Critique
	if err := parseJSONResponse(response, &result); err != nil {
		return nil, fmt.Errorf("failed to parse critique: %w", err)
	}

	return &result, nil
}

// JudgeRelevance implements AgentService. Anything other than a clear
// YES counts as NO.
func (a *agentService) JudgeRelevance(ctx context.Context, jobDesc, resumeExcerpt string) (bool, error) {
	prompt := a.promptBuilder.BuildRelevancePrompt(jobDesc, resumeExcerpt)

	response, err := a.gemini.GenerateTextWithRetry(ctx, prompt, 0, a.maxRetries)
	if err != nil {
		return false, fmt.Errorf("relevance call failed: %w", err)
	}

	return strings.Contains(strings.ToUpper(response), "YES"), nil
}

func marshalOrNull(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("⚠️  Failed to marshal agent output: %v\n", err)
		return "null"
	}
	return string(data)
}

func parseJSONResponse(response string, target interface{}) error {
	jsonStr := extractJSON(response)

	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w\nResponse: %s", err, response)
	}

	return nil
}

// extractJSON tries to extract JSON from text that might contain
// markdown fences or surrounding prose.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	if startObj != -1 && endObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	} else if startArr != -1 && endArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return text
}
