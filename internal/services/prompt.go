package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildPlannerPrompt creates the planner prompt. The planner runs in
// ReAct mode: it may answer with a tool request instead of a final
// plan, in which case observations accumulate in the transcript and
// the prompt is re-issued.
func (pb *PromptBuilder) BuildPlannerPrompt(jobDesc, resumeText, transcript string) string {
	var sb strings.Builder

	sb.WriteString(`You are the Architect of an Autonomous AI Hiring System.
Your goal is to plan a text-based evaluation of a candidate.

CONSTRAINTS:
- You CANNOT schedule meetings, calls, or physical interviews.
- You CANNOT check references manually.
- You can ONLY plan for: Semantic Analysis, Gap Identification, Question Generation, and Skill Assessment Design.

TOOLS AVAILABLE:
1. "lookup_salary_range": use this IF the resume mentions salary expectations. Arguments: {"role": "...", "location": "..."}
2. "search_skill_framework": use this IF you need to verify whether a skill is relevant. Arguments: {"skill": "..."}

INSTRUCTIONS:
- To call a tool, reply with ONLY this JSON: {"tool": "<tool name>", "args": {...}}
- Once you have enough information, output the FINAL PLAN in this JSON format:
{"steps": ["step1", "step2"], "logic": "explanation"}

`)
	sb.WriteString(fmt.Sprintf("Job: %s\nResume: %s\n", jobDesc, resumeText))

	if transcript != "" {
		sb.WriteString("\nPREVIOUS TOOL RESULTS:\n")
		sb.WriteString(transcript)
		sb.WriteString("\nUse these results. If you have enough information now, output the FINAL PLAN.\n")
	}

	return sb.String()
}

// BuildScreeningPrompt creates the screener prompt. Critic feedback
// from a rejected pass is injected as a correction instruction.
func (pb *PromptBuilder) BuildScreeningPrompt(jobDesc, resumeText, feedback string) string {
	feedbackContext := ""
	if feedback != "" {
		feedbackContext = fmt.Sprintf("CRITICAL INSTRUCTION: Your previous output was rejected.\nFEEDBACK: %q\nYou must fix this specifically.\n", feedback)
	}

	return fmt.Sprintf(`You are a Technical Screener AI. Compare the resume to the job description.
%s
Job: %s
Resume: %s

Output a match_score (0-100) and strict lists of matching/missing skills.

Return your response in the following JSON format:
{
  "match_score": <0-100>,
  "ranked_candidates": ["<candidate id>"],
  "matching_skills": ["<skill>", ...],
  "missing_skills": ["<skill>", ...],
  "reasoning": "<detailed analysis>"
}`, feedbackContext, jobDesc, resumeText)
}

// BuildInterviewPrompt creates the interviewer prompt.
func (pb *PromptBuilder) BuildInterviewPrompt(jobDesc, resumeText string) string {
	return fmt.Sprintf(`You are a Technical Interviewer AI.
Generate 5-7 technical interview questions to probe the candidate's missing skills.
Do not ask generic HR questions like "Tell me about yourself".

Job: %s
Resume: %s

Return your response in the following JSON format:
{
  "questions": ["<question>", ...],
  "difficulty": "<Junior/Mid/Senior>"
}`, jobDesc, resumeText)
}

// BuildAssessmentPrompt creates the assessor prompt. The assessment is
// candidate-independent: it only sees the job description.
func (pb *PromptBuilder) BuildAssessmentPrompt(jobDesc string) string {
	return fmt.Sprintf(`You are a Technical Lead AI.
Design a short, practical coding task or system design scenario for this role.

Job: %s

Return your response in the following JSON format:
{
  "tasks": ["<task>", ...],
  "evaluation_criteria": "<what to check in the solution>"
}`, jobDesc)
}

// BuildCritiquePrompt creates the critic prompt over the screening and
// interview outputs.
func (pb *PromptBuilder) BuildCritiquePrompt(jobDesc, screeningJSON, questionsJSON string) string {
	return fmt.Sprintf(`You are a Quality Assurance Validator (Pragmatic Critic).

Your job is to prevent hallucinations or broken logic.

Job: %s
Screening Output: %s
Proposed Questions: %s

CRITERIA:
1. The match_score seems reasonable.
2. Questions are technical and relevant.
3. No factual hallucinations.

IMPORTANT: Do NOT reject for minor stylistic preferences. Only reject for factual errors.

Return your response in the following JSON format:
{
  "critique_passed": <true/false>,
  "critic_feedback": "<feedback for refinement>",
  "issues": ["<issue>", ...]
}`, jobDesc, screeningJSON, questionsJSON)
}

// BuildRelevancePrompt creates the Hop 2 binary relevance judgment.
func (pb *PromptBuilder) BuildRelevancePrompt(jobDesc, resumeExcerpt string) string {
	return fmt.Sprintf(`You are a strict recruiter.
Job: %s
Resume Excerpt: %s

Is this candidate relevant? Return ONLY "YES" or "NO".`, jobDesc, resumeExcerpt)
}

// BuildGapVerificationQuery creates the Hop 3 targeted re-query for
// one claimed-missing skill.
func (pb *PromptBuilder) BuildGapVerificationQuery(skill string) string {
	return fmt.Sprintf("%s experience usage context", skill)
}
