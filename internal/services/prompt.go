package services

import (
	"fmt"
)

const SystemPrompt = "You are a helpful ATS resume analyzer."

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildAnalysisPrompt embeds both texts verbatim. The reply is expected to
// mention a "Match score", which ParseScore relies on.
func (pb *PromptBuilder) BuildAnalysisPrompt(resumeText, jobDescription string) string {
	return fmt.Sprintf(`Compare this resume with the job description.

Return:
1. Match score (0–100)
2. Strengths
3. Missing skills
4. Suggestions.

Resume:
%s

Job Description:
%s`,
		resumeText, jobDescription)
}
