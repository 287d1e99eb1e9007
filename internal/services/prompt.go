package services

import (
	"fmt"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildATSScoringPrompt creates the prompt for scoring one resume against a
// job description. The model is asked for raw JSON only.
func (pb *PromptBuilder) BuildATSScoringPrompt(resumeText, jobDescription, experienceRequirement string) string {
	expSection := ""
	if experienceRequirement != "" && experienceRequirement != "0" {
		expSection = fmt.Sprintf("**Overall Experience Requirement:**\n---\n%s years\n---\n\n", experienceRequirement)
	}

	return fmt.Sprintf(`Analyze the provided resume against all the job requirements below. Return a JSON object. Do not include any text or markdown formatting outside the JSON object.

%s**Detailed Job Description:**
---
%s
---

**Resume Text:**
---
%s
---

**Task:**
Based on ALL the information above, evaluate the resume and calculate an ATS score that reflects how well the candidate matches the job description.

**Scoring Guidelines:**
- **Experience (30%%)**: If the candidate's total relevant experience is below the required experience, reduce the score proportionally. Experience equal to or greater than required should not be penalized.
- **Skills Match (30%%)**: Compare the candidate's skills with the skills required in the job description. Give higher weight to skills mentioned explicitly in both resume and JD.
- **Projects Related to JD Skills (20%%)**: Check if the resume lists any projects that directly use or demonstrate the required skills. Award higher points if multiple projects are relevant or recent.
- **Certifications Related to JD Skills (10%%)**: Give higher weight if the candidate has completed certifications directly related to the job skills.
- **Education & Other Factors (10%%)**: Consider relevance of educational background or degree to the job field.

**Scoring Rule:**
- Final ATS score = weighted combination of all the above criteria.
- The score should be between 0 and 100 (float).
- The summary should clearly mention strong or weak areas.

**Response Format:**
{
  "candidate_name": "Extract the candidate's full name from the resume text.",
  "email": "Extract the candidate's primary email address.",
  "phone_number": "Extract the candidate's primary phone number.",
  "overall_ats_score": "Calculate a final ATS score from 0-100 based on the above criteria.",
  "summary_reason": "Provide a concise 2-3 sentence summary explaining WHY the candidate is a good or poor fit, referencing experience, skills, projects, and certifications.",
  "matched_skills": ["List up to 10 of the most relevant skills from the resume that match the job description."],
  "relevant_projects": ["List up to 5 projects that are directly related to the required JD skills."],
  "relevant_certifications": ["List any professional certifications found in the resume. If none, return an empty list []."],
  "education_summary": "Briefly summarize the candidate's highest and most relevant education.",
  "years_of_experience": "Estimate the total years of relevant work experience as a float or integer."
}

Return ONLY the raw JSON object.`,
		expSection, jobDescription, resumeText)
}
