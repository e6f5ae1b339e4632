package llm

import "strings"

// systemPrompt constrains the model to a single JSON object matching the
// job-fields schema.
func systemPrompt() string {
	parts := []string{
		"You are an expert recruitment assistant that reads a job description and returns its structured fields.",
		"Return ONLY a single JSON object that matches the JSON Schema provided.",
		"Extract only what the text states; do not invent requirements or seniority.",
		"List fields (responsibilities, skills) contain short plain strings without bullet markers or numbering.",
		"If a field is not present in the text, omit it. Never output null.",
		"Do not include explanations, markdown, or text before or after the JSON.",
	}
	return strings.Join(parts, " ")
}

func userPrompt(text, filenameHint string) string {
	var b strings.Builder
	if filenameHint != "" {
		b.WriteString("Filename: ")
		b.WriteString(filenameHint)
		b.WriteString("\n\n")
	}
	b.WriteString("Job description text:\n")
	b.WriteString(text)
	return b.String()
}
