package prompt

import "fmt"

// GetSystemPrompt provides strict directions and schema for JSON output.
func GetSystemPrompt() string {
	return `You are an expert code reviewer. You must produce one valid JSON object only (no markdown, no commentary) that follows the schema below. Do not include code fences.

Requirements:
- Output must be a single JSON object with exactly three keys: "explanation", "suggestions", "bugs".
- "explanation": a clear, concise explanation of what the code does.
- "suggestions": an array of actionable suggestions to improve the code's quality, performance, or readability. Use an empty array when there are none.
- "bugs": an array of potential bugs or logical errors. Use an empty array when none are found.

Schema (example with empty values):
{
  "explanation": "<string>",
  "suggestions": ["<string>"],
  "bugs": ["<string>"]
}`
}

// GetUserPrompt embeds the snippet and its language into a compact user message.
func GetUserPrompt(code, language string) string {
	return fmt.Sprintf("As an expert %s reviewer, analyze the following code and respond with the JSON per schema.\n\nCode to analyze:\n```%s\n%s\n```", language, language, code)
}
