package ollama

import "fmt"

// Prompt templates kept deliberately rigid: the instructions pin the output
// to a JSON array so ParseIssues has something to work with.

const qualityTemplate = `You are an expert code reviewer. Analyze the following %s code for quality issues.

File: %s
Code:
%s

Look for:
1. Code quality issues (complexity, readability, maintainability)
2. Best practices violations
3. Performance concerns

Respond ONLY with a JSON array of issues. Each issue is an object with keys:
"line" (integer, 0 if unknown), "severity" (one of "high", "medium", "low"),
"message" (short description), "suggestion" (how to fix it).
Respond with [] if the code has no notable issues.`

const securityTemplate = `You are a security expert. Analyze the following %s code for security vulnerabilities.

File: %s
Code:
%s

Look for:
1. Hardcoded secrets or credentials
2. SQL injection vulnerabilities
3. XSS vulnerabilities
4. Input validation issues
5. Authentication/authorization problems
6. Insecure cryptographic practices

Respond ONLY with a JSON array of issues. Each issue is an object with keys:
"line" (integer, 0 if unknown), "severity" (one of "critical", "high", "medium", "low"),
"message" (short description), "suggestion" (how to fix it).
Respond with [] if the code has no vulnerabilities.`

// QualityPrompt builds the general review prompt for one file.
func QualityPrompt(language, path, code string) string {
	return fmt.Sprintf(qualityTemplate, language, path, code)
}

// SecurityPrompt builds the vulnerability review prompt for one file.
func SecurityPrompt(language, path, code string) string {
	return fmt.Sprintf(securityTemplate, language, path, code)
}
