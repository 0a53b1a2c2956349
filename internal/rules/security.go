package rules

import (
	"regexp"

	"github.com/ppiankov/revizor/internal/review"
)

// securityRules detect dangerous constructs and credentials embedded in
// source. Patterns target the credential shape, not just the variable name,
// to keep false positives down.
func securityRules() []*Rule {
	return []*Rule{
		// hardcoded credentials
		{
			ID: "sec-hardcoded-password", Category: review.CategorySecurity, Severity: review.SeverityHigh,
			Pattern:    regexp.MustCompile(`(?i)(password|passwd|pwd)\s*[=:]\s*["'][^"']{4,}["']`),
			Message:    "hardcoded password or credentials",
			Suggestion: "load secrets from the environment or a vault",
			CWE:        "CWE-798",
		},
		{
			ID: "sec-hardcoded-api-key", Category: review.CategorySecurity, Severity: review.SeverityHigh,
			Pattern: regexp.MustCompile(`(?i)(api[_-]?key|secret[_-]?key|access[_-]?token)\s*[=:]\s*["']?[a-zA-Z0-9_\-]{16,}["']?`),
			Message: "hardcoded API key or token",
			CWE:     "CWE-798",
		},
		{
			ID: "sec-db-credentials-url", Category: review.CategorySecurity, Severity: review.SeverityHigh,
			Pattern: regexp.MustCompile(`(?i)(mongodb|mysql|postgres(ql)?)://[^:\s]+:[^@\s]+@`),
			Message: "database credentials in connection string",
			CWE:     "CWE-798",
		},

		// injection
		{
			ID: "sec-sql-concat", Category: review.CategorySecurity, Severity: review.SeverityHigh,
			Pattern:    regexp.MustCompile(`(?i)(select|insert|update|delete)\s+[^;]*["']\s*\+`),
			Message:    "SQL built with string concatenation",
			Suggestion: "use parameterized queries",
			CWE:        "CWE-89",
		},
		{
			ID: "sec-sql-format", Category: review.CategorySecurity, Severity: review.SeverityHigh,
			Pattern: regexp.MustCompile(`(?i)execute\s*\(\s*["'][^"']*%s`),
			Message: "SQL built with string formatting",
			CWE:     "CWE-89",
		},
		{
			ID: "sec-eval", Category: review.CategorySecurity, Severity: review.SeverityHigh,
			Pattern: regexp.MustCompile(`\beval\s*\(`),
			Message: "eval on dynamic content",
			CWE:     "CWE-95",
		},

		// xss
		{
			ID: "sec-innerhtml-concat", Language: LangJavaScript, Category: review.CategorySecurity, Severity: review.SeverityMedium,
			Pattern:    regexp.MustCompile(`(?i)innerHTML\s*=\s*[^;]*\+`),
			Message:    "dynamic innerHTML assignment",
			Suggestion: "use textContent or sanitize the input",
			CWE:        "CWE-79",
		},
		{
			ID: "sec-document-write", Language: LangJavaScript, Category: review.CategorySecurity, Severity: review.SeverityMedium,
			Pattern: regexp.MustCompile(`(?i)document\.write\s*\([^)]*\+`),
			Message: "document.write with dynamic content",
			CWE:     "CWE-79",
		},

		// weak crypto
		{
			ID: "sec-weak-hash", Category: review.CategorySecurity, Severity: review.SeverityMedium,
			Pattern:    regexp.MustCompile(`(?i)\b(md5|sha1)\s*\(`),
			Message:    "weak hash algorithm",
			Suggestion: "use SHA-256 or better",
			CWE:        "CWE-327",
		},
		{
			ID: "sec-des", Category: review.CategorySecurity, Severity: review.SeverityHigh,
			Pattern: regexp.MustCompile(`(?i)\bdes\.(New|Encrypt)|Cipher\.getInstance\(["']DES`),
			Message: "DES is cryptographically broken",
			CWE:     "CWE-327",
		},

		// transport
		{
			ID: "sec-insecure-http", Category: review.CategorySecurity, Severity: review.SeverityMedium,
			Pattern: regexp.MustCompile(`["']http://[^"'\s]+["']`),
			Message: "insecure HTTP URL",
			CWE:     "CWE-319",
		},

		// language-specific dangerous functions
		{
			ID: "sec-py-exec", Language: LangPython, Category: review.CategorySecurity, Severity: review.SeverityHigh,
			Pattern: regexp.MustCompile(`\bexec\s*\(`),
			Message: "exec on dynamic content",
			CWE:     "CWE-95",
		},
		{
			ID: "sec-py-pickle", Language: LangPython, Category: review.CategorySecurity, Severity: review.SeverityHigh,
			Pattern: regexp.MustCompile(`\bpickle\.loads?\s*\(`),
			Message: "pickle deserialization of untrusted data",
			CWE:     "CWE-502",
		},
		{
			ID: "sec-py-yaml-load", Language: LangPython, Category: review.CategorySecurity, Severity: review.SeverityMedium,
			Pattern:    regexp.MustCompile(`\byaml\.load\s*\(`),
			Message:    "yaml.load without a safe loader",
			Suggestion: "use yaml.safe_load",
			CWE:        "CWE-502",
		},
		{
			ID: "sec-js-function-ctor", Language: LangJavaScript, Category: review.CategorySecurity, Severity: review.SeverityHigh,
			Pattern: regexp.MustCompile(`\bnew\s+Function\s*\(`),
			Message: "Function constructor builds code from strings",
			CWE:     "CWE-95",
		},
		{
			ID: "sec-java-runtime-exec", Language: LangJava, Category: review.CategorySecurity, Severity: review.SeverityHigh,
			Pattern: regexp.MustCompile(`Runtime\.getRuntime\(\)\.exec\s*\(`),
			Message: "command execution via Runtime.exec",
			CWE:     "CWE-78",
		},
		{
			ID: "sec-go-mathrand-token", Language: LangGo, Category: review.CategorySecurity, Severity: review.SeverityMedium,
			Pattern:    regexp.MustCompile(`\bmath/rand\b|\brand\.(Int|Read)\w*\(`),
			Message:    "math/rand used where crypto randomness may be required",
			Suggestion: "use crypto/rand for secrets",
			CWE:        "CWE-330",
		},
	}
}

// secretRules match known provider token formats. These detect the
// credential value itself, not the variable name.
func secretRules() []*Rule {
	return []*Rule{
		{
			ID: "secret-aws-access-key", Category: review.CategorySecurity, Severity: review.SeverityCritical,
			Pattern: regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`),
			Message: "AWS access key ID",
			CWE:     "CWE-798",
		},
		{
			ID: "secret-github-token", Category: review.CategorySecurity, Severity: review.SeverityCritical,
			Pattern: regexp.MustCompile(`\b(ghp|gho)_[0-9a-zA-Z]{36,}\b`),
			Message: "GitHub token",
			CWE:     "CWE-798",
		},
		{
			ID: "secret-github-pat", Category: review.CategorySecurity, Severity: review.SeverityCritical,
			Pattern: regexp.MustCompile(`\bgithub_pat_[0-9a-zA-Z_]{22,}\b`),
			Message: "GitHub fine-grained token",
			CWE:     "CWE-798",
		},
		{
			ID: "secret-google-api-key", Category: review.CategorySecurity, Severity: review.SeverityCritical,
			Pattern: regexp.MustCompile(`\bAIza[0-9A-Za-z_\-]{35}\b`),
			Message: "Google API key",
			CWE:     "CWE-798",
		},
		{
			ID: "secret-slack-token", Category: review.CategorySecurity, Severity: review.SeverityCritical,
			Pattern: regexp.MustCompile(`\bxox[bp]-[0-9]{10,13}-[0-9]{10,13}-[0-9a-zA-Z]{24,}\b`),
			Message: "Slack token",
			CWE:     "CWE-798",
		},
		{
			ID: "secret-openai-key", Category: review.CategorySecurity, Severity: review.SeverityCritical,
			Pattern: regexp.MustCompile(`\bsk-[a-zA-Z0-9\-]{20,}\b`),
			Message: "OpenAI-style API key",
			CWE:     "CWE-798",
		},
		{
			ID: "secret-jwt", Category: review.CategorySecurity, Severity: review.SeverityMedium,
			Pattern: regexp.MustCompile(`\beyJ[a-zA-Z0-9_\-]{8,}\.eyJ[a-zA-Z0-9_\-]{8,}\.[a-zA-Z0-9_\-]+`),
			Message: "JWT embedded in source",
			CWE:     "CWE-798",
		},
		{
			ID: "secret-private-key-header", Category: review.CategorySecurity, Severity: review.SeverityCritical,
			Pattern: regexp.MustCompile(`-----BEGIN (RSA |EC |OPENSSH )?PRIVATE KEY-----`),
			Message: "private key material",
			CWE:     "CWE-798",
		},
	}
}
