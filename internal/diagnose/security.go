package diagnose

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gopatchy/springcfg/internal/document"
	"github.com/spf13/cast"
)

type secretPattern struct {
	name     string
	pattern  *regexp.Regexp
	severity Severity
	generic  bool // only flag when the property name looks sensitive
}

var secretPatterns = []secretPattern{
	{
		name:     "AWS Access Key",
		pattern:  regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
		severity: SeverityCritical,
	},
	{
		name:     "AWS Secret Key",
		pattern:  regexp.MustCompile(`(?i)aws[_-]?secret[_-]?(?:access[_-]?)?key`),
		severity: SeverityCritical,
	},
	{
		name:     "Generic API Key",
		pattern:  regexp.MustCompile(`(?i)(api[_-]?key|apikey)`),
		severity: SeverityHigh,
		generic:  true,
	},
	{
		name:     "Generic Secret",
		pattern:  regexp.MustCompile(`(?i)(secret|password|passwd|pwd)`),
		severity: SeverityHigh,
		generic:  true,
	},
	{
		name:     "Private Key",
		pattern:  regexp.MustCompile(`-----BEGIN (?:RSA|DSA|EC|OPENSSH) PRIVATE KEY-----`),
		severity: SeverityCritical,
	},
	{
		name:     "JWT Token",
		pattern:  regexp.MustCompile(`eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*`),
		severity: SeverityHigh,
	},
	{
		name:     "Database Connection String",
		pattern:  regexp.MustCompile(`(?i)(jdbc|mongodb|postgresql|mysql)://[^:]+:[^@]+@`),
		severity: SeverityHigh,
	},
}

// suspiciousKeywords are property name fragments that usually hold
// credentials.
var suspiciousKeywords = []string{
	"password",
	"secret",
	"token",
	"api-key",
	"apikey",
	"api_key",
	"private-key",
	"privatekey",
	"access-key",
	"accesskey",
	"auth-token",
	"credentials",
	"oauth",
}

type insecureRule struct {
	property       string
	pattern        *regexp.Regexp
	value          any
	message        string
	severity       Severity
	recommendation string
}

var insecureRules = []insecureRule{
	{
		property:       "spring.security.user.password",
		pattern:        regexp.MustCompile(`(?i)^(admin|password|123456|root|test)$`),
		message:        "Weak or default password detected",
		severity:       SeverityCritical,
		recommendation: "Use a strong password or preferably use environment variables",
	},
	{
		property:       "security.basic.enabled",
		value:          false,
		message:        "Basic security is disabled",
		severity:       SeverityHigh,
		recommendation: "Enable security for production environments",
	},
	{
		property:       "management.security.enabled",
		value:          false,
		message:        "Management endpoint security is disabled",
		severity:       SeverityHigh,
		recommendation: "Enable security for management endpoints",
	},
	{
		property:       "spring.h2.console.enabled",
		value:          true,
		message:        "H2 console is enabled - database exposed via web interface",
		severity:       SeverityHigh,
		recommendation: "Disable in production or restrict access with security rules",
	},
	{
		property:       "spring.jpa.show-sql",
		value:          true,
		message:        "SQL queries are being logged - may expose sensitive data",
		severity:       SeverityMedium,
		recommendation: "Disable in production to prevent data leakage",
	},
	{
		property:       "logging.level.root",
		value:          "DEBUG",
		message:        "Root logging level set to DEBUG - may log sensitive information",
		severity:       SeverityMedium,
		recommendation: "Use INFO or WARN in production",
	},
	{
		property:       "logging.level.org.springframework.security",
		value:          "DEBUG",
		message:        "Security logging at DEBUG level - may expose authentication details",
		severity:       SeverityMedium,
		recommendation: "Use INFO or WARN in production",
	},
	{
		property:       "server.ssl.enabled",
		value:          false,
		message:        "SSL/TLS is disabled",
		severity:       SeverityHigh,
		recommendation: "Enable SSL for production environments",
	},
	{
		property:       "spring.devtools.restart.enabled",
		value:          true,
		message:        "DevTools restart is enabled - should not be used in production",
		severity:       SeverityMedium,
		recommendation: "Ensure DevTools is excluded from production builds",
	},
}

// SecurityScan finds hardcoded secrets and insecure settings in a
// merged configuration. Values that are still ${...} placeholders are
// skipped: they defer to the environment, which is the recommended fix.
func SecurityScan(config *document.Mapping) []Issue {
	issues := scanSecrets(config)
	issues = append(issues, scanInsecure(config)...)

	return dedupe(issues)
}

func scanSecrets(config *document.Mapping) []Issue {
	issues := []Issue{}

	document.WalkLeaves(config, "", func(path string, value any) {
		if value == nil || containsPlaceholder(value) {
			return
		}

		valueStr := cast.ToString(value)
		pathLower := strings.ToLower(path)

		for _, sp := range secretPatterns {
			if !sp.pattern.MatchString(valueStr) {
				continue
			}

			if sp.generic && !hasSuspiciousKeyword(pathLower) {
				continue
			}

			issues = append(issues, Issue{
				Severity:   sp.severity,
				Path:       path,
				Type:       "hardcoded_secret",
				Message:    fmt.Sprintf("Possible hardcoded %s detected", sp.name),
				Suggestion: "Use environment variables or a secrets management system",
			})
			break
		}

		for _, keyword := range suspiciousKeywords {
			if !strings.Contains(pathLower, keyword) {
				continue
			}

			if _, isBool := value.(bool); isBool {
				return
			}

			switch valueStr {
			case "", "none", "null", "false", "true":
				return
			}

			issues = append(issues, Issue{
				Severity:   SeverityHigh,
				Path:       path,
				Type:       "hardcoded_sensitive_value",
				Message:    fmt.Sprintf("Property contains '%s' with hardcoded value", keyword),
				Suggestion: "Consider using environment variables: ${ENV_VAR_NAME}",
			})
			break
		}
	})

	return issues
}

func scanInsecure(config *document.Mapping) []Issue {
	issues := []Issue{}

	for _, rule := range insecureRules {
		v, found := document.Get(config, rule.property)
		if !found || v == nil {
			continue
		}

		insecure := false

		switch {
		case rule.pattern != nil:
			s, ok := v.(string)
			insecure = ok && rule.pattern.MatchString(s)

		default:
			insecure = v == rule.value
		}

		if insecure {
			issues = append(issues, Issue{
				Severity:   rule.severity,
				Path:       rule.property,
				Type:       "insecure_configuration",
				Message:    rule.message,
				Suggestion: rule.recommendation,
			})
		}
	}

	return issues
}

func containsPlaceholder(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}

	return strings.Contains(s, "${") && strings.Contains(s, "}")
}

func hasSuspiciousKeyword(pathLower string) bool {
	for _, keyword := range suspiciousKeywords {
		if strings.Contains(pathLower, keyword) {
			return true
		}
	}

	return false
}
