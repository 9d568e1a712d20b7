package diagnose

import (
	"fmt"
	"strings"

	"github.com/gopatchy/springcfg/internal/document"
	"github.com/spf13/cast"
)

// commonTypos maps frequently misspelled or deprecated property paths
// to their correct or replacement forms.
var commonTypos = map[string]string{
	"server.prot":                        "server.port",
	"server.context-path":                "server.servlet.context-path",
	"spring.datasource.driver-class":     "spring.datasource.driver-class-name",
	"spring.jpa.show-sql":                "spring.jpa.properties.hibernate.show_sql",
	"logging.level":                      "logging.level.*",
	"management.security.enabled":        "spring.security.user.name (property removed in Spring Boot 2.x)",
}

type exclusiveRule struct {
	properties []string
	message    string
	severity   Severity
}

var exclusiveRules = []exclusiveRule{
	{
		properties: []string{"spring.datasource.url", "spring.datasource.jndi-name"},
		message:    "Cannot specify both datasource URL and JNDI name",
		severity:   SeverityError,
	},
	{
		properties: []string{"spring.jpa.database", "spring.jpa.database-platform"},
		message:    "Specifying both 'database' and 'database-platform' may cause conflicts",
		severity:   SeverityWarning,
	},
}

type comboRule struct {
	condition  func(config *document.Mapping) bool
	message    string
	severity   Severity
	suggestion string
}

var comboRules = []comboRule{
	{
		condition: func(config *document.Mapping) bool {
			ddl := stringAt(config, "spring.jpa.hibernate.ddl-auto")
			return (ddl == "create" || ddl == "create-drop") && productionActive(config)
		},
		message:    "DDL auto-create/drop is enabled with production profile - this will destroy your database!",
		severity:   SeverityError,
		suggestion: "Use 'validate' or 'none' for production environments",
	},
	{
		condition: func(config *document.Mapping) bool {
			v, found := document.Get(config, "spring.h2.console.enabled")
			return found && v == true && productionActive(config)
		},
		message:    "H2 console is enabled in production - this is a security risk",
		severity:   SeverityError,
		suggestion: "Disable H2 console in production profiles",
	},
	{
		condition: func(config *document.Mapping) bool {
			if stringAt(config, "management.endpoints.web.exposure.include") != "*" {
				return false
			}
			_, found := document.Get(config, "management.endpoints.web.base-path")
			return !found
		},
		message:    "All actuator endpoints are exposed without custom base path - potential security risk",
		severity:   SeverityWarning,
		suggestion: "Limit exposed endpoints or set a custom base-path",
	},
	{
		condition: func(config *document.Mapping) bool {
			_, found := document.Get(config, "spring.devtools.remote.secret")
			return found && productionActive(config)
		},
		message:    "DevTools remote secret is set in production profile",
		severity:   SeverityWarning,
		suggestion: "DevTools should not be used in production",
	},
}

type dependencyRule struct {
	property      string
	value         any // non-nil: rule only fires on this exact value
	requires      []string
	requiresOneOf []string
	message       string
	severity      Severity
	suggestion    string
}

var dependencyRules = []dependencyRule{
	{
		property: "server.ssl.enabled",
		value:    true,
		requires: []string{"server.ssl.key-store"},
		message:  "SSL enabled but key-store path not configured",
		severity: SeverityError,
	},
	{
		property:      "spring.datasource.url",
		requiresOneOf: []string{"spring.datasource.driver-class-name", "spring.datasource.type"},
		message:       "Datasource URL specified but driver class may be needed",
		severity:      SeverityWarning,
	},
	{
		property:   "spring.kafka.producer.bootstrap-servers",
		requires:   []string{"spring.kafka.bootstrap-servers"},
		message:    "Kafka producer bootstrap-servers should typically use spring.kafka.bootstrap-servers",
		severity:   SeverityWarning,
		suggestion: "Use spring.kafka.bootstrap-servers for consistency",
	},
}

// Validate checks a merged configuration for typos, conflicting
// properties, dangerous combinations, and missing dependent settings.
func Validate(config *document.Mapping) []Issue {
	issues := []Issue{}

	document.WalkLeaves(config, "", func(path string, _ any) {
		for typo, correct := range commonTypos {
			if path == typo || strings.HasPrefix(path, typo+".") {
				issues = append(issues, Issue{
					Severity:   SeverityWarning,
					Path:       typo,
					Type:       "typo",
					Message:    "Possible typo or deprecated property",
					Suggestion: fmt.Sprintf("Did you mean '%s'?", correct),
				})
			}
		}
	})

	issues = dedupe(issues)

	for _, rule := range exclusiveRules {
		present := []string{}
		for _, p := range rule.properties {
			if _, found := document.Get(config, p); found {
				present = append(present, p)
			}
		}

		if len(present) >= 2 {
			issues = append(issues, Issue{
				Severity: rule.severity,
				Path:     strings.Join(present, ", "),
				Type:     "mutually_exclusive",
				Message:  rule.message,
			})
		}
	}

	for _, rule := range comboRules {
		if rule.condition(config) {
			issues = append(issues, Issue{
				Severity:   rule.severity,
				Path:       "configuration",
				Type:       "dangerous_combination",
				Message:    rule.message,
				Suggestion: rule.suggestion,
			})
		}
	}

	for _, rule := range dependencyRules {
		v, found := document.Get(config, rule.property)
		if !found {
			continue
		}

		if rule.value != nil && v != rule.value {
			continue
		}

		if len(rule.requires) > 0 {
			missing := []string{}
			for _, req := range rule.requires {
				if _, found := document.Get(config, req); !found {
					missing = append(missing, req)
				}
			}

			if len(missing) > 0 {
				issues = append(issues, Issue{
					Severity:   rule.severity,
					Path:       rule.property,
					Type:       "missing_dependency",
					Message:    fmt.Sprintf("%s (missing: %s)", rule.message, strings.Join(missing, ", ")),
					Suggestion: rule.suggestion,
				})
			}
		}

		if len(rule.requiresOneOf) > 0 {
			hasAny := false
			for _, req := range rule.requiresOneOf {
				if _, found := document.Get(config, req); found {
					hasAny = true
					break
				}
			}

			if !hasAny {
				issues = append(issues, Issue{
					Severity:   rule.severity,
					Path:       rule.property,
					Type:       "missing_dependency",
					Message:    rule.message,
					Suggestion: rule.suggestion,
				})
			}
		}
	}

	return issues
}

func stringAt(config *document.Mapping, path string) string {
	v, found := document.Get(config, path)
	if !found || !document.IsScalar(v) {
		return ""
	}

	return cast.ToString(v)
}

func productionActive(config *document.Mapping) bool {
	active := stringAt(config, "spring.profiles.active")
	return active == "prod" || active == "production"
}

func dedupe(issues []Issue) []Issue {
	seen := map[string]struct{}{}
	unique := []Issue{}

	for _, issue := range issues {
		key := issue.Path + "\x00" + issue.Type
		if _, found := seen[key]; found {
			continue
		}

		seen[key] = struct{}{}
		unique = append(unique, issue)
	}

	return unique
}
