package diagnose

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gopatchy/springcfg/internal/document"
)

const maxNestingDepth = 10

var (
	kebabCaseRE = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	camelCaseRE = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)
	snakeCaseRE = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)
	indexRE     = regexp.MustCompile(`\[\d+\]`)
	digitsRE    = regexp.MustCompile(`^\d+$`)
)

// conventionExempt lists well-known top-level keys that predate the
// kebab-case recommendation.
var conventionExempt = map[string]struct{}{
	"springdoc":  {},
	"server":     {},
	"spring":     {},
	"logging":    {},
	"management": {},
}

// Lint checks a merged configuration for style problems: naming
// conventions, empty values, excessive nesting, near-duplicate keys,
// and redundant flags. In strict mode naming and duplicate findings
// become errors.
func Lint(config *document.Mapping, strict bool) []Issue {
	issues := checkNaming(config)
	issues = append(issues, checkEmptyValues(config)...)
	issues = append(issues, checkNestingDepth(config)...)
	issues = append(issues, checkDuplicateKeys(config)...)
	issues = append(issues, checkRedundantFlags(config)...)

	if strict {
		for i, issue := range issues {
			if issue.Type == "naming_convention" || issue.Type == "duplicate_keys" {
				issues[i].Severity = SeverityError
			}
		}
	}

	return issues
}

func checkNaming(config *document.Mapping) []Issue {
	issues := []Issue{}

	document.WalkLeaves(config, "", func(path string, _ any) {
		for _, key := range pathKeys(path) {
			if digitsRE.MatchString(key) {
				continue
			}

			if _, exempt := conventionExempt[key]; exempt {
				continue
			}

			kebab := kebabCaseRE.MatchString(key)
			camel := camelCaseRE.MatchString(key)
			snake := snakeCaseRE.MatchString(key)

			switch {
			case !kebab && !camel && !snake:
				issues = append(issues, Issue{
					Severity:   SeverityWarning,
					Path:       path,
					Type:       "naming_convention",
					Message:    fmt.Sprintf("Key '%s' does not follow a standard naming convention", key),
					Suggestion: "Use kebab-case (recommended), camelCase, or snake_case",
				})

			case snake && !kebab:
				issues = append(issues, Issue{
					Severity:   SeverityInfo,
					Path:       path,
					Type:       "naming_style",
					Message:    fmt.Sprintf("Key '%s' uses snake_case", key),
					Suggestion: "Spring Boot recommends kebab-case for property names",
				})
			}
		}
	})

	return issues
}

func pathKeys(path string) []string {
	return strings.Split(indexRE.ReplaceAllString(path, ""), ".")
}

func checkEmptyValues(config *document.Mapping) []Issue {
	issues := []Issue{}

	document.WalkLeaves(config, "", func(path string, value any) {
		switch value {
		case "":
			issues = append(issues, Issue{
				Severity:   SeverityWarning,
				Path:       path,
				Type:       "empty_value",
				Message:    "Property has empty string value",
				Suggestion: "Consider removing the property or setting a default value",
			})

		case nil:
			issues = append(issues, Issue{
				Severity:   SeverityInfo,
				Path:       path,
				Type:       "null_value",
				Message:    "Property explicitly set to null",
				Suggestion: "Verify this is intentional",
			})
		}
	})

	return issues
}

func checkNestingDepth(config *document.Mapping) []Issue {
	depth := nestingDepth(config, 0)
	if depth <= maxNestingDepth {
		return nil
	}

	return []Issue{{
		Severity:   SeverityWarning,
		Path:       "(root)",
		Type:       "excessive_nesting",
		Message:    fmt.Sprintf("Configuration has %d levels of nesting (max recommended: %d)", depth, maxNestingDepth),
		Suggestion: "Consider flattening the structure or using profile groups",
	}}
}

func nestingDepth(m *document.Mapping, depth int) int {
	max := depth

	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		if sub, ok := pair.Value.(*document.Mapping); ok {
			if d := nestingDepth(sub, depth+1); d > max {
				max = d
			}
		}
	}

	return max
}

func checkDuplicateKeys(config *document.Mapping) []Issue {
	byLower := map[string][]string{}
	order := []string{}

	document.WalkLeaves(config, "", func(path string, _ any) {
		lower := strings.ToLower(path)
		if _, found := byLower[lower]; !found {
			order = append(order, lower)
		}
		byLower[lower] = append(byLower[lower], path)
	})

	issues := []Issue{}

	for _, lower := range order {
		paths := byLower[lower]
		if len(paths) < 2 {
			continue
		}

		joined := strings.Join(paths, ", ")
		issues = append(issues, Issue{
			Severity:   SeverityWarning,
			Path:       joined,
			Type:       "duplicate_keys",
			Message:    fmt.Sprintf("Properties differ only in case: %s", joined),
			Suggestion: "Use consistent casing to avoid confusion",
		})
	}

	return issues
}

func checkRedundantFlags(config *document.Mapping) []Issue {
	enabled := map[string]struct{}{}

	document.WalkLeaves(config, "", func(path string, _ any) {
		if base, found := strings.CutSuffix(path, ".enabled"); found {
			enabled[base] = struct{}{}
		}
	})

	issues := []Issue{}

	document.WalkLeaves(config, "", func(path string, _ any) {
		base, found := strings.CutSuffix(path, ".disabled")
		if !found {
			return
		}

		if _, both := enabled[base]; both {
			issues = append(issues, Issue{
				Severity:   SeverityWarning,
				Path:       fmt.Sprintf("%s.enabled, %s.disabled", base, base),
				Type:       "redundant_flags",
				Message:    "Both .enabled and .disabled flags are set for the same feature",
				Suggestion: "Use only one flag (preferably .enabled)",
			})
		}
	})

	return issues
}
