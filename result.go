package springcfg

import (
	"github.com/gopatchy/springcfg/internal/diagnose"
	"github.com/gopatchy/springcfg/internal/document"
	"github.com/gopatchy/springcfg/internal/merge"
	"github.com/gopatchy/springcfg/internal/output"
)

// Result holds the effective configuration for a profile set plus
// everything observed while computing it.
type Result struct {
	// Config is the merged, placeholder-resolved configuration.
	Config *document.Mapping

	// Sources maps each leaf path to the file and line that supplied
	// its winning value.
	Sources merge.SourceMap

	// Profiles is the active profile list after group expansion.
	Profiles []string

	// BaseProperties are the paths defined by base application files,
	// used to flag profile-only additions in annotated output.
	BaseProperties map[string]struct{}

	Warnings []string
	Errors   []string

	ValidationIssues []diagnose.Issue
	SecurityIssues   []diagnose.Issue
	LintIssues       []diagnose.Issue
}

// Render encodes the configuration as YAML with source attribution
// comments. Warnings about properties absent from the base
// configuration are appended to the result.
func (r *Result) Render() (string, error) {
	text, warnings, err := output.Render(r.Config, r.Sources, r.BaseProperties)
	if err != nil {
		return "", err
	}

	r.Warnings = append(r.Warnings, warnings...)

	return text, nil
}

// HasBlockingIssues reports whether any finding should fail a CI run:
// error-severity validation or lint findings, or critical security
// findings.
func (r *Result) HasBlockingIssues() bool {
	if len(r.Errors) > 0 {
		return true
	}

	for _, issue := range r.ValidationIssues {
		if issue.Severity == diagnose.SeverityError {
			return true
		}
	}

	for _, issue := range r.SecurityIssues {
		if issue.Severity == diagnose.SeverityCritical {
			return true
		}
	}

	for _, issue := range r.LintIssues {
		if issue.Severity == diagnose.SeverityError {
			return true
		}
	}

	return false
}
