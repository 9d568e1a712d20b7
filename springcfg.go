// Package springcfg computes the effective configuration a Spring Boot
// application would see for a given set of active profiles: it
// discovers and parses application config files, expands profile
// groups, merges documents in precedence order, and resolves ${...}
// placeholders, tracking the source of every value along the way.
package springcfg

import (
	goerrors "errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/gopatchy/springcfg/internal/diagnose"
	"github.com/gopatchy/springcfg/internal/discover"
	"github.com/gopatchy/springcfg/internal/document"
	"github.com/gopatchy/springcfg/internal/imports"
	"github.com/gopatchy/springcfg/internal/merge"
	"github.com/gopatchy/springcfg/internal/placeholder"
	"github.com/gopatchy/springcfg/internal/profile"
	"github.com/gopatchy/springcfg/internal/vcap"
	"github.com/gopatchy/springcfg/pkg/log"
)

// Options adjusts resolution behavior. The zero value resolves main
// resources only, consulting the process environment for placeholders.
type Options struct {
	// ResourceDirs overrides the default resource roots, relative to
	// the project path. Custom roots have no main/test distinction.
	ResourceDirs []string

	// IncludeTest also loads src/test/resources, which override main
	// resources.
	IncludeTest bool

	// EnvOverrides take precedence over the process environment during
	// placeholder resolution.
	EnvOverrides map[string]string

	// NoSystemEnv disables process environment lookups during
	// placeholder resolution.
	NoSystemEnv bool

	// VCAP supplies Cloud Foundry service and application data for
	// vcap.* placeholders.
	VCAP               *vcap.Config
	IgnoreVCAPWarnings bool

	Validate     bool
	SecurityScan bool
	Lint         bool
	StrictLint   bool

	// MaxParseDepth caps value tree nesting; zero means the default.
	MaxParseDepth int
}

// Resolve computes the effective configuration for a profile set.
// Parse failures in individual files are collected in Result.Errors
// rather than aborting, so one bad file does not hide the rest of the
// configuration.
func Resolve(fsys fs.FS, projectPath string, profiles []string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = &Options{}
	}

	r := &resolution{
		fsys:   fsys,
		opts:   opts,
		result: &Result{},
		loaded: map[string]struct{}{},
	}

	mainDirs := []string{}
	testDirs := []string{}

	if len(opts.ResourceDirs) > 0 {
		for _, dir := range opts.ResourceDirs {
			mainDirs = append(mainDirs, path.Join(projectPath, dir))
		}
	} else {
		for _, dir := range discover.DefaultRoots {
			mainDirs = append(mainDirs, path.Join(projectPath, dir))
		}

		if opts.IncludeTest {
			for _, dir := range discover.TestRoots {
				testDirs = append(testDirs, path.Join(projectPath, dir))
			}
		}
	}

	for i, dir := range mainDirs {
		files := discover.Base(r.fsys, dir)
		if len(files) == 0 && i == 0 {
			r.result.Warnings = append(r.result.Warnings, fmt.Sprintf("No application config found in %s", dir))
			continue
		}

		for _, file := range files {
			docs := r.load(file, false)
			r.processImports(docs, file, mainDirs, 0)
		}
	}

	groups := profile.CollectGroups(r.docs)

	expanded, err := profile.Expand(profiles, groups)
	if err != nil {
		var cycleErr *profile.CycleError
		if !goerrors.As(err, &cycleErr) {
			return nil, err
		}

		r.result.Warnings = append(r.result.Warnings, err.Error())
		expanded = profiles
	}

	r.result.Profiles = expanded

	for _, dir := range mainDirs {
		for _, p := range expanded {
			for _, file := range discover.Profile(r.fsys, dir, p) {
				r.load(file, false)
			}
		}
	}

	for _, dir := range testDirs {
		for _, file := range discover.Base(r.fsys, dir) {
			r.load(file, true)
		}

		for _, p := range expanded {
			for _, file := range discover.Profile(r.fsys, dir, p) {
				r.load(file, true)
			}
		}
	}

	applicable, warnings := profile.Applicable(r.docs, expanded)
	r.result.Warnings = append(r.result.Warnings, warnings...)

	sorted := merge.SortForMerge(applicable, expanded)

	merged, sources := merge.Merge(sorted)
	r.result.Sources = sources

	r.result.BaseProperties = baseProperties(r.docs)

	resolver := &placeholder.Resolver{
		Overrides:          opts.EnvOverrides,
		UseSystemEnv:       !opts.NoSystemEnv,
		VCAP:               opts.VCAP,
		IgnoreVCAPWarnings: opts.IgnoreVCAPWarnings,
	}

	resolved, placeholderWarnings := resolver.Resolve(merged)
	r.result.Config = resolved
	r.result.Warnings = append(r.result.Warnings, placeholderWarnings...)

	if opts.Validate {
		r.result.ValidationIssues = diagnose.Validate(resolved)
	}

	if opts.SecurityScan {
		r.result.SecurityIssues = diagnose.SecurityScan(resolved)
	}

	if opts.Lint {
		r.result.LintIssues = diagnose.Lint(resolved, opts.StrictLint)
	}

	return r.result, nil
}

type resolution struct {
	fsys   fs.FS
	opts   *Options
	result *Result
	docs   []*document.Document
	loaded map[string]struct{}
}

// load parses one file unless it was already loaded, collecting its
// documents. Parse failures land in Result.Errors.
func (r *resolution) load(file string, test bool) []*document.Document {
	if _, found := r.loaded[file]; found {
		return nil
	}

	r.loaded[file] = struct{}{}

	docs, err := discover.ParseFile(r.fsys, file, test, r.opts.MaxParseDepth)
	if err != nil {
		r.result.Errors = append(r.result.Errors, err.Error())
		return nil
	}

	r.docs = append(r.docs, docs...)

	return docs
}

// processImports follows spring.config.import directives from
// non-activated documents, depth-limited against import cycles.
func (r *resolution) processImports(docs []*document.Document, sourceFile string, resourceDirs []string, depth int) {
	if depth >= imports.MaxDepth {
		r.result.Warnings = append(r.result.Warnings, fmt.Sprintf(
			"Import depth limit (%d) exceeded at %s. This may indicate circular imports.",
			imports.MaxDepth, sourceFile))
		return
	}

	searchDirs := append([]string{path.Dir(sourceFile)}, resourceDirs...)

	for _, doc := range docs {
		if doc.Activation != "" {
			continue
		}

		for _, loc := range imports.Extract(doc.Content) {
			resolved, found := loc.Resolve(r.fsys, searchDirs)
			if !found {
				if !loc.Optional {
					r.result.Warnings = append(r.result.Warnings, fmt.Sprintf("Imported file not found: %s", loc.Raw))
				}
				continue
			}

			log.Debugf("import %s -> %s", loc.Raw, resolved)

			imported := r.load(resolved, false)
			r.processImports(imported, resolved, resourceDirs, depth+1)
		}
	}
}

// baseProperties collects every path defined by base application files,
// including intermediate mapping paths.
func baseProperties(docs []*document.Document) map[string]struct{} {
	paths := map[string]struct{}{}

	for _, doc := range docs {
		stem := path.Base(doc.Path)
		if ext := path.Ext(stem); ext != "" {
			stem = strings.TrimSuffix(stem, ext)
		}

		if stem != "application" {
			continue
		}

		for p := range document.MappingPaths(doc.Content) {
			paths[p] = struct{}{}
		}
	}

	return paths
}
