package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/gopatchy/springcfg"
	"github.com/gopatchy/springcfg/internal/envvars"
	"github.com/gopatchy/springcfg/internal/format"
	"github.com/gopatchy/springcfg/internal/output"
	"github.com/gopatchy/springcfg/internal/vcap"
	"github.com/gopatchy/springcfg/pkg/log"
	"github.com/gopatchy/springcfg/pkg/version"
	"github.com/jessevdk/go-flags"
)

type options struct {
	Profiles     []string        `short:"p" long:"profile" description:"profile to activate (repeatable, comma lists allowed)"`
	ResourceDirs []string        `short:"r" long:"resources" description:"resource directory relative to the project path (repeatable)"`
	OutputDir    *flags.Filename `short:"o" long:"output" description:"output directory (default .computed)"`
	Stdout       bool            `long:"stdout" description:"print output to stdout instead of writing a file"`
	IncludeTest  bool            `short:"t" long:"include-test" description:"include src/test/resources"`

	EnvFile     *flags.Filename `long:"env-file" description:"load environment variables from a dotenv file"`
	Env         []string        `short:"e" long:"env" description:"environment variable override KEY=VALUE (repeatable)"`
	NoSystemEnv bool            `long:"no-system-env" description:"ignore the process environment during placeholder resolution"`

	VCAPServices       *flags.Filename `long:"vcap-services" description:"VCAP_SERVICES JSON file"`
	VCAPApplication    *flags.Filename `long:"vcap-application" description:"VCAP_APPLICATION JSON file"`
	IgnoreVCAPWarnings bool            `long:"ignore-vcap-warnings" description:"suppress warnings about missing VCAP data"`

	Validate     bool `long:"validate" description:"check for conflicting or misspelled properties"`
	SecurityScan bool `long:"security-scan" description:"check for hardcoded secrets and insecure settings"`
	Lint         bool `long:"lint" description:"check naming conventions and style"`
	StrictLint   bool `long:"strict-lint" description:"lint with naming and duplicate findings as errors"`

	OutputFormat string `short:"f" long:"format" description:"output format" choice:"yaml" choice:"json" choice:"json-pretty" choice:"toml" choice:"properties" default:"yaml"`
	Verbose      bool   `short:"v" long:"verbose" description:"enable verbose logging"`
	Version      bool   `short:"V" long:"version" description:"print version and exit"`

	Positional struct {
		ProjectPath flags.Filename `positional-arg-name:"projectPath" required:"true" description:"Spring Boot project root"`
	} `positional-args:"yes"`
}

func main() {
	debug.SetGCPercent(-1)

	opts := &options{}

	fp := flags.NewParser(opts, flags.Default)
	fp.LongDescription = `
springcfg computes the effective configuration a Spring Boot application would
see for a set of active profiles, annotating every value with the file and line
it came from.

Related tools:
* springcfg-diff`

	_, err := fp.Parse()
	if err != nil {
		os.Exit(1)
	}

	version.PrintVersion(opts.Version)

	if opts.Verbose {
		log.Debug = true
	}

	profiles := splitProfiles(opts.Profiles)

	resolveOpts := &springcfg.Options{
		ResourceDirs:       opts.ResourceDirs,
		IncludeTest:        opts.IncludeTest,
		NoSystemEnv:        opts.NoSystemEnv,
		IgnoreVCAPWarnings: opts.IgnoreVCAPWarnings,
		Validate:           opts.Validate,
		SecurityScan:       opts.SecurityScan,
		Lint:               opts.Lint || opts.StrictLint,
		StrictLint:         opts.StrictLint,
	}

	resolveOpts.EnvOverrides, err = loadOverrides(opts)
	if err != nil {
		fatal(err)
	}

	resolveOpts.VCAP, err = loadVCAP(opts)
	if err != nil {
		fatal(err)
	}

	result, err := springcfg.Resolve(os.DirFS(string(opts.Positional.ProjectPath)), ".", profiles, resolveOpts)
	if err != nil {
		fatal(err)
	}

	text, err := render(result, opts.OutputFormat)
	if err != nil {
		fatal(err)
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "error: %s\n", e)
	}

	printIssues(result)

	if opts.Stdout {
		fmt.Print(text)
	} else {
		outputDir := ".computed"
		if opts.OutputDir != nil {
			outputDir = string(*opts.OutputDir)
		}

		err = writeOutput(outputDir, result.Profiles, text)
		if err != nil {
			fatal(err)
		}
	}

	if result.HasBlockingIssues() {
		os.Exit(1)
	}
}

func splitProfiles(args []string) []string {
	profiles := []string{}

	for _, arg := range args {
		for _, p := range strings.Split(arg, ",") {
			p = strings.TrimSpace(p)
			if p != "" {
				profiles = append(profiles, p)
			}
		}
	}

	return profiles
}

func loadOverrides(opts *options) (map[string]string, error) {
	overrides := map[string]string{}

	if opts.EnvFile != nil {
		abs, err := filepath.Abs(string(*opts.EnvFile))
		if err != nil {
			return nil, err
		}

		fromFile, err := envvars.LoadEnvFile(os.DirFS(filepath.Dir(abs)), filepath.Base(abs))
		if err != nil {
			return nil, err
		}

		for k, v := range fromFile {
			overrides[k] = v
		}
	}

	fromArgs, err := envvars.ParseOverrides(opts.Env)
	if err != nil {
		return nil, err
	}

	for k, v := range fromArgs {
		overrides[k] = v
	}

	return overrides, nil
}

func loadVCAP(opts *options) (*vcap.Config, error) {
	if opts.VCAPServices == nil && opts.VCAPApplication == nil {
		return nil, nil
	}

	cfg := vcap.New()

	if opts.VCAPServices != nil {
		raw, err := os.ReadFile(string(*opts.VCAPServices))
		if err != nil {
			return nil, err
		}

		err = cfg.LoadServices(raw)
		if err != nil {
			return nil, err
		}
	}

	if opts.VCAPApplication != nil {
		raw, err := os.ReadFile(string(*opts.VCAPApplication))
		if err != nil {
			return nil, err
		}

		err = cfg.LoadApplication(raw)
		if err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func render(result *springcfg.Result, name string) (string, error) {
	if name == "yaml" {
		return result.Render()
	}

	f, err := format.Get(name)
	if err != nil {
		return "", err
	}

	raw, err := f.Marshal(result.Config)
	if err != nil {
		return "", err
	}

	return string(raw), nil
}

func printIssues(result *springcfg.Result) {
	for _, issue := range result.ValidationIssues {
		fmt.Fprintf(os.Stderr, "validation %s\n", issue)
	}

	for _, issue := range result.SecurityIssues {
		fmt.Fprintf(os.Stderr, "security %s\n", issue)
	}

	for _, issue := range result.LintIssues {
		fmt.Fprintf(os.Stderr, "lint %s\n", issue)
	}
}

func writeOutput(dir string, profiles []string, text string) error {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, output.Filename(profiles))

	err = os.WriteFile(path, []byte(text), 0o644)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "wrote %s\n", path)

	return nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}
