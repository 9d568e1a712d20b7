package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/gopatchy/springcfg"
	"github.com/gopatchy/springcfg/pkg/log"
	"github.com/gopatchy/springcfg/pkg/version"
	"github.com/jessevdk/go-flags"
)

type options struct {
	ResourceDirs []string `short:"r" long:"resources" description:"resource directory relative to the project path (repeatable)"`
	IncludeTest  bool     `short:"t" long:"include-test" description:"include src/test/resources"`
	NoSystemEnv  bool     `long:"no-system-env" description:"ignore the process environment during placeholder resolution"`
	Verbose      bool     `short:"v" long:"verbose" description:"enable verbose logging"`
	Version      bool     `short:"V" long:"version" description:"print version and exit"`

	Positional struct {
		ProjectPath flags.Filename `positional-arg-name:"projectPath" required:"true" description:"Spring Boot project root"`
		Profiles1   string         `positional-arg-name:"profiles1" required:"true" description:"first profile set (comma-separated)"`
		Profiles2   string         `positional-arg-name:"profiles2" required:"true" description:"second profile set (comma-separated)"`
	} `positional-args:"yes"`
}

func main() {
	debug.SetGCPercent(-1)

	opts := &options{}

	fp := flags.NewParser(opts, flags.Default)
	fp.LongDescription = `
springcfg-diff shows how the effective configuration differs between two
profile sets, as a unified diff of the annotated output.`

	_, err := fp.Parse()
	if err != nil {
		os.Exit(1)
	}

	version.PrintVersion(opts.Version)

	if opts.Verbose {
		log.Debug = true
	}

	resolveOpts := &springcfg.Options{
		ResourceDirs: opts.ResourceDirs,
		IncludeTest:  opts.IncludeTest,
		NoSystemEnv:  opts.NoSystemEnv,
	}

	result, err := springcfg.Compare(
		os.DirFS(string(opts.Positional.ProjectPath)), ".",
		splitProfiles(opts.Positional.Profiles1),
		splitProfiles(opts.Positional.Profiles2),
		resolveOpts)
	if err != nil {
		fatal(err)
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	fmt.Print(result.Diff)
}

func splitProfiles(arg string) []string {
	profiles := []string{}

	for _, p := range strings.Split(arg, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			profiles = append(profiles, p)
		}
	}

	return profiles
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}
