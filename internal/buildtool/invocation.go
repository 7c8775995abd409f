package buildtool

import (
	"fmt"
	"strconv"

	"github.com/google/shlex"
)

const (
	DefaultTool = "cmake"
	DefaultJobs = 12
)

// BuildSpec configures the build invocation.
type BuildSpec struct {
	Tool string `yaml:"tool"`
	Jobs int    `yaml:"jobs"`
	// ExtraArgs is a shell-quoted string inserted before the "--" separator,
	// e.g. "--target PlumbusEngine --config Debug".
	ExtraArgs string `yaml:"extra_args,omitempty"`
}

// Invocation is one build-tool process: Tool run with Args inside Dir.
type Invocation struct {
	Tool string
	Args []string
	Dir  string
}

// CMakeBuild returns the invocation `<tool> --build . [extra...] -- -j<jobs>`
// with dir as the working directory.
func CMakeBuild(spec BuildSpec, dir string) (Invocation, error) {
	tool := spec.Tool
	if tool == "" {
		tool = DefaultTool
	}
	jobs := spec.Jobs
	if jobs == 0 {
		jobs = DefaultJobs
	}
	if jobs < 1 {
		return Invocation{}, fmt.Errorf("jobs must be at least 1, got %d", jobs)
	}

	extra, err := shlex.Split(spec.ExtraArgs)
	if err != nil {
		return Invocation{}, fmt.Errorf("parse extra args %q: %w", spec.ExtraArgs, err)
	}

	args := make([]string, 0, len(extra)+4)
	args = append(args, "--build", ".")
	args = append(args, extra...)
	args = append(args, "--", "-j"+strconv.Itoa(jobs))

	return Invocation{Tool: tool, Args: args, Dir: dir}, nil
}
