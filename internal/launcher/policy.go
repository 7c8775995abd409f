package launcher

import "fmt"

// Policy decides what a non-zero build exit means for the copy step.
type Policy int

const (
	// PolicyAlwaysCopy logs a failed build and copies whatever artifact is present.
	PolicyAlwaysCopy Policy = iota
	// PolicyRequireBuildSuccess aborts the run on a non-zero build exit.
	PolicyRequireBuildSuccess
)

func (p Policy) String() string {
	switch p {
	case PolicyAlwaysCopy:
		return "always_copy"
	case PolicyRequireBuildSuccess:
		return "require_build_success"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// PolicyFor maps the require-success switch onto a Policy.
func PolicyFor(requireSuccess bool) Policy {
	if requireSuccess {
		return PolicyRequireBuildSuccess
	}
	return PolicyAlwaysCopy
}
