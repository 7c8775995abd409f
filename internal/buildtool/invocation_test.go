package buildtool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCMakeBuildDefaults(t *testing.T) {
	inv, err := CMakeBuild(BuildSpec{}, "/work/bin/Debug/Engine")
	require.NoError(t, err)

	assert.Equal(t, "cmake", inv.Tool)
	assert.Equal(t, []string{"--build", ".", "--", "-j12"}, inv.Args)
	assert.Equal(t, "/work/bin/Debug/Engine", inv.Dir)
}

func TestCMakeBuildExtraArgs(t *testing.T) {
	inv, err := CMakeBuild(BuildSpec{
		Tool:      "/opt/cmake/bin/cmake",
		Jobs:      4,
		ExtraArgs: `--target PlumbusEngine --config "Debug Build"`,
	}, "/b")
	require.NoError(t, err)

	assert.Equal(t, "/opt/cmake/bin/cmake", inv.Tool)
	assert.Equal(t, []string{"--build", ".", "--target", "PlumbusEngine", "--config", "Debug Build", "--", "-j4"}, inv.Args)
}

func TestCMakeBuildRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		spec BuildSpec
	}{
		{"negative jobs", BuildSpec{Jobs: -1}},
		{"unterminated quote", BuildSpec{ExtraArgs: `--config "Debug`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CMakeBuild(tt.spec, "/b")
			require.Error(t, err)
		})
	}
}

// The parallelism flag is forwarded on every invocation.
func TestCMakeBuildAlwaysCarriesJobsFlag(t *testing.T) {
	for range 5 {
		inv, err := CMakeBuild(BuildSpec{}, "/b")
		require.NoError(t, err)
		require.Equal(t, "-j12", inv.Args[len(inv.Args)-1])
		require.Equal(t, "--", inv.Args[len(inv.Args)-2])
	}
}
