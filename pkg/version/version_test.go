package version_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/codeshape/pkg/version"
)

func TestCurrent(t *testing.T) {
	t.Parallel()

	info := version.Current()

	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.Commit)
	assert.NotEmpty(t, info.GoVersion)
}
