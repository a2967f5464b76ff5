package build

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "gitchanges dev (commit unknown, built unknown)", Info())
	assert.True(t, IsDevBuild())
}

func TestDetails(t *testing.T) {
	t.Parallel()

	details := Details()
	assert.Len(t, details, 2)
	assert.Equal(t, "go: "+runtime.Version(), details[0])
	assert.Contains(t, details[1], runtime.GOOS)
}
