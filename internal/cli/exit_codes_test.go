package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	clierrors "github.com/ariel-frischer/gitchanges/internal/errors"
)

func TestExitError_Error(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		code        int
		wantMessage string
	}{
		"exit code 0": {code: 0, wantMessage: "exit code 0"},
		"exit code 1": {code: 1, wantMessage: "exit code 1"},
		"exit code 4": {code: 4, wantMessage: "exit code 4"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := NewExitError(tc.code)
			assert.Equal(t, tc.wantMessage, err.Error())
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		want int
	}{
		"nil error":            {err: nil, want: ExitSuccess},
		"explicit exit code":   {err: NewExitError(ExitMissingDependencies), want: ExitMissingDependencies},
		"wrapped exit error":   {err: fmt.Errorf("watch: %w", NewExitError(ExitConfigError)), want: ExitConfigError},
		"generic error":        {err: errors.New("generic error"), want: ExitFailure},
		"argument error":       {err: clierrors.InvalidDelimiter(";;"), want: ExitInvalidArguments},
		"configuration error":  {err: clierrors.ConfigExists(".gitchanges.yml"), want: ExitConfigError},
		"prerequisite error":   {err: clierrors.NotARepository("/tmp", errors.New("repository does not exist")), want: ExitMissingDependencies},
		"runtime error":        {err: clierrors.SourceFailed(errors.New("read failed")), want: ExitFailure},
		"wrapped config error": {err: fmt.Errorf("regenerate: %w", clierrors.ConfigLoadError(errors.New("bad yaml"))), want: ExitConfigError},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ExitCode(tc.err))
		})
	}
}
