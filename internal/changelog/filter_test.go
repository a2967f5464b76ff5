package changelog

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func change(version, changeType, summary string, when time.Time) Change {
	return Change{Version: MustVersion(version), ChangeType: changeType, Summary: summary, Timestamp: when}
}

func versionsOf(changes []Change) []string {
	out := make([]string, len(changes))
	for i, c := range changes {
		out[i] = c.Version.String()
	}
	return out
}

func TestFilter(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		changes []Change
		opts    FilterOptions
		want    []string
	}{
		"no options passes everything": {
			changes: []Change{
				change("2.0.0", "Added", "a", now),
				change("1.0.0", "Added", "b", now),
			},
			want: []string{"2.0.0", "1.0.0"},
		},
		"min version is inclusive and stops at first older": {
			changes: []Change{
				change("2.0.0", "Added", "a", now),
				change("1.5.0", "Added", "b", now),
				change("1.0.0", "Added", "c", now),
			},
			opts: FilterOptions{MinVersion: MustVersion("1.5.0")},
			want: []string{"2.0.0", "1.5.0"},
		},
		"iteration terminates rather than skipping": {
			changes: []Change{
				change("2.0.0", "Added", "a", now),
				change("1.0.0", "Added", "b", now),
				change("3.0.0", "Added", "out of order", now),
			},
			opts: FilterOptions{MinVersion: MustVersion("1.5.0")},
			want: []string{"2.0.0"},
		},
		"unreleased label is above any cutoff": {
			changes: []Change{
				change(Unreleased, "Added", "a", now),
				change("1.0.0", "Added", "b", now),
			},
			opts: FilterOptions{MinVersion: MustVersion("1.0.0")},
			want: []string{Unreleased, "1.0.0"},
		},
		"excluded types are skipped case-insensitively": {
			changes: []Change{
				change("2.0.0", "Maintenance", "a", now),
				change("2.0.0", "Added", "b", now),
				change("1.0.0", "MAINTENANCE", "c", now),
				change("1.0.0", "Fixed", "d", now),
			},
			opts: FilterOptions{ExcludeChangeTypes: []string{"maintenance"}},
			want: []string{"2.0.0", "1.0.0"},
		},
		"exclusion and cutoff combined": {
			changes: []Change{
				change("2.0.0", "Added", "a", now),
				change("1.5.0", "Maintenance", "b", now),
				change("1.5.0", "Fixed", "c", now),
				change("1.0.0", "Added", "d", now),
			},
			opts: FilterOptions{MinVersion: MustVersion("1.5.0"), ExcludeChangeTypes: []string{"Maintenance"}},
			want: []string{"2.0.0", "1.5.0"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Collect(Filter(Changes(tt.changes...), tt.opts))
			require.NoError(t, err)
			assert.Equal(t, tt.want, versionsOf(got))
		})
	}
}

func TestFilter_IsLazy(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	pulled := 0
	source := func(yield func(Change, error) bool) {
		for _, v := range []string{"3.0.0", "2.0.0", "1.0.0", "0.5.0"} {
			pulled++
			if !yield(change(v, "Added", "x", now), nil) {
				return
			}
		}
	}

	got, err := Collect(Filter(source, FilterOptions{MinVersion: MustVersion("2.0.0")}))
	require.NoError(t, err)

	assert.Equal(t, []string{"3.0.0", "2.0.0"}, versionsOf(got))
	assert.Equal(t, 3, pulled, "filter must stop pulling after the first version below the cutoff")
}

func TestFilter_PassesErrorsThrough(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	boom := errors.New("source failed")
	source := func(yield func(Change, error) bool) {
		if !yield(change("2.0.0", "Added", "x", now), nil) {
			return
		}
		if !yield(Change{}, boom) {
			return
		}
		yield(change("1.0.0", "Added", "y", now), nil)
	}

	got, err := Collect(Filter(source, FilterOptions{ExcludeChangeTypes: []string{"Fixed"}}))
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"2.0.0"}, versionsOf(got))
}

func TestFilterOptionsIsEmpty(t *testing.T) {
	assert.True(t, FilterOptions{}.IsEmpty())
	assert.False(t, FilterOptions{MinVersion: MustVersion("1.0.0")}.IsEmpty())
	assert.False(t, FilterOptions{ExcludeChangeTypes: []string{"Added"}}.IsEmpty())
}
