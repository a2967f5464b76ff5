package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := map[string]struct {
		input   string
		wantErr error
		want    string
	}{
		"semver":          {input: "1.2.3", want: "1.2.3"},
		"label":           {input: "Unreleased", want: "Unreleased"},
		"malformed label": {input: "v-", want: "v-"},
		"empty":           {input: "", wantErr: ErrEmptyVersion},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			v, err := ParseVersion(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.True(t, v.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}

func TestMustVersion_PanicsOnEmpty(t *testing.T) {
	assert.Panics(t, func() { MustVersion("") })
}

func TestVersionCompare(t *testing.T) {
	tests := map[string]struct {
		a, b string
		want int
	}{
		"minor numeric not lexical":   {a: "1.9.0", b: "1.10.0", want: -1},
		"patch greater":               {a: "0.9.1", b: "0.9.0", want: 1},
		"identical":                   {a: "1.10.1", b: "1.10.1", want: 0},
		"label beats numbers":         {a: "Unreleased", b: "1.10.1", want: 1},
		"numbers lose to label":       {a: "1.10.1", b: "Unreleased", want: -1},
		"ordinal fallback":            {a: "UnreleasedB", b: "UnreleasedA", want: 1},
		"ordinal fallback is ordinal": {a: "alpha", b: "Beta", want: 1},
		"prefix compares equal":       {a: "1.0", b: "1.0.0", want: 0},
		"v prefix ignored":            {a: "v2.0.0", b: "1.5.0", want: 1},
		"separators ignored":          {a: "release-2_1", b: "2.0", want: 1},
		"leading zeros":               {a: "1.007", b: "1.7", want: 0},
		"huge runs do not overflow":   {a: "99999999999999999999999", b: "99999999999999999999998", want: 1},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			a, b := MustVersion(tt.a), MustVersion(tt.b)
			assert.Equal(t, tt.want, a.Compare(b))
			assert.Equal(t, -tt.want, b.Compare(a), "compare must be antisymmetric")
		})
	}
}

func TestVersionCompare_Transitive(t *testing.T) {
	labels := []string{"0.1.0", "0.9.0", "0.9.1", "1.0.0", "1.9.0", "1.10.0", "2.0.0", "Unreleased", "UnreleasedB"}
	versions := make([]Version, len(labels))
	for i, l := range labels {
		versions[i] = MustVersion(l)
	}

	for i := range versions {
		for j := range versions {
			for k := range versions {
				a, b, c := versions[i], versions[j], versions[k]
				if a.Compare(b) <= 0 && b.Compare(c) <= 0 {
					assert.LessOrEqual(t, a.Compare(c), 0, "%s <= %s <= %s", a, b, c)
				}
			}
		}
	}
}

func TestVersionEqual_IsTextual(t *testing.T) {
	a, b := MustVersion("1.0"), MustVersion("1.0.0")

	assert.Equal(t, 0, a.Compare(b))
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(MustVersion("1.0")))
}

func TestVersionIsUnreleased(t *testing.T) {
	tests := map[string]struct {
		label string
		want  bool
	}{
		"exact":      {label: "Unreleased", want: true},
		"lowercase":  {label: "unreleased", want: true},
		"uppercase":  {label: "UNRELEASED", want: true},
		"numbered":   {label: "1.0.0", want: false},
		"other word": {label: "Unreleased-2", want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, MustVersion(tt.label).IsUnreleased())
		})
	}
}

func TestVersionText(t *testing.T) {
	var v Version
	require.NoError(t, v.UnmarshalText([]byte("2.1.0")))
	assert.Equal(t, 1, v.Compare(MustVersion("2.0.9")))

	out, err := v.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2.1.0", string(out))

	assert.ErrorIs(t, v.UnmarshalText(nil), ErrEmptyVersion)
}
