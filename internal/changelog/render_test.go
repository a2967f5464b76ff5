package changelog

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTemplate = `{{#versions}}
## [{{version}}] - {{date}}
{{#changeTypes}}
### {{changeType}}
{{#changes}}
- {{#reference}}[{{{reference}}}] {{/reference}}{{{summary}}}
{{/changes}}
{{/changeTypes}}
{{/versions}}`

func TestMustacheRenderer(t *testing.T) {
	agg := NewAggregator()
	agg.Add(sampleChanges()...)

	tests := map[string]struct {
		template    string
		contains    []string
		notContains []string
	}{
		"custom template": {
			template: testTemplate,
			contains: []string{
				"## [0.2.0] - 2024-03-10",
				"## [0.1.0] - 2024-03-09",
				"### Added",
				"### Removed",
				"- [REL-1231] This is the latest 0.2.0",
				"- [REL-1236] This is the earliest 0.1.0",
			},
		},
		"default template": {
			template: DefaultTemplate(),
			contains: []string{
				"# Changelog",
				"Keep a Changelog",
				"## [0.2.0] - 2024-03-10",
				"- [REL-1232] This is the middle 0.2.0",
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := MustacheRenderer{}.Render(tt.template, agg.Document())
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestMustacheRenderer_EmptyReferenceOmitted(t *testing.T) {
	agg := NewAggregator()
	agg.Add(Change{Version: MustVersion("1.0.0"), ChangeType: "Added", Summary: "x", Timestamp: aggregateBase})

	out, err := MustacheRenderer{}.Render(testTemplate, agg.Document())
	require.NoError(t, err)

	assert.Contains(t, out, "- x")
	assert.NotContains(t, out, "[]")
}

func TestMustacheRenderer_VersionOrderInOutput(t *testing.T) {
	agg := NewAggregator()
	agg.Add(sampleChanges()...)

	out, err := MustacheRenderer{}.Render(testTemplate, agg.Document())
	require.NoError(t, err)

	assert.Less(t, strings.Index(out, "[0.2.0]"), strings.Index(out, "[0.1.0]"))
	assert.Less(t, strings.Index(out, "middle 0.2.0"), strings.Index(out, "earliest 0.2.0"))
}

func TestMustacheRenderer_Idempotent(t *testing.T) {
	agg := NewAggregator()
	agg.Add(sampleChanges()...)
	doc := agg.Document()

	first, err := MustacheRenderer{}.Render(DefaultTemplate(), doc)
	require.NoError(t, err)
	second, err := MustacheRenderer{}.Render(DefaultTemplate(), doc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMustacheRenderer_InvalidTemplate(t *testing.T) {
	_, err := MustacheRenderer{}.Render("{{#versions}}unclosed", &Document{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing template")
}

func TestRenderTo(t *testing.T) {
	var buf bytes.Buffer
	r := RendererFunc(func(template string, doc *Document) (string, error) {
		return template + ":" + strings.Join(doc.ListVersions(), ","), nil
	})

	require.NoError(t, RenderTo(&buf, r, "tmpl", &Document{Versions: []VersionBlock{{Version: "1.0.0"}}}))
	assert.Equal(t, "tmpl:1.0.0", buf.String())

	failing := RendererFunc(func(string, *Document) (string, error) { return "", errors.New("boom") })
	assert.Error(t, RenderTo(&buf, failing, "tmpl", &Document{}))
}
