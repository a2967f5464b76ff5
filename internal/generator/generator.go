// Package generator assembles changelogs from change sources: it filters each
// source, aggregates the changes and renders the result with a template.
package generator

import (
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"slices"

	"github.com/ariel-frischer/gitchanges/internal/changelog"
	"github.com/ariel-frischer/gitchanges/internal/source"
)

// Options configures a Generator.
type Options struct {
	// MinVersion drops every change older than it. Empty keeps all versions.
	MinVersion string
	// ExcludeChangeTypes drops changes of these types, ignoring case.
	ExcludeChangeTypes []string
	// Template is the mustache template. Empty uses the embedded default.
	Template string
	// Renderer defaults to changelog.MustacheRenderer.
	Renderer changelog.Renderer
	Logger   *slog.Logger
}

// Generator turns sources into changelog documents and rendered text.
// Each call aggregates into a fresh Aggregator, so calls are independent.
type Generator struct {
	filter   changelog.FilterOptions
	template string
	renderer changelog.Renderer
	logger   *slog.Logger
}

// New validates opts and returns a Generator.
func New(opts Options) (*Generator, error) {
	g := &Generator{
		filter:   changelog.FilterOptions{ExcludeChangeTypes: opts.ExcludeChangeTypes},
		template: opts.Template,
		renderer: opts.Renderer,
		logger:   opts.Logger,
	}
	if opts.MinVersion != "" {
		v, err := changelog.ParseVersion(opts.MinVersion)
		if err != nil {
			return nil, fmt.Errorf("invalid minimum version: %w", err)
		}
		g.filter.MinVersion = v
	}
	if g.template == "" {
		g.template = changelog.DefaultTemplate()
	}
	if g.renderer == nil {
		g.renderer = changelog.MustacheRenderer{}
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g, nil
}

// changes concatenates the sources in order, filtering each one separately.
func (g *Generator) changes(sources []source.Source) iter.Seq2[changelog.Change, error] {
	return func(yield func(changelog.Change, error) bool) {
		for i, src := range sources {
			seq := src.Changes()
			if !g.filter.IsEmpty() {
				seq = changelog.Filter(seq, g.filter)
			}
			for c, err := range seq {
				if err != nil {
					yield(changelog.Change{}, fmt.Errorf("reading source %d: %w", i+1, err))
					return
				}
				if !yield(c, nil) {
					return
				}
			}
		}
	}
}

// Structure aggregates every source into one document.
func (g *Generator) Structure(sources ...source.Source) (*changelog.Document, error) {
	agg := changelog.NewAggregator()
	if err := agg.AddAll(g.changes(sources)); err != nil {
		return nil, err
	}
	g.logger.Debug("aggregated changes", "sources", len(sources), "changes", agg.Len())
	return agg.Document(), nil
}

// Generate renders the document built by Structure.
func (g *Generator) Generate(sources ...source.Source) (string, error) {
	doc, err := g.Structure(sources...)
	if err != nil {
		return "", err
	}
	return g.Render(doc)
}

// Render renders doc with the configured template.
func (g *Generator) Render(doc *changelog.Document) (string, error) {
	out, err := g.renderer.Render(g.template, doc)
	if err != nil {
		return "", fmt.Errorf("rendering changelog: %w", err)
	}
	return out, nil
}

// ProjectDocuments maps project names to their documents.
type ProjectDocuments map[string]*changelog.Document

// Projects returns the project names in sorted order.
func (p ProjectDocuments) Projects() []string {
	return slices.Sorted(maps.Keys(p))
}

// StructureByProject aggregates the changes of each project separately.
func (g *Generator) StructureByProject(sources ...source.Source) (ProjectDocuments, error) {
	aggregators := make(map[string]*changelog.Aggregator)
	for c, err := range g.changes(sources) {
		if err != nil {
			return nil, err
		}
		agg, ok := aggregators[c.Project]
		if !ok {
			agg = changelog.NewAggregator()
			aggregators[c.Project] = agg
		}
		agg.Add(c)
	}

	docs := make(ProjectDocuments, len(aggregators))
	for project, agg := range aggregators {
		g.logger.Debug("aggregated project", "project", project, "changes", agg.Len())
		docs[project] = agg.Document()
	}
	return docs, nil
}

// GenerateByProject renders one changelog per project.
func (g *Generator) GenerateByProject(sources ...source.Source) (map[string]string, error) {
	docs, err := g.StructureByProject(sources...)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(docs))
	for _, project := range docs.Projects() {
		text, err := g.Render(docs[project])
		if err != nil {
			return nil, fmt.Errorf("project %s: %w", project, err)
		}
		out[project] = text
	}
	return out, nil
}
