// Package catalog loads and indexes the scenarios and quiz topics the app
// offers. Documents are YAML or JSON, checked against an embedded JSON
// Schema and then structurally validated before anything is indexed.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/abhisek/parley/internal/content"
)

// SupportedMajor is the document format major version this build reads.
const SupportedMajor = "v1"

// DefaultCategory holds topics that name no category.
const DefaultCategory = "General"

var ErrUnsupportedVersion = errors.New("unsupported catalog version")

// Document is the on-disk shape of a catalog.
type Document struct {
	Version   string              `json:"version"`
	Scenarios []*content.Scenario `json:"scenarios,omitempty"`
	Topics    []*content.Topic    `json:"topics,omitempty"`
}

// Category groups topics for browsing.
type Category struct {
	Name   string
	Topics []*content.Topic
}

// Catalog is a validated, read-only set of scenarios and topics.
type Catalog struct {
	version    string
	scenarios  []*content.Scenario
	topics     []*content.Topic
	categories []Category

	scenarioByID map[string]*content.Scenario
	topicByID    map[string]*content.Topic
}

// New validates doc and indexes it. Every problem found is reported, not
// just the first.
func New(doc *Document) (*Catalog, error) {
	if doc == nil {
		return nil, errors.New("catalog document is nil")
	}
	version, err := CheckVersion(doc.Version)
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		version:      version,
		scenarioByID: make(map[string]*content.Scenario, len(doc.Scenarios)),
		topicByID:    make(map[string]*content.Topic, len(doc.Topics)),
	}

	var errs []error
	for i, sc := range doc.Scenarios {
		if err := content.ValidateScenario(sc); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := c.scenarioByID[sc.ID]; dup {
			errs = append(errs, fmt.Errorf("scenario %d: duplicate id %q", i, sc.ID))
			continue
		}
		c.scenarioByID[sc.ID] = sc
		c.scenarios = append(c.scenarios, sc)
	}

	categoryIndex := make(map[string]int)
	for i, t := range doc.Topics {
		if err := content.ValidateTopic(t); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := c.topicByID[t.ID]; dup {
			errs = append(errs, fmt.Errorf("topic %d: duplicate id %q", i, t.ID))
			continue
		}
		c.topicByID[t.ID] = t
		c.topics = append(c.topics, t)

		name := strings.TrimSpace(t.Category)
		if name == "" {
			name = DefaultCategory
		}
		idx, ok := categoryIndex[name]
		if !ok {
			idx = len(c.categories)
			categoryIndex[name] = idx
			c.categories = append(c.categories, Category{Name: name})
		}
		c.categories[idx].Topics = append(c.categories[idx].Topics, t)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return c, nil
}

// CheckVersion normalizes a document version to canonical semver and
// checks that its major version is supported.
func CheckVersion(v string) (string, error) {
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("version %q is not semver: %w", v, ErrUnsupportedVersion)
	}
	if major := semver.Major(v); major != SupportedMajor {
		return "", fmt.Errorf("version %s (want %s.x): %w", v, SupportedMajor, ErrUnsupportedVersion)
	}
	return semver.Canonical(v), nil
}

// Document returns the catalog in its on-disk shape, with the canonical
// version. Encoding it as JSON yields a document Parse accepts.
func (c *Catalog) Document() *Document {
	return &Document{
		Version:   c.version,
		Scenarios: c.scenarios,
		Topics:    c.topics,
	}
}

// Version is the canonical document version.
func (c *Catalog) Version() string { return c.version }

// Scenarios returns every scenario in document order.
func (c *Catalog) Scenarios() []*content.Scenario { return c.scenarios }

// Topics returns every topic in document order.
func (c *Catalog) Topics() []*content.Topic { return c.topics }

// Categories returns topics grouped by category, in order of first
// appearance.
func (c *Catalog) Categories() []Category { return c.categories }

func (c *Catalog) Scenario(id string) (*content.Scenario, bool) {
	sc, ok := c.scenarioByID[id]
	return sc, ok
}

func (c *Catalog) Topic(id string) (*content.Topic, bool) {
	t, ok := c.topicByID[id]
	return t, ok
}

// LevelCount returns the total number of levels across all topics.
func (c *Catalog) LevelCount() int {
	n := 0
	for _, t := range c.topics {
		n += len(t.Levels)
	}
	return n
}
