// Package analyzer computes document statistics, substring search and
// flattened row sets over a parsed document, plus string-kind
// classification for view annotations.
package analyzer

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jsonpeek/jsonpeek/internal/config"
	"github.com/jsonpeek/jsonpeek/internal/docpath"
	"github.com/jsonpeek/jsonpeek/internal/models"
)

const (
	// StatsMaxDepth bounds the statistics traversal. Children below this
	// depth are not descended into.
	StatsMaxDepth = 100

	// FlattenDefaultDepth bounds Flatten when the caller passes no limit.
	FlattenDefaultDepth = 10
)

// timestampLayouts are tried in order, most specific first
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Stats aggregates structural counts for a document.
type Stats struct {
	TotalNodes     int
	MaxDepth       int
	ArrayCount     int
	ObjectCount    int
	PrimitiveCount int
	NullCount      int
}

// Statistics walks the document once and counts nodes by kind. The root
// is at depth 0; null values count in NullCount rather than
// PrimitiveCount.
func Statistics(v models.Value) Stats {
	var s Stats
	statsWalk(v, 0, &s)
	return s
}

func statsWalk(v models.Value, depth int, s *Stats) {
	if depth > StatsMaxDepth {
		return
	}
	s.TotalNodes++
	if depth > s.MaxDepth {
		s.MaxDepth = depth
	}

	switch v.Kind {
	case models.Object:
		s.ObjectCount++
		for _, m := range v.Members {
			statsWalk(m.Value, depth+1, s)
		}
	case models.Array:
		s.ArrayCount++
		for _, e := range v.Elems {
			statsWalk(e, depth+1, s)
		}
	case models.Null:
		s.NullCount++
	default:
		s.PrimitiveCount++
	}
}

// MatchField says whether a search hit matched the key addressing a node
// or the node's own value.
type MatchField string

const (
	MatchedKey   MatchField = "key"
	MatchedValue MatchField = "value"
)

// Match is one search hit.
type Match struct {
	Path      docpath.Path
	Value     models.Value
	MatchedOn MatchField
}

// Search walks the document in order and reports nodes whose key or
// stringified primitive value contains term as a substring. Each node
// yields at most one match; a key match wins over a value match.
// Containers match only through their keys, never their contents.
func Search(v models.Value, term string, caseSensitive bool) []Match {
	if term == "" {
		return nil
	}
	needle := term
	if !caseSensitive {
		needle = strings.ToLower(term)
	}
	var out []Match
	searchWalk(v, docpath.Path{}, "", needle, caseSensitive, &out)
	return out
}

func searchWalk(v models.Value, path docpath.Path, key, needle string, caseSensitive bool, out *[]Match) {
	switch {
	case key != "" && containsFold(key, needle, caseSensitive):
		*out = append(*out, Match{Path: path, Value: v, MatchedOn: MatchedKey})
	case !v.IsContainer() && containsFold(v.Scalar(), needle, caseSensitive):
		*out = append(*out, Match{Path: path, Value: v, MatchedOn: MatchedValue})
	}

	switch v.Kind {
	case models.Object:
		for _, m := range v.Members {
			searchWalk(m.Value, path.Append(docpath.Key(m.Key)), m.Key, needle, caseSensitive, out)
		}
	case models.Array:
		for i, e := range v.Elems {
			searchWalk(e, path.Append(docpath.Index(i)), "", needle, caseSensitive, out)
		}
	}
}

func containsFold(hay, needle string, caseSensitive bool) bool {
	if caseSensitive {
		return strings.Contains(hay, needle)
	}
	return strings.Contains(strings.ToLower(hay), needle)
}

/// Entry is one flattened row: a node's path, value and kind label.
type Entry struct {
	Path  docpath.Path
	Value models.Value
	Type  string
}

// Flatten lists every node in pre-order, one entry per node, down to
// maxDepth. A non-positive maxDepth means FlattenDefaultDepth.
func Flatten(v models.Value, maxDepth int) []Entry {
	if maxDepth <= 0 {
		maxDepth = FlattenDefaultDepth
	}
	var out []Entry
	flattenWalk(v, docpath.Path{}, 0, maxDepth, &out)
	return out
}

func flattenWalk(v models.Value, path docpath.Path, depth, maxDepth int, out *[]Entry) {
	if depth > maxDepth {
		return
	}
	*out = append(*out, Entry{Path: path, Value: v, Type: v.Kind.String()})

	switch v.Kind {
	case models.Object:
		for _, m := range v.Members {
			flattenWalk(m.Value, path.Append(docpath.Key(m.Key)), depth+1, maxDepth, out)
		}
	case models.Array:
		for i, e := range v.Elems {
			flattenWalk(e, path.Append(docpath.Index(i)), depth+1, maxDepth, out)
		}
	}
}

// Classifier annotates string values with a recognized format name.
type Classifier struct {
	config *config.Config
}

// NewClassifier creates a Classifier with default configuration
func NewClassifier() *Classifier {
	return NewClassifierWithConfig(config.NewConfig())
}

// NewClassifierWithConfig creates a Classifier with custom configuration
func NewClassifierWithConfig(cfg *config.Config) *Classifier {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Classifier{config: cfg}
}

// ClassifyString returns a format label for a string value: "uuid",
// "timestamp", or the name of the first matching configured rule.
// Unrecognized strings return "".
func (c *Classifier) ClassifyString(s string) string {
	if !c.config.Classify.Enabled || s == "" {
		return ""
	}

	// Canonical 36-character form only; uuid.Parse alone also accepts
	// braced and urn-prefixed spellings.
	if len(s) == 36 {
		if _, err := uuid.Parse(s); err == nil {
			return "uuid"
		}
	}

	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return "timestamp"
		}
	}

	for i := range c.config.Classify.Rules {
		rule := &c.config.Classify.Rules[i]
		if rule.Matches(s) {
			return rule.Name
		}
	}

	return ""
}

// KindCounts tallies classified string kinds across the whole document,
// depth-bounded like Statistics.
func (c *Classifier) KindCounts(v models.Value) map[string]int {
	counts := make(map[string]int)
	c.kindWalk(v, 0, counts)
	return counts
}

func (c *Classifier) kindWalk(v models.Value, depth int, counts map[string]int) {
	if depth > StatsMaxDepth {
		return
	}
	switch v.Kind {
	case models.Object:
		for _, m := range v.Members {
			c.kindWalk(m.Value, depth+1, counts)
		}
	case models.Array:
		for _, e := range v.Elems {
			c.kindWalk(e, depth+1, counts)
		}
	case models.String:
		if kind := c.ClassifyString(v.Str); kind != "" {
			counts[kind]++
		}
	}
}
