package location

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/gosimple/unidecode"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog is the on-disk shape of the location list.
type Catalog struct {
	Districts []string `yaml:"districts"`
	Venues    []string `yaml:"venues"`
}

// Directory answers location autocomplete queries over a fixed catalog.
type Directory struct {
	entries []entry
}

type entry struct {
	name  string
	norm  string
	latin string
}

// match tiers, best first
const (
	tierPrefix = iota
	tierWordStart
	tierContains
	tierFuzzy
	tierCount
	noMatch = -1
)

var lower = cases.Lower(language.Russian)

// Default returns the Directory built from the embedded catalog.
func Default() (*Directory, error) {
	return Parse(defaultCatalog)
}

// Load reads a YAML catalog from path. An empty path falls back to Default.
func Load(path string) (*Directory, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read locations file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Directory, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse locations catalog: %w", err)
	}
	d := New(append(c.Districts, c.Venues...))
	log.Debug("Loaded locations catalog", "districts", len(c.Districts), "venues", len(c.Venues))
	return d, nil
}

// New builds a Directory over names in the given order.
func New(names []string) *Directory {
	d := &Directory{entries: make([]entry, 0, len(names))}
	for _, n := range names {
		norm := Normalize(n)
		d.entries = append(d.entries, entry{
			name:  n,
			norm:  norm,
			latin: strings.ToLower(unidecode.Unidecode(norm)),
		})
	}
	return d
}

// All returns every location in catalog order.
func (d *Directory) All() []string {
	out := make([]string, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.name
	}
	return out
}

// Normalize lowercases s, folds ё into е and collapses whitespace.
func Normalize(s string) string {
	s = lower.String(s)
	s = strings.ReplaceAll(s, "ё", "е")
	return strings.Join(strings.Fields(s), " ")
}

// Search returns the locations matching query, best matches first:
// prefix matches, then word-start matches, then substring matches, then
// near-misses where the query minus its first or last letter is a substring.
// A one-letter query only matches word starts. Latin queries are matched
// against transliterated names. limit <= 0 means no limit.
func (d *Directory) Search(query string, limit int) []string {
	q := Normalize(query)
	if q == "" {
		return []string{}
	}
	latin := isLatin(q)

	buckets := make([][]string, tierCount)
	for _, e := range d.entries {
		tier := e.tier(q, latin)
		if tier == noMatch {
			continue
		}
		buckets[tier] = append(buckets[tier], e.name)
	}

	seen := make(map[string]struct{})
	results := []string{}
	for _, bucket := range buckets {
		for _, name := range bucket {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			results = append(results, name)
			if limit > 0 && len(results) == limit {
				return results
			}
		}
	}
	return results
}

func (e entry) tier(q string, latin bool) int {
	best := matchTier(e.norm, q)
	if latin {
		if t := matchTier(e.latin, q); t != noMatch && (best == noMatch || t < best) {
			best = t
		}
	}
	return best
}

func matchTier(loc, q string) int {
	if utf8.RuneCountInString(q) < 2 {
		if hasWordPrefix(loc, q) {
			return tierWordStart
		}
		return noMatch
	}
	if strings.HasPrefix(loc, q) {
		return tierPrefix
	}
	if hasWordPrefix(loc, q) {
		return tierWordStart
	}
	if strings.Contains(loc, q) {
		return tierContains
	}
	runes := []rune(q)
	if len(runes) >= 3 {
		for i := 0; i < 2; i++ {
			part := string(runes[i : i+len(runes)-1])
			if strings.Contains(loc, part) {
				return tierFuzzy
			}
		}
	}
	return noMatch
}

func hasWordPrefix(loc, q string) bool {
	for _, w := range strings.Fields(loc) {
		if strings.HasPrefix(w, q) {
			return true
		}
	}
	return false
}

func isLatin(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) && r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
