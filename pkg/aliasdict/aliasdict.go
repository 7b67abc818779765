// pkg/aliasdict/aliasdict.go
package aliasdict

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// dictionarySchema constrains the alias file to {canonical: [aliases...]}.
const dictionarySchema = `{
	"type": "object",
	"additionalProperties": {
		"type": "array",
		"items": {"type": "string"}
	}
}`

// Dictionary maps a canonical skill term to its alias list. Lookup is
// bidirectional: a term may match as a key or as a member of a value list,
// with a case-insensitive pass as fallback. Keys are scanned in sorted
// order so a term listed under several canonicals always resolves to the
// same one.
type Dictionary struct {
	aliases map[string][]string
	keys    []string
}

// New builds a dictionary from an in-memory alias map. The map is used
// as-is; callers must not mutate it afterwards.
func New(aliases map[string][]string) *Dictionary {
	if aliases == nil {
		aliases = map[string][]string{}
	}
	keys := make([]string, 0, len(aliases))
	for key := range aliases {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return &Dictionary{aliases: aliases, keys: keys}
}

// Load reads and validates an alias dictionary JSON file.
func Load(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias dictionary %s: %w", path, err)
	}

	schemaLoader := gojsonschema.NewStringLoader(dictionarySchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("alias dictionary validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("alias dictionary validation failed: %v", errs)
	}

	var aliases map[string][]string
	if err := json.Unmarshal(data, &aliases); err != nil {
		return nil, fmt.Errorf("failed to parse alias dictionary: %w", err)
	}

	return New(aliases), nil
}

// Len returns the number of canonical entries.
func (d *Dictionary) Len() int {
	return len(d.aliases)
}

// Expand resolves a skill term to itself plus every known synonym. Rules
// are tried in order and the first hit wins:
//  1. exact key match
//  2. exact membership in a value list
//  3. case-insensitive key match
//  4. case-insensitive membership in a value list
//
// No match returns just the original term.
func (d *Dictionary) Expand(skill string) []string {
	out := []string{skill}

	if vals, ok := d.aliases[skill]; ok {
		return appendUnique(out, vals...)
	}

	for _, key := range d.keys {
		if vals := d.aliases[key]; contains(vals, skill) {
			out = appendUnique(out, key)
			return appendUnique(out, vals...)
		}
	}

	for _, key := range d.keys {
		if strings.EqualFold(key, skill) {
			out = appendUnique(out, key)
			return appendUnique(out, d.aliases[key]...)
		}
	}

	for _, key := range d.keys {
		if vals := d.aliases[key]; containsFold(vals, skill) {
			out = appendUnique(out, key)
			return appendUnique(out, vals...)
		}
	}

	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func appendUnique(dst []string, items ...string) []string {
	for _, item := range items {
		if !contains(dst, item) {
			dst = append(dst, item)
		}
	}
	return dst
}
