// pkg/aliasdict/aliasdict_test.go
package aliasdict

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func testDictionary() *Dictionary {
	return New(map[string][]string{
		"Python":     {"python3", "py"},
		"JavaScript": {"JS", "ECMAScript"},
		"Go":         {"golang"},
	})
}

// ==========================
// Expand Tests
// ==========================

func TestExpand_ExactKeyMatch(t *testing.T) {
	d := testDictionary()

	got := d.Expand("Python")

	assert.Equal(t, []string{"Python", "python3", "py"}, got)
}

func TestExpand_ValueMembership(t *testing.T) {
	d := testDictionary()

	got := d.Expand("golang")

	assert.Contains(t, got, "golang")
	assert.Contains(t, got, "Go")
}

func TestExpand_CaseInsensitiveKey(t *testing.T) {
	d := testDictionary()

	got := d.Expand("javascript")

	assert.Contains(t, got, "javascript")
	assert.Contains(t, got, "JavaScript")
	assert.Contains(t, got, "JS")
	assert.Contains(t, got, "ECMAScript")
}

func TestExpand_CaseInsensitiveAlias(t *testing.T) {
	d := testDictionary()

	got := d.Expand("js")

	assert.Contains(t, got, "js")
	assert.Contains(t, got, "JavaScript")
}

func TestExpand_NoMatchReturnsSelfOnly(t *testing.T) {
	d := testDictionary()

	got := d.Expand("Rust")

	assert.Equal(t, []string{"Rust"}, got)
}

func TestExpand_ExactKeyWinsOverCaseInsensitive(t *testing.T) {
	d := New(map[string][]string{
		"go": {"gopher"},
		"Go": {"golang"},
	})

	got := d.Expand("Go")

	assert.Contains(t, got, "golang")
	assert.NotContains(t, got, "gopher")
}

func TestExpand_MultiMembershipIsDeterministic(t *testing.T) {
	d := New(map[string][]string{
		"TypeScript": {"ts", "ECMAScript"},
		"JavaScript": {"JS", "ECMAScript"},
	})

	first := d.Expand("ECMAScript")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, d.Expand("ECMAScript"))
	}
	// Keys are scanned in sorted order, so JavaScript wins.
	assert.Contains(t, first, "JavaScript")
	assert.NotContains(t, first, "TypeScript")
}

func TestExpand_EmptyDictionary(t *testing.T) {
	d := New(nil)

	assert.Equal(t, []string{"Python"}, d.Expand("Python"))
}

// ==========================
// Load Tests
// ==========================

func TestLoad_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Python": ["py"]}`), 0o644))

	d, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())
	assert.Equal(t, []string{"Python", "py"}, d.Expand("Python"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))

	assert.Error(t, err)
}

func TestLoad_SchemaViolation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Python": "py"}`), 0o644))

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o644))

	_, err := Load(path)

	assert.Error(t, err)
}
