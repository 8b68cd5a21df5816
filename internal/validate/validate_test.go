package validate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-ingest/internal/model"
)

func TestRecord_Valid(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	msgs, err := v.Record(&model.Record{
		Email:     "jane@acme.com",
		FirstName: "Jane",
		LastName:  "Doe",
		Company: model.CompanyInfo{
			Name:          "Acme Inc.",
			Domain:        "acme.com",
			EmployeeCount: 250,
			FoundedYear:   1998,
		},
		Custom: map[string]string{"campaign": "q3"},
	})

	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestRecord_EmptyEmail(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	msgs, err := v.Record(&model.Record{FirstName: "Jane"})

	require.NoError(t, err)
	require.NotEmpty(t, msgs)
	assert.True(t, strings.Contains(strings.Join(msgs, "; "), "email"))
}

func TestRecord_BadFoundedYear(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	msgs, err := v.Record(&model.Record{
		Email:   "jane@acme.com",
		Company: model.CompanyInfo{Name: "Acme Inc.", FoundedYear: 1500},
	})

	require.NoError(t, err)
	require.NotEmpty(t, msgs)
	assert.Contains(t, strings.Join(msgs, "; "), "founded_year")
}

func TestRecord_OverlongField(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	msgs, err := v.Record(&model.Record{
		Email:     "jane@acme.com",
		FirstName: strings.Repeat("a", 101),
	})

	require.NoError(t, err)
	require.NotEmpty(t, msgs)
	assert.Contains(t, strings.Join(msgs, "; "), "first_name")
}

func TestNewFromFile(t *testing.T) {
	schema := `{
	  "type": "object",
	  "required": ["email", "company"],
	  "properties": {
	    "email": {"type": "string"},
	    "company": {
	      "type": "object",
	      "required": ["name"]
	    }
	  }
	}`
	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(schema), 0o644))

	v, err := NewFromFile(path)
	require.NoError(t, err)

	msgs, err := v.Record(&model.Record{Email: "jane@acme.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, msgs)

	msgs, err = v.Record(&model.Record{Email: "jane@acme.com", Company: model.CompanyInfo{Name: "Acme Inc."}})
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestNewFromFile_Missing(t *testing.T) {
	_, err := NewFromFile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.ErrorContains(t, err, "read schema")
}

func TestNewFromFile_BadSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFromFile(path)
	require.Error(t, err)
}
