package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-ingest/internal/model"
)

func TestReadURLs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	content := "https://acme.com\n" +
		"\n" +
		"# staging, skip for now\n" +
		"  https://globex.com  \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	urls, err := readURLs(path)

	require.NoError(t, err)
	assert.Equal(t, []string{"https://acme.com", "https://globex.com"}, urls)
}

func TestReadURLs_MissingFile(t *testing.T) {
	_, err := readURLs(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}

func TestDescribeRecord(t *testing.T) {
	assert.Equal(t, "jane@acme.com", describeRecord(&model.Record{Email: "jane@acme.com", FirstName: "Jane"}))
	assert.Equal(t, "Acme Inc.", describeRecord(&model.Record{Company: model.CompanyInfo{Name: "Acme Inc."}}))
	assert.Equal(t, "Jane Doe", describeRecord(&model.Record{FirstName: "Jane", LastName: "Doe"}))
}
