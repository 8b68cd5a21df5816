package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-ingest/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_SaveAndGet(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	rec := &model.Record{
		Email:     "jane.doe@acme.com",
		FirstName: "Jane",
		LastName:  "Doe",
		JobTitle:  "VP Sales",
		Company:   model.CompanyInfo{Name: "Acme Inc.", Domain: "acme.com"},
		Custom:    map[string]string{"source": "conference"},
	}
	require.NoError(t, st.SaveRecords(ctx, []*model.Record{rec}))

	got, err := st.GetByEmail(ctx, "jane.doe@acme.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Jane", got.FirstName)
	assert.Equal(t, "Acme Inc.", got.Company.Name)
	assert.Equal(t, "conference", got.Custom["source"])
}

func TestSQLite_GetByEmail_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	got, err := st.GetByEmail(context.Background(), "nobody@acme.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_Upsert_FillsOnlyEmptyFields(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	first := &model.Record{
		Email:     "jane.doe@acme.com",
		FirstName: "Jane",
		JobTitle:  "VP Sales",
		Company:   model.CompanyInfo{Name: "Acme Inc."},
	}
	require.NoError(t, st.SaveRecords(ctx, []*model.Record{first}))

	// Second save carries a last name but no job title. The title must
	// survive, the last name must land.
	second := &model.Record{
		Email:    "jane.doe@acme.com",
		LastName: "Doe",
		Phone:    "5551234567",
	}
	require.NoError(t, st.SaveRecords(ctx, []*model.Record{second}))

	got, err := st.GetByEmail(ctx, "jane.doe@acme.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Jane", got.FirstName)
	assert.Equal(t, "Doe", got.LastName)
	assert.Equal(t, "VP Sales", got.JobTitle)
	assert.Equal(t, "5551234567", got.Phone)
	assert.Equal(t, "Acme Inc.", got.Company.Name)

	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSQLite_SaveRecords_NoEmailRowsCoexist(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	records := []*model.Record{
		{Company: model.CompanyInfo{Name: "Globex", Domain: "globex.com"}},
		{Company: model.CompanyInfo{Name: "Initech", Domain: "initech.com"}},
	}
	require.NoError(t, st.SaveRecords(ctx, records))

	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSQLite_List_FilterByDomain(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	records := []*model.Record{
		{Email: "a@acme.com", Company: model.CompanyInfo{Name: "Acme Inc.", Domain: "acme.com"}},
		{Email: "b@acme.com", Company: model.CompanyInfo{Name: "Acme Inc.", Domain: "acme.com"}},
		{Email: "c@globex.com", Company: model.CompanyInfo{Name: "Globex", Domain: "globex.com"}},
	}
	require.NoError(t, st.SaveRecords(ctx, records))

	acme, err := st.List(ctx, RecordFilter{Domain: "acme.com"})
	require.NoError(t, err)
	assert.Len(t, acme, 2)

	globex, err := st.List(ctx, RecordFilter{Company: "Globex"})
	require.NoError(t, err)
	require.Len(t, globex, 1)
	assert.Equal(t, "c@globex.com", globex[0].Email)
}

func TestSQLite_List_Limit(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	var records []*model.Record
	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		records = append(records, &model.Record{Email: email})
	}
	require.NoError(t, st.SaveRecords(ctx, records))

	got, err := st.List(ctx, RecordFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSQLite_SaveRecords_Empty(t *testing.T) {
	st := newTestSQLiteStore(t)
	require.NoError(t, st.SaveRecords(context.Background(), nil))
}
