package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom_EmptyRows(t *testing.T) {
	n, err := CopyFrom(context.TODO(), nil, "prospects", []string{"email", "first_name"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestCopyFrom_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"prospects"}, []string{"email", "first_name"}).WillReturnResult(3)

	rows := [][]any{
		{"a@acme.com", "Ann"},
		{"b@acme.com", "Bob"},
		{"c@acme.com", "Cat"},
	}
	n, err := CopyFrom(context.Background(), mock, "prospects", []string{"email", "first_name"}, rows)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"prospects"}, []string{"email"}).WillReturnError(fmt.Errorf("copy failed"))

	_, err = CopyFrom(context.Background(), mock, "prospects", []string{"email"}, [][]any{{"a@acme.com"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO prospects")
	assert.NoError(t, mock.ExpectationsWereMet())
}
