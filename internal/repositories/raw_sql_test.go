package repositories

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindIndexed(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		params   []any
		wantSQL  string
		wantArgs []any
		wantErr  bool
	}{
		{
			name:     "no placeholders",
			query:    "SELECT * FROM products WHERE price > ?",
			params:   []any{50},
			wantSQL:  "SELECT * FROM products WHERE price > ?",
			wantArgs: []any{50},
		},
		{
			name:     "single placeholder",
			query:    "SELECT * FROM products WHERE price > {0}",
			params:   []any{50},
			wantSQL:  "SELECT * FROM products WHERE price > ?",
			wantArgs: []any{50},
		},
		{
			name:     "reordered and repeated",
			query:    "SELECT * FROM products WHERE price BETWEEN {1} AND {0} OR id = {1}",
			params:   []any{100, 10},
			wantSQL:  "SELECT * FROM products WHERE price BETWEEN ? AND ? OR id = ?",
			wantArgs: []any{10, 100, 10},
		},
		{
			name:    "index out of range",
			query:   "SELECT * FROM products WHERE id = {2}",
			params:  []any{1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSQL, gotArgs, err := bindIndexed(tt.query, tt.params)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, gotSQL)
			assert.Equal(t, tt.wantArgs, gotArgs)
		})
	}
}

func TestBuildProcedureCall(t *testing.T) {
	statement, args, err := buildProcedureCall("get_products", nil)
	require.NoError(t, err)
	assert.Equal(t, "EXEC get_products", statement)
	assert.Empty(t, args)

	statement, args, err = buildProcedureCall("catalog.find_products", []any{"widget", 50})
	require.NoError(t, err)
	assert.Equal(t, "EXEC catalog.find_products @p0, @p1", statement)
	assert.Equal(t, []any{sql.Named("p0", "widget"), sql.Named("p1", 50)}, args)

	for _, name := range []string{"drop table x", "x;--", "1abc", "a.b.c", "name'"} {
		_, _, err := buildProcedureCall(name, nil)
		assert.ErrorIs(t, err, ErrInvalidArgument, name)
	}
}
