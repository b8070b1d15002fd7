package search

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	selectQ = regexp.QuoteMeta(`SELECT query, country, state FROM search_selections WHERE session_id = $1`)
	upsertQ = regexp.QuoteMeta(`INSERT INTO search_selections`)
	deleteQ = regexp.QuoteMeta(`DELETE FROM search_selections WHERE session_id = $1`)
)

func newSvc(t *testing.T) (ISearchService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSearchService(db), mock
}

func TestGet_UnknownSessionIsEmptySelection(t *testing.T) {
	svc, mock := newSvc(t)
	mock.ExpectQuery(selectQ).WithArgs("s1").WillReturnError(sql.ErrNoRows)

	sel, err := svc.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, sel.Query)
	assert.Nil(t, sel.Location)
}

func TestGet_StoredQuerySurvivesReload(t *testing.T) {
	svc, mock := newSvc(t)

	// Simulated persistence reload: a fresh service reads what was stored.
	rows := sqlmock.NewRows([]string{"query", "country", "state"}).
		AddRow("widget", "Portugal", "Lisbon")
	mock.ExpectQuery(selectQ).WithArgs("s1").WillReturnRows(rows)

	sel, err := svc.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "widget", sel.Query)
	require.NotNil(t, sel.Location)
	assert.Equal(t, "Portugal", sel.Location.Country)
}

func TestResolve_URLParametersWinAndAreWrittenBack(t *testing.T) {
	svc, mock := newSvc(t)

	rows := sqlmock.NewRows([]string{"query", "country", "state"}).
		AddRow("widget", nil, nil)
	mock.ExpectQuery(selectQ).WithArgs("s1").WillReturnRows(rows)
	mock.ExpectExec(upsertQ).
		WithArgs("s1", "gadget", "Spain", "Madrid").
		WillReturnResult(sqlmock.NewResult(0, 1))

	sel, err := svc.Resolve(context.Background(), "s1", Params{Country: "Spain", State: "Madrid", Query: "gadget"})
	require.NoError(t, err)
	assert.Equal(t, "gadget", sel.Query, "URL query must override the stored one")
	require.NotNil(t, sel.Location)
	assert.Equal(t, "Spain", sel.Location.Country)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_NoParametersLeavesStoredStateUntouched(t *testing.T) {
	svc, mock := newSvc(t)

	rows := sqlmock.NewRows([]string{"query", "country", "state"}).
		AddRow("widget", nil, nil)
	mock.ExpectQuery(selectQ).WithArgs("s1").WillReturnRows(rows)
	// No upsert expected: resolve without parameters must not write.

	sel, err := svc.Resolve(context.Background(), "s1", Params{})
	require.NoError(t, err)
	assert.Equal(t, "widget", sel.Query)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolve_CountryWithoutStateIsIgnored(t *testing.T) {
	svc, mock := newSvc(t)

	rows := sqlmock.NewRows([]string{"query", "country", "state"}).
		AddRow("", "Portugal", "Lisbon")
	mock.ExpectQuery(selectQ).WithArgs("s1").WillReturnRows(rows)

	sel, err := svc.Resolve(context.Background(), "s1", Params{Country: "Spain"})
	require.NoError(t, err)
	require.NotNil(t, sel.Location)
	assert.Equal(t, "Portugal", sel.Location.Country, "half a location pair must not override")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClear_SingleStatement(t *testing.T) {
	svc, mock := newSvc(t)
	mock.ExpectExec(deleteQ).WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.Clear(context.Background(), "s1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSet_NilLocationStoresNulls(t *testing.T) {
	svc, mock := newSvc(t)
	mock.ExpectExec(upsertQ).
		WithArgs("s1", "widget", nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.Set(context.Background(), "s1", Selection{Query: "widget"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}
