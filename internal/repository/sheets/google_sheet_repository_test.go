package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

func newTestRepository(t *testing.T, handler http.HandlerFunc) *GoogleSheetRepository {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	service, err := sheetsapi.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	return newRepository(service, "sheet-123", zap.NewNop())
}

func TestAppendRows(t *testing.T) {
	var (
		gotPath  string
		gotQuery string
		gotBody  sheetsapi.ValueRange
	)
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-123"}`))
	})

	rows := [][]interface{}{
		{"2026-03-01", "Scaffold", 5},
		{"2026-03-01", "Mixer", 1},
	}
	require.NoError(t, repo.AppendRows(context.Background(), "StockReport!A:P", rows))

	assert.True(t, strings.HasPrefix(gotPath, "/v4/spreadsheets/sheet-123/values/"), gotPath)
	assert.True(t, strings.HasSuffix(gotPath, ":append"), gotPath)
	assert.Contains(t, gotQuery, "valueInputOption=USER_ENTERED")
	require.Len(t, gotBody.Values, 2)
	assert.Equal(t, "Mixer", gotBody.Values[1][1])
}

func TestAppendRowsNoopAndValidation(t *testing.T) {
	calls := 0
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	require.NoError(t, repo.AppendRows(context.Background(), "StockReport!A:P", nil))
	assert.Error(t, repo.AppendRows(context.Background(), "", [][]interface{}{{"x"}}))
	assert.Zero(t, calls)

	assert.Error(t, repo.AppendRows(context.Background(), "StockReport!A:P", [][]interface{}{{"x"}}))
}
