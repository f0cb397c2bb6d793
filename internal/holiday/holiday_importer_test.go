package holiday

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestImportYear(t *testing.T) {
	var gotAuth, gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"feriados": [
			{"data": "2025-01-01", "nome": "Confraternização Universal", "tipo": "nacional"},
			{"data": "2025-01-25", "nome": "Aniversário da Cidade", "tipo": "municipal"},
			{"data": "bogus", "nome": "Broken", "tipo": "municipal"}
		]}`))
	}))
	defer server.Close()

	repo := &fakeHolidayRepo{holidays: map[string]bool{}}
	service := NewService(repo, nil, zap.NewNop())
	importer := NewImporter(ImporterConfig{
		BaseURL: server.URL,
		Token:   "secret-token",
		Cities:  []City{{Name: "São Paulo", State: "SP", IBGECode: "3550308"}},
	}, service, zap.NewNop())

	imported, failures, err := importer.ImportYear(context.Background(), 2025)
	require.NoError(t, err)
	assert.Empty(t, failures)
	// The bad date row is skipped, not fatal.
	assert.Equal(t, 2, imported)

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "/api/v1/feriados/cidade/3550308", gotPath)
	assert.Equal(t, "ano=2025", gotQuery)

	require.Len(t, repo.saved, 2)
	// National holidays lose their city so they match everywhere.
	assert.Equal(t, "", repo.saved[0].City)
	assert.Equal(t, "São Paulo", repo.saved[1].City)
	assert.Equal(t, "SP", repo.saved[1].State)
}

func TestImportYearAllCitiesFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	repo := &fakeHolidayRepo{holidays: map[string]bool{}}
	service := NewService(repo, nil, zap.NewNop())
	importer := NewImporter(ImporterConfig{
		BaseURL: server.URL,
		Cities:  []City{{Name: "Curitiba", State: "PR", IBGECode: "4106902"}},
	}, service, zap.NewNop())

	imported, failures, err := importer.ImportYear(context.Background(), 2025)
	assert.Error(t, err)
	assert.Zero(t, imported)
	assert.Equal(t, []string{"Curitiba"}, failures)
}
