package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooks_CreateThenGet(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerUser(t, "alice@example.com")

	createResp := ts.api.Post("/rpc/books.create",
		"Authorization: Bearer "+token,
		map[string]any{
			"title":         "Dune",
			"author":        "Frank Herbert",
			"publishedYear": 1965,
		},
	)
	require.Equal(t, http.StatusOK, createResp.Code, createResp.Body.String())

	var created testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(createResp.Body.Bytes(), &created))
	require.True(t, created.Success)
	assert.Equal(t, "Dune", created.Data.Title)
	assert.Equal(t, "Frank Herbert", created.Data.Author)
	require.NotNil(t, created.Data.PublishedYear)
	assert.Equal(t, 1965, *created.Data.PublishedYear)
	assert.Positive(t, created.Data.ID)

	getResp := ts.api.Post("/rpc/books.get", map[string]any{"id": created.Data.ID})
	require.Equal(t, http.StatusOK, getResp.Code)

	var fetched testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(getResp.Body.Bytes(), &fetched))
	assert.Equal(t, created.Data, fetched.Data)
}

func TestBooks_MutationsRequireAuth(t *testing.T) {
	ts := setupTestServer(t)

	cases := []struct {
		name    string
		path    string
		payload map[string]any
	}{
		{"create", "/rpc/books.create", map[string]any{"title": "Dune", "author": "Frank Herbert"}},
		{"update", "/rpc/books.update", map[string]any{"id": 1, "data": map[string]any{"title": "Dune"}}},
		{"delete", "/rpc/books.delete", map[string]any{"id": 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := ts.api.Post(tc.path, tc.payload)
			assert.Equal(t, http.StatusUnauthorized, resp.Code)
		})
	}
}

func TestBooks_ReadsArePublic(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/rpc/books.list", map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListBooksResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, 0, envelope.Data.Total)
	assert.NotNil(t, envelope.Data.Data)
}

func TestBooks_CreateValidation(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerUser(t, "alice@example.com")

	resp := ts.api.Post("/rpc/books.create",
		"Authorization: Bearer "+token,
		map[string]any{"title": "", "author": "", "publishedYear": 1700},
	)
	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "VALIDATION", envelope.Code)
	assert.NotNil(t, envelope.Details)
}

func TestBooks_GetNotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/rpc/books.get", map[string]any{"id": 999})
	require.Equal(t, http.StatusNotFound, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "NOT_FOUND", envelope.Code)
}

func TestBooks_UpdatePartial(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerUser(t, "alice@example.com")

	createResp := ts.api.Post("/rpc/books.create",
		"Authorization: Bearer "+token,
		map[string]any{"title": "Dune", "author": "Frank Herbert", "publishedYear": 1965},
	)
	require.Equal(t, http.StatusOK, createResp.Code)
	var created testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(createResp.Body.Bytes(), &created))

	updateResp := ts.api.Post("/rpc/books.update",
		"Authorization: Bearer "+token,
		map[string]any{"id": created.Data.ID, "data": map[string]any{"title": "Dune Messiah"}},
	)
	require.Equal(t, http.StatusOK, updateResp.Code, updateResp.Body.String())

	var updated testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(updateResp.Body.Bytes(), &updated))
	assert.Equal(t, "Dune Messiah", updated.Data.Title)
	assert.Equal(t, "Frank Herbert", updated.Data.Author)
	require.NotNil(t, updated.Data.PublishedYear)
	assert.Equal(t, 1965, *updated.Data.PublishedYear)
}

func TestBooks_UpdateEmptyPatchIsNoOp(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerUser(t, "alice@example.com")

	createResp := ts.api.Post("/rpc/books.create",
		"Authorization: Bearer "+token,
		map[string]any{"title": "Dune", "author": "Frank Herbert", "publishedYear": 1965},
	)
	require.Equal(t, http.StatusOK, createResp.Code)
	var created testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(createResp.Body.Bytes(), &created))

	updateResp := ts.api.Post("/rpc/books.update",
		"Authorization: Bearer "+token,
		map[string]any{"id": created.Data.ID, "data": map[string]any{}},
	)
	require.Equal(t, http.StatusOK, updateResp.Code, updateResp.Body.String())

	var updated testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(updateResp.Body.Bytes(), &updated))
	assert.Equal(t, created.Data, updated.Data)
}

func TestBooks_DeleteReturnsDeletedBook(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerUser(t, "alice@example.com")

	createResp := ts.api.Post("/rpc/books.create",
		"Authorization: Bearer "+token,
		map[string]any{"title": "Dune", "author": "Frank Herbert"},
	)
	require.Equal(t, http.StatusOK, createResp.Code)
	var created testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(createResp.Body.Bytes(), &created))

	deleteResp := ts.api.Post("/rpc/books.delete",
		"Authorization: Bearer "+token,
		map[string]any{"id": created.Data.ID},
	)
	require.Equal(t, http.StatusOK, deleteResp.Code)

	var deleted testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(deleteResp.Body.Bytes(), &deleted))
	assert.Equal(t, created.Data.ID, deleted.Data.ID)
	assert.Equal(t, "Dune", deleted.Data.Title)

	getResp := ts.api.Post("/rpc/books.get", map[string]any{"id": created.Data.ID})
	assert.Equal(t, http.StatusNotFound, getResp.Code)
}

func TestBooks_ListPagination(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerUser(t, "alice@example.com")

	titles := []string{"A", "B", "C", "D", "E"}
	for _, title := range titles {
		resp := ts.api.Post("/rpc/books.create",
			"Authorization: Bearer "+token,
			map[string]any{"title": title, "author": "Author"},
		)
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := ts.api.Post("/rpc/books.list", map[string]any{"page": 2, "limit": 2})
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListBooksResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, 5, envelope.Data.Total)
	assert.Equal(t, 2, envelope.Data.Page)
	assert.Equal(t, 2, envelope.Data.Limit)
	require.Len(t, envelope.Data.Data, 2)
	assert.Equal(t, "C", envelope.Data.Data[0].Title)
	assert.Equal(t, "D", envelope.Data.Data[1].Title)
}

func TestBooks_ListLimitClamped(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/rpc/books.list", map[string]any{"limit": 500})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[ListBooksResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Less(t, envelope.Data.Limit, 100)
}
