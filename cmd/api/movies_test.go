package main

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liliang-cn/movies/internal/data"
)

func TestListMovies(t *testing.T) {
	ts := newTestServer(newTestApplication(t))

	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{"all", "/movies", []string{"m1", "m2", "m3"}},
		{"empty genre means no filter", "/movies?genre=", []string{"m1", "m2", "m3"}},
		{"genre", "/movies?genre=Drama", []string{"m2", "m3"}},
		{"genre case insensitive", "/movies?genre=drama", []string{"m2", "m3"}},
		{"genre with dash", "/movies?genre=SCI-FI", []string{"m1"}},
		{"no match", "/movies?genre=Horror", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.do(t, http.MethodGet, tt.target, "", nil)

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.Equal(t, tt.want, movieIDs(decode[[]data.Movie](t, rr)))
		})
	}
}

func TestListMoviesEmptyIsArray(t *testing.T) {
	ts := newTestServer(newTestApplication(t))

	rr := ts.do(t, http.MethodGet, "/movies?genre=Horror", "", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
}

func TestShowMovie(t *testing.T) {
	ts := newTestServer(newTestApplication(t))

	rr := ts.do(t, http.MethodGet, "/movies/m2", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, *testSeed()[1], decode[data.Movie](t, rr))

	rr = ts.do(t, http.MethodGet, "/movies/missing", "", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, map[string]string{"message": "Movie not founded"}, decode[map[string]string](t, rr))
}

func TestCreateMovie(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(app)

	body := `{"title":"X","year":2020,"director":"Y","duration":90,"poster":"http://a.com/p.jpg","genre":["Drama"]}`
	rr := ts.do(t, http.MethodPost, "/movies", body, map[string]string{"Content-Type": "application/json"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	created := decode[data.Movie](t, rr)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, data.Movie{
		ID:       created.ID,
		Title:    "X",
		Year:     2020,
		Director: "Y",
		Duration: 90,
		Poster:   "http://a.com/p.jpg",
		Genre:    []string{"Drama"},
		Rate:     5,
	}, created)
	assert.Equal(t, "/movies/"+created.ID, rr.Header().Get("Location"))

	rr = ts.do(t, http.MethodGet, "/movies/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, created, decode[data.Movie](t, rr))

	// 新记录追加在末尾
	rr = ts.do(t, http.MethodGet, "/movies", "", nil)
	assert.Equal(t, []string{"m1", "m2", "m3", created.ID}, movieIDs(decode[[]data.Movie](t, rr)))
	assert.Equal(t, 4, app.models.Movies.Len())
}

func TestCreateMovieUniqueIDs(t *testing.T) {
	ts := newTestServer(newTestApplication(t))

	body := `{"title":"X","year":2020,"director":"Y","duration":90,"poster":"http://a.com/p.jpg","genre":["Drama"],"rate":7}`
	seen := map[string]bool{"m1": true, "m2": true, "m3": true}
	for i := 0; i < 10; i++ {
		rr := ts.do(t, http.MethodPost, "/movies", body, nil)
		require.Equal(t, http.StatusCreated, rr.Code)

		created := decode[data.Movie](t, rr)
		assert.False(t, seen[created.ID])
		assert.Equal(t, 7.0, created.Rate)
		seen[created.ID] = true
	}
}

func TestCreateMovieValidation(t *testing.T) {
	ts := newTestServer(newTestApplication(t))

	body := `{"title":"X","year":1899,"director":"Y","duration":0,"poster":"nope","genre":["Western"],"rate":10.1}`
	rr := ts.do(t, http.MethodPost, "/movies", body, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	resp := decode[map[string]map[string]string](t, rr)
	errs := resp["error"]
	assert.Equal(t, "must be greater than or equal to 1900", errs["year"])
	assert.Equal(t, "must be a positive integer", errs["duration"])
	assert.Equal(t, "must be a valid URL", errs["poster"])
	assert.Equal(t, "must be less than or equal to 10", errs["rate"])
	assert.Contains(t, errs["genre.0"], `"Western"`)
	assert.Len(t, errs, 5)

	rr = ts.do(t, http.MethodPost, "/movies", `{}`, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	errs = decode[map[string]map[string]string](t, rr)["error"]
	assert.Equal(t, "must be provided", errs["title"])
	assert.NotContains(t, errs, "rate")
}

func TestCreateMovieBadBody(t *testing.T) {
	ts := newTestServer(newTestApplication(t))

	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"malformed", `{"title":`},
		{"syntax", `{"title" "X"}`},
		{"array", `[1, 2]`},
		{"null", `null`},
		{"two values", `{"title":"X"}{"title":"Y"}`},
		{"too large", `{"title":"` + strings.Repeat("a", 1_048_577) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.do(t, http.MethodPost, "/movies", tt.body, nil)

			require.Equal(t, http.StatusBadRequest, rr.Code)
			resp := decode[map[string]any](t, rr)
			assert.IsType(t, "", resp["error"])
		})
	}
}

func TestUpdateMovie(t *testing.T) {
	ts := newTestServer(newTestApplication(t))

	rr := ts.do(t, http.MethodPatch, "/movies/m2", `{"year":1995,"id":"hijack"}`, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	want := *testSeed()[1]
	want.Year = 1995
	assert.Equal(t, want, decode[data.Movie](t, rr))

	rr = ts.do(t, http.MethodGet, "/movies/m2", "", nil)
	assert.Equal(t, want, decode[data.Movie](t, rr))

	// 位置不变
	rr = ts.do(t, http.MethodGet, "/movies", "", nil)
	assert.Equal(t, []string{"m1", "m2", "m3"}, movieIDs(decode[[]data.Movie](t, rr)))

	// 空对象不修改任何字段
	rr = ts.do(t, http.MethodPatch, "/movies/m1", `{}`, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, *testSeed()[0], decode[data.Movie](t, rr))
}

func TestUpdateMovieErrors(t *testing.T) {
	ts := newTestServer(newTestApplication(t))

	rr := ts.do(t, http.MethodPatch, "/movies/missing", `{"title":"Z"}`, nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, map[string]string{"message": "Movie not founded"}, decode[map[string]string](t, rr))

	// 校验先于查找
	rr = ts.do(t, http.MethodPatch, "/movies/missing", `{"year":"1999"}`, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, map[string]string{"year": "must be an integer"}, decode[map[string]map[string]string](t, rr)["error"])

	rr = ts.do(t, http.MethodPatch, "/movies/m1", `{"genre":["Drama","Musical"]}`, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decode[map[string]map[string]string](t, rr)["error"], "genre.1")

	rr = ts.do(t, http.MethodGet, "/movies/m1", "", nil)
	assert.Equal(t, *testSeed()[0], decode[data.Movie](t, rr))
}

func TestDeleteMovie(t *testing.T) {
	ts := newTestServer(newTestApplication(t))

	rr := ts.do(t, http.MethodDelete, "/movies/m2", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, map[string]string{"message": "Movie deleted"}, decode[map[string]string](t, rr))

	rr = ts.do(t, http.MethodGet, "/movies/m2", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.do(t, http.MethodDelete, "/movies/m2", "", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, map[string]string{"message": "Movie not found"}, decode[map[string]string](t, rr))

	rr = ts.do(t, http.MethodGet, "/movies", "", nil)
	assert.Equal(t, []string{"m1", "m3"}, movieIDs(decode[[]data.Movie](t, rr)))
}

func TestRoutingErrors(t *testing.T) {
	ts := newTestServer(newTestApplication(t))

	rr := ts.do(t, http.MethodGet, "/series", "", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "the requested resource could not be found", decode[map[string]string](t, rr)["error"])

	rr = ts.do(t, http.MethodPut, "/movies/m1", `{}`, nil)
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "the PUT method is not supported for this resource", decode[map[string]string](t, rr)["error"])
}

func TestHealthcheck(t *testing.T) {
	ts := newTestServer(newTestApplication(t))

	rr := ts.do(t, http.MethodGet, "/healthcheck", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	resp := decode[map[string]any](t, rr)
	assert.Equal(t, "available", resp["status"])
	assert.Equal(t, map[string]any{"environment": "testing", "version": version}, resp["system_info"])
}
