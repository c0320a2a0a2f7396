package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/liliang-cn/movies/internal/data"
	"github.com/liliang-cn/movies/internal/jsonlog"
)

func testSeed() []*data.Movie {
	return []*data.Movie{
		{ID: "m1", Title: "Inception", Year: 2010, Director: "Christopher Nolan", Duration: 148, Poster: "http://a.com/1.jpg", Genre: []string{"Action", "Sci-Fi"}, Rate: 8.8},
		{ID: "m2", Title: "Forrest Gump", Year: 1994, Director: "Robert Zemeckis", Duration: 142, Poster: "http://a.com/2.jpg", Genre: []string{"Drama", "Romance"}, Rate: 8.8},
		{ID: "m3", Title: "Pulp Fiction", Year: 1994, Director: "Quentin Tarantino", Duration: 154, Poster: "http://a.com/3.jpg", Genre: []string{"Crime", "Drama"}, Rate: 8.9},
	}
}

func newTestApplication(t *testing.T) *application {
	t.Helper()

	var cfg config
	cfg.env = "testing"
	cfg.cors.trustedOrigins = defaultTrustedOrigins

	app := &application{
		config:   cfg,
		logger:   jsonlog.New(io.Discard, jsonlog.LevelOff),
		models:   data.NewModels(testSeed()),
		shutdown: make(chan struct{}),
	}
	t.Cleanup(func() { close(app.shutdown) })

	return app
}

type testServer struct {
	handler http.Handler
}

func newTestServer(app *application) *testServer {
	return &testServer{handler: app.routes()}
}

// do 发送请求，body 为空字符串时不带请求体
func (ts *testServer) do(t *testing.T, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, r)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func movieIDs(movies []data.Movie) []string {
	ids := make([]string, 0, len(movies))
	for _, m := range movies {
		ids = append(ids, m.ID)
	}
	return ids
}
