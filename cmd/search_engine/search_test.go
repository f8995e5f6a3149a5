package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PSeitz/veloci-sub001/config"
	"github.com/PSeitz/veloci-sub001/internal/engine"
	testutil "github.com/PSeitz/veloci-sub001/internal/testing"
	"github.com/PSeitz/veloci-sub001/services"
)

// persistMovies writes the sample movie index into a fresh data directory.
func persistMovies(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	eng := engine.NewEngine(config.EngineConfig{DataDir: dir})
	testutil.CreateTestIndex(t, eng, "movies")
	return dir
}

func runCommand(t *testing.T, stdin string, args ...string) (services.SearchResult, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	if err := root.Execute(); err != nil {
		return services.SearchResult{}, err
	}
	var result services.SearchResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	return result, nil
}

func TestSearchCommand_Query(t *testing.T) {
	dir := persistMovies(t)

	result, err := runCommand(t, "", "search", "--data-dir", dir, "--index", "movies", "--query", "inception")
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, uint32(1), result.Hits[0].ID)
}

func TestSearchCommand_RequestFile(t *testing.T) {
	dir := persistMovies(t)
	path := filepath.Join(t.TempDir(), "request.json")
	request := `{"search": {"path": "title", "terms": ["matrix"]}}`
	require.NoError(t, os.WriteFile(path, []byte(request), 0600))

	result, err := runCommand(t, "", "search", "--data-dir", dir, "-i", "movies", "-r", path, "--explain")
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, uint32(0), result.Hits[0].ID)
	assert.NotEmpty(t, result.Hits[0].Explain)

	result, err = runCommand(t, request, "search", "--data-dir", dir, "-i", "movies", "-r", "-")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
}

func TestSearchCommand_Errors(t *testing.T) {
	dir := persistMovies(t)

	_, err := runCommand(t, "", "search", "--data-dir", dir, "--index", "missing", "--query", "matrix")
	assert.Error(t, err)

	_, err = runCommand(t, "", "search", "--data-dir", dir, "--index", "movies")
	assert.Error(t, err, "either --query or --request is required")

	_, err = runCommand(t, "{", "search", "--data-dir", dir, "--index", "movies", "--request", "-")
	assert.Error(t, err)
}
