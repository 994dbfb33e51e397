package cmd

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStdout redirects os.Stdout for the duration of fn and returns what
// was written to it, since writeBelief writes directly to os.Stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := os.Stdout
	os.Stdout = w
	fn()
	require.NoError(t, w.Close())
	os.Stdout = orig

	out, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(out)
}

func TestRunPropagate_SingleAlgebraDiamond(t *testing.T) {
	dir := t.TempDir()
	networkCSV := "1,0,0.9,0.9,0\n1,0,0,0,0.9\n1,0,0,0,0.9\n1,0,0,0,0\n"
	networkPath := filepath.Join(dir, "network.csv")
	require.NoError(t, os.WriteFile(networkPath, []byte(networkCSV), 0o644))

	cfg.Set("network", networkPath)
	cfg.Set("probabilities", "")
	cfg.Set("algebra", "point")
	cfg.Set("conditioning.max-set", 0)

	out := captureStdout(t, func() {
		err := runPropagate(nil, nil)
		require.NoError(t, err)
	})

	var belief map[string]float64
	require.NoError(t, json.Unmarshal([]byte(out), &belief))
	assert.InDelta(t, 0.9639, belief["4"], 1e-4)
}

func TestRunPropagate_ParametricInterval(t *testing.T) {
	dir := t.TempDir()
	networkPath := filepath.Join(dir, "network.csv")
	probPath := filepath.Join(dir, "probs.json")
	require.NoError(t, os.WriteFile(networkPath, []byte("0,1,1,0\n0,0,0,1\n0,0,0,1\n0,0,0,0\n"), 0o644))
	require.NoError(t, os.WriteFile(probPath, []byte(`{
		"nodes": {"1":{"lower":1,"upper":1},"2":{"lower":1,"upper":1},"3":{"lower":1,"upper":1},"4":{"lower":1,"upper":1}},
		"edges": {
			"(1,2)":{"lower":0.8,"upper":0.9}, "(1,3)":{"lower":0.8,"upper":0.9},
			"(2,4)":{"lower":0.8,"upper":0.9}, "(3,4)":{"lower":0.8,"upper":0.9}
		}
	}`), 0o644))

	cfg.Set("network", networkPath)
	cfg.Set("probabilities", probPath)
	cfg.Set("algebra", "interval")
	cfg.Set("conditioning.max-set", 0)

	out := captureStdout(t, func() {
		err := runPropagate(nil, nil)
		require.NoError(t, err)
	})

	var belief map[string]struct {
		Lo float64 `json:"lo"`
		Hi float64 `json:"hi"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &belief))
	assert.InDelta(t, 0.8, belief["4"].Lo, 0.2)
	assert.LessOrEqual(t, belief["4"].Lo, belief["4"].Hi)
}

func TestRunPropagate_UnknownAlgebra(t *testing.T) {
	dir := t.TempDir()
	networkPath := filepath.Join(dir, "network.csv")
	require.NoError(t, os.WriteFile(networkPath, []byte("1,0\n"), 0o644))

	cfg.Set("network", networkPath)
	cfg.Set("probabilities", "")
	cfg.Set("algebra", "bogus")

	err := runPropagate(nil, nil)
	assert.Error(t, err)
}
