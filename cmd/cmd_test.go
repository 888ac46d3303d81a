package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/cabs/app"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestRosterLs(t *testing.T) {
	dir := t.TempDir()
	cfg := `
fleet:
  cabs: ["101", "102"]
  customers:
    - id: "201"
      balance: 300
    - id: "202"
`
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))

	out := execute(t, "roster", "ls", "-c", path)
	assert.Contains(t, out, "cab       101")
	assert.Contains(t, out, "cab       102")
	assert.Contains(t, out, "customer  201  300")
	assert.Contains(t, out, "customer  202  10000")
}

func TestSimulateSyntheticRoster(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.yaml")
	out := execute(t, "simulate", "-c", missing, "--rides", "5", "--seed", "9", "--cabs", "4", "--customers", "2", "--max-position", "50")

	var rep app.Report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 5, rep.Requested)
	assert.Equal(t, 5, rep.Matched+rep.Rejected)
}

func TestSyntheticRoster(t *testing.T) {
	r := syntheticRoster(2, 1, 50)
	assert.Equal(t, []string{"cab001", "cab002"}, r.Cabs)
	require.Len(t, r.Customers, 1)
	assert.Equal(t, "cust001", r.Customers[0].ID)
	assert.Equal(t, 50, r.Customers[0].Balance)
}
