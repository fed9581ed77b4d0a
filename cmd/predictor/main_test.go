package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockcast/internal/recorder"
	"stockcast/internal/shared/testutil"
	"stockcast/pkg/contracts"
)

const directoryConfig = `sources:
  mode: directory
  data_dir: data
  exchanges: [LSE, NASDAQ]
  files_per_category: 1
output:
  dir: outputs
logging:
  level: debug
  format: json
  output: console
`

func readOutput(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestRun_DirectoryMode(t *testing.T) {
	base := t.TempDir()
	cfgPath := testutil.WriteFile(t, base, "config.yaml", directoryConfig)
	testutil.WriteSeriesCSV(t, base, "data/LSE/AAA.csv", "AAA", testutil.Prices(15, 100)...)
	testutil.WriteSeriesCSV(t, base, "data/LSE/BBB.csv", "BBB", testutil.Prices(15, 200)...)
	testutil.WriteSeriesCSV(t, base, "data/NASDAQ/CCC.csv", "CCC", testutil.Prices(4, 50)...)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", cfgPath, "-base", base, "-seed", "42", "-n", "2"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := filepath.Join(base, "outputs")
	for _, name := range []string{"LSE_predicted_AAA.csv", "LSE_predicted_BBB.csv", "NASDAQ_predicted_CCC.csv"} {
		assert.FileExists(t, filepath.Join(out, name))
	}

	records := readOutput(t, filepath.Join(out, "LSE_predicted_AAA.csv"))
	assert.Equal(t, []string{"Stock-ID", "Timestamp", "Price"}, records[0])
	assert.Len(t, records, 1+10+3)

	short := readOutput(t, filepath.Join(out, "NASDAQ_predicted_CCC.csv"))
	assert.Len(t, short, 1+4+3, "short series is used whole")

	logs := stderr.String()
	assert.Contains(t, logs, "Processing exchange")
	assert.Contains(t, logs, "batch_complete")
	assert.Contains(t, logs, `"trace_id"`)
}

func TestRun_WindowTimestampsWrittenAsRead(t *testing.T) {
	base := t.TempDir()
	cfgPath := testutil.WriteFile(t, base, "config.yaml", directoryConfig)
	testutil.WriteFile(t, base, "data/LSE/FLTR.csv",
		"Stock-ID,Timestamp,Price\nFLTR,2024-01-01,10\nFLTR,2024-01-02,12\nFLTR,03-01-2024 10:30,11\n")

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"-config", cfgPath, "-base", base, "-seed", "3"}, &stdout, &stderr), stderr.String())

	records := readOutput(t, filepath.Join(base, "outputs", "LSE_predicted_FLTR.csv"))
	require.Len(t, records, 1+3+3)

	var got []string
	for _, rec := range records[1:] {
		got = append(got, rec[1])
	}
	assert.Equal(t, []string{
		"2024-01-01", "2024-01-02", "03-01-2024 10:30",
		"04-01-2024", "05-01-2024", "06-01-2024",
	}, got)
}

func TestRun_SeedIsReproducible(t *testing.T) {
	outputs := make([]string, 2)
	for i := range outputs {
		base := t.TempDir()
		cfgPath := testutil.WriteFile(t, base, "config.yaml", directoryConfig)
		testutil.WriteSeriesCSV(t, base, "data/LSE/AAA.csv", "AAA", testutil.Prices(40, 10)...)

		var stdout, stderr bytes.Buffer
		require.Equal(t, 0, run([]string{"-config", cfgPath, "-base", base, "-seed", "7"}, &stdout, &stderr), stderr.String())

		data, err := os.ReadFile(filepath.Join(base, "outputs", "LSE_predicted_AAA.csv"))
		require.NoError(t, err)
		outputs[i] = string(data)
	}
	assert.Equal(t, outputs[0], outputs[1])
}

func TestRun_ExplicitModeWithRecorder(t *testing.T) {
	base := t.TempDir()
	testutil.WriteFile(t, base, "series/fltr.csv", testutil.SeriesCSV("FLTR", false, testutil.Prices(12, 16000)...))
	testutil.WriteFile(t, base, "series/bad.csv", "FLTR,not-a-date,1\n")

	cfgPath := testutil.WriteFile(t, base, "config.yaml", `prediction:
  window_size: 5
  workers: 2
sources:
  files:
    - name: LSE_FLTR
      path: series/fltr.csv
    - name: LSE_BAD
      path: series/bad.csv
    - name: LSE_GONE
      path: series/missing.csv
output:
  dir: outputs
recorder:
  sqlite_path: history.db
`)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-config", cfgPath, "-base", base, "-mode", "explicit", "-n", "3", "-seed", "1"}, &stdout, &stderr)
	require.Equal(t, 0, code, "source failures do not fail the run: %s", stderr.String())

	records := readOutput(t, filepath.Join(base, "outputs", "LSE_FLTR.csv"))
	assert.Len(t, records, 1+5+3)
	assert.NoFileExists(t, filepath.Join(base, "outputs", "LSE_BAD.csv"))
	assert.NoFileExists(t, filepath.Join(base, "outputs", "LSE_GONE.csv"))

	logs := stderr.String()
	assert.Contains(t, logs, "Skipping source due to processing failure")
	assert.Contains(t, logs, "PARSE_FAILURE")
	assert.Contains(t, logs, "SOURCE_NOT_FOUND")

	rec, err := recorder.NewSQLiteRecorder(filepath.Join(base, "history.db"), nil)
	require.NoError(t, err)
	defer rec.Close()

	runID := traceIDFrom(t, logs)
	outcomes, err := rec.RunOutcomes(context.Background(), runID)
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	assert.Equal(t, recorder.StatusSucceeded, outcomes[0].Status)
	assert.Equal(t, recorder.StatusFailed, outcomes[1].Status)
	assert.Equal(t, recorder.StatusFailed, outcomes[2].Status)
}

func TestRun_MetricsFile(t *testing.T) {
	base := t.TempDir()
	cfgPath := testutil.WriteFile(t, base, "config.yaml", directoryConfig+`telemetry:
  tracing: none
  metrics: prometheus
  metrics_file: metrics.prom
`)
	testutil.WriteSeriesCSV(t, base, "data/LSE/AAA.csv", "AAA", testutil.Prices(15, 1)...)

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"-config", cfgPath, "-base", base}, &stdout, &stderr), stderr.String())

	data, err := os.ReadFile(filepath.Join(base, "metrics.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "predictor_sources_total")
	assert.Contains(t, string(data), "system_goroutines")
}

func TestRun_Errors(t *testing.T) {
	base := t.TempDir()

	tests := []struct {
		name string
		args []string
		code int
		want string
	}{
		{"unknown flag", []string{"-bogus"}, 2, "flag provided but not defined"},
		{"missing config file", []string{"-config", filepath.Join(base, "nope.yaml")}, 1, "failed to load config"},
		{"invalid mode", []string{"-config", testutil.WriteFile(t, base, "c.yaml", directoryConfig), "-mode", "sideways"}, 1, "Mode must be one of"},
		{"zero limit", []string{"-config", testutil.WriteFile(t, base, "d.yaml", directoryConfig), "-n", "0"}, 1, "FilesPerCategory"},
		{"explicit without files", []string{"-config", testutil.WriteFile(t, base, "e.yaml", directoryConfig), "-mode", "explicit"}, 1, "Files is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, tt.code, run(append(tt.args, "-base", base), &stdout, &stderr))
			assert.Contains(t, stderr.String(), tt.want)
		})
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run([]string{"-version"}, &stdout, &stderr))
	assert.True(t, strings.HasPrefix(stdout.String(), "stockcast predictor v"+contracts.Version))
}

// traceIDFrom pulls the run id out of the JSON log stream
func traceIDFrom(t *testing.T, logs string) string {
	t.Helper()
	const key = `"trace_id":"`
	i := strings.Index(logs, key)
	require.GreaterOrEqual(t, i, 0, "no trace id in logs")
	rest := logs[i+len(key):]
	return rest[:strings.IndexByte(rest, '"')]
}
