package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/carbocation/cellscribe/signature"
)

var testDay = time.Date(2024, time.March, 5, 14, 0, 0, 0, time.UTC)

func TestOptionsDefaults(t *testing.T) {
	v := newViper()
	v.Set(dataKey, "counts.csv")
	v.Set(populationsKey, "populations.csv")

	opts, err := optionsFromViper(v, testDay)
	require.NoError(t, err)
	require.Equal(t, "CellScribe_2024-03-05", opts.Output)
	require.Equal(t, signature.DefaultConfig(), opts.Signature)
	require.Equal(t, defaultLogMaxSize, opts.LogMaxSize)
	require.True(t, opts.LogCompress)
}

func TestOptionsFromEnvironment(t *testing.T) {
	t.Setenv("CELLSCRIBE_N_MARKERS", "12")
	t.Setenv("CELLSCRIBE_LOG2_TRANSFORM", "true")
	t.Setenv("CELLSCRIBE_LOG_MAX_AGE", "7")

	v := newViper()
	v.Set(dataKey, "counts.csv")
	v.Set(populationsKey, "populations.csv")

	opts, err := optionsFromViper(v, testDay)
	require.NoError(t, err)
	require.Equal(t, 12, opts.Signature.NTopMarkers)
	require.True(t, opts.Signature.Log2Transform)
	require.Equal(t, 7, opts.LogMaxAge)
}

func TestOptionsRejected(t *testing.T) {
	truthTable := []struct {
		Name string
		Set  map[string]interface{}
	}{
		{"no data", map[string]interface{}{populationsKey: "p.csv"}},
		{"no populations", map[string]interface{}{dataKey: "d.csv"}},
		{"bigquery table without project", map[string]interface{}{dataKey: "d.csv", populationsKey: "p.csv", bigqueryTableKey: "ds.tbl"}},
		{"malformed bigquery table", map[string]interface{}{dataKey: "d.csv", populationsKey: "p.csv", bigqueryProjectKey: "proj", bigqueryTableKey: "tbl"}},
	}

	for _, v := range truthTable {
		t.Run(v.Name, func(t *testing.T) {
			vp := newViper()
			for key, value := range v.Set {
				vp.Set(key, value)
			}
			_, err := optionsFromViper(vp, testDay)
			require.Error(t, err)
		})
	}

	t.Run("invalid signature parameter", func(t *testing.T) {
		vp := newViper()
		vp.Set(dataKey, "d.csv")
		vp.Set(populationsKey, "p.csv")
		vp.Set(pvalThresholdKey, 1.5)

		_, err := optionsFromViper(vp, testDay)
		var cerr *signature.ConfigurationError
		require.True(t, errors.As(err, &cerr))
		require.Equal(t, pvalThresholdKey, cerr.Field)
	})
}

const (
	testMatrix = `Identifier,A_1,A_2,B_1,B_2
M1,10,10.2,2,2.2
M2,5,5,5,5
M3,1,1,1,1
`
	testPopulations = `Label,Population
A_1,A
A_2,A
B_1,B
B_2,B
`
)

func writeInputs(t *testing.T) (data, populations string) {
	t.Helper()

	dir := t.TempDir()
	data = filepath.Join(dir, "counts.csv")
	populations = filepath.Join(dir, "populations.csv")
	require.NoError(t, os.WriteFile(data, []byte(testMatrix), 0o644))
	require.NoError(t, os.WriteFile(populations, []byte(testPopulations), 0o644))

	return data, populations
}

func requireSignatures(t *testing.T, dir string) {
	t.Helper()

	body, err := os.ReadFile(filepath.Join(dir, signatureFileName))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "Marker,Log2FoldChange,PValue,PAdjusted,Threshold,Population", lines[0])
	require.True(t, strings.HasPrefix(lines[1], "M1,"), lines[1])
	require.True(t, strings.HasSuffix(lines[1], ",Up,A"), lines[1])
}

func TestRun(t *testing.T) {
	data, populations := writeInputs(t)

	cfg := signature.DefaultConfig()
	cfg.NTopMarkers = 1
	out := filepath.Join(t.TempDir(), "results")

	var stdout bytes.Buffer
	err := run(context.Background(), options{
		Data:          data,
		Populations:   populations,
		Output:        out,
		Signature:     cfg,
		LogMaxSize:    defaultLogMaxSize,
		LogMaxBackups: defaultLogMaxBackups,
		LogMaxAge:     defaultLogMaxAge,
	}, &stdout)
	require.NoError(t, err)

	requireSignatures(t, out)
	require.FileExists(t, filepath.Join(out, "volcano_A.png"))
	require.FileExists(t, filepath.Join(out, "volcano_B.png"))
	require.FileExists(t, filepath.Join(out, logFileName))

	body, err := os.ReadFile(filepath.Join(out, paramFileName))
	require.NoError(t, err)
	var p params
	require.NoError(t, yaml.Unmarshal(body, &p))
	require.Equal(t, 1, p.Signature.NTopMarkers)
	require.Equal(t, 0.05, p.Signature.PValThreshold)
	require.Equal(t, data, p.Data)

	// The engine settings are written under the flag names.
	require.Contains(t, string(body), "n_markers: 1\n")
	require.Contains(t, string(body), "variance_alpha: 0.05\n")
	require.NotContains(t, string(body), "signature:")

	require.Contains(t, stdout.String(), "Population")
}

func TestRunValidationFailure(t *testing.T) {
	data, _ := writeInputs(t)
	populations := filepath.Join(t.TempDir(), "populations.csv")
	require.NoError(t, os.WriteFile(populations, []byte("Label,Population\nA_1,A\nA_2,A\nB_1,A\nB_2,A\n"), 0o644))

	err := run(context.Background(), options{
		Data:        data,
		Populations: populations,
		Output:      t.TempDir(),
		Signature:   signature.DefaultConfig(),
	}, &bytes.Buffer{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "two populations")
}

func TestRootCommandReusesParams(t *testing.T) {
	data, populations := writeInputs(t)
	first := filepath.Join(t.TempDir(), "first")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--data", data, "--populations", populations, "--output", first, "--n_markers", "1"})
	require.NoError(t, cmd.Execute())
	requireSignatures(t, first)

	// A previous param.yaml supplies every setting except the output.
	second := filepath.Join(t.TempDir(), "second")
	cmd = newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", filepath.Join(first, paramFileName), "--output", second})
	require.NoError(t, cmd.Execute())
	requireSignatures(t, second)

	a, err := os.ReadFile(filepath.Join(first, signatureFileName))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(second, signatureFileName))
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestRootCommandRejectsBadPalette(t *testing.T) {
	data, populations := writeInputs(t)

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--data", data, "--populations", populations, "--output", t.TempDir(), "--palette", "up=gold"})
	require.Error(t, cmd.Execute())
}
