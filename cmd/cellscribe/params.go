package main

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/carbocation/cellscribe/compileinfo"
	"github.com/carbocation/cellscribe/signature"
)

const paramFileName = "param.yaml"

// params is what param.yaml records. Its keys match the flag names, so the
// file can be passed back with --config to repeat a run.
type params struct {
	Data        string `yaml:"data"`
	Populations string `yaml:"populations"`
	Output      string `yaml:"output"`

	// Signature contributes n_markers, fc_threshold, pval_threshold,
	// log2_transform, variance_alpha, workers and verbose.
	Signature signature.Config `yaml:",inline"`

	AllowUnmatchedLabels bool   `yaml:"allow_unmatched_labels"`
	BigQueryProject      string `yaml:"bigquery_project,omitempty"`
	BigQueryTable        string `yaml:"bigquery_table,omitempty"`
	Palette              string `yaml:"palette,omitempty"`

	StartedAt string                  `yaml:"started_at"`
	Build     compileinfo.CompileInfo `yaml:"build"`
}

func newParams(opts options, started time.Time) params {
	return params{
		Data:                 opts.Data,
		Populations:          opts.Populations,
		Output:               opts.Output,
		Signature:            opts.Signature,
		AllowUnmatchedLabels: opts.AllowUnmatchedLabels,
		BigQueryProject:      opts.BigQueryProject,
		BigQueryTable:        opts.BigQueryTable,
		Palette:              opts.Palette,
		StartedAt:            started.Format(time.RFC3339),
		Build:                compileinfo.Get(),
	}
}

func writeParams(dir string, p params) error {
	f, err := os.Create(filepath.Join(dir, paramFileName))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	return f.Close()
}
