package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/carbocation/cellscribe/signature"
)

const (
	envPrefix = "CELLSCRIBE"

	dataKey                 = "data"
	populationsKey          = "populations"
	nMarkersKey             = "n_markers"
	fcThresholdKey          = "fc_threshold"
	pvalThresholdKey        = "pval_threshold"
	log2TransformKey        = "log2_transform"
	varianceAlphaKey        = "variance_alpha"
	workersKey              = "workers"
	outputKey               = "output"
	allowUnmatchedLabelsKey = "allow_unmatched_labels"
	configKey               = "config"
	bigqueryProjectKey      = "bigquery_project"
	bigqueryTableKey        = "bigquery_table"
	paletteKey              = "palette"
	verboseKey              = "verbose"

	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true

	outputDirPrefix = "CellScribe_"
)

// newViper returns a viper instance with every default set and CELLSCRIBE_*
// environment variables enabled.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	def := signature.DefaultConfig()
	v.SetDefault(nMarkersKey, def.NTopMarkers)
	v.SetDefault(fcThresholdKey, def.FCThreshold)
	v.SetDefault(pvalThresholdKey, def.PValThreshold)
	v.SetDefault(log2TransformKey, def.Log2Transform)
	v.SetDefault(varianceAlphaKey, def.VarianceAlpha)
	v.SetDefault(workersKey, def.Workers)
	v.SetDefault(allowUnmatchedLabelsKey, false)
	v.SetDefault(verboseKey, false)

	v.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	v.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	v.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	v.SetDefault(logCompressKey, defaultLogCompress)

	return v
}

// bindFlag wires a cobra flag to a viper key so that config files and the
// environment can supply it.
func bindFlag(v *viper.Viper, flags *pflag.FlagSet, key string) {
	flag := flags.Lookup(key)
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(v.BindPFlag(key, flag))
}

// options is the resolved configuration of one run.
type options struct {
	Data        string
	Populations string
	Output      string

	Signature            signature.Config
	AllowUnmatchedLabels bool

	BigQueryProject string
	BigQueryTable   string
	Palette         string

	LogMaxSize    int
	LogMaxBackups int
	LogMaxAge     int
	LogCompress   bool
}

func optionsFromViper(v *viper.Viper, now time.Time) (options, error) {
	opts := options{
		Data:        strings.TrimSpace(v.GetString(dataKey)),
		Populations: strings.TrimSpace(v.GetString(populationsKey)),
		Output:      strings.TrimSpace(v.GetString(outputKey)),
		Signature: signature.Config{
			NTopMarkers:   v.GetInt(nMarkersKey),
			FCThreshold:   v.GetFloat64(fcThresholdKey),
			PValThreshold: v.GetFloat64(pvalThresholdKey),
			Log2Transform: v.GetBool(log2TransformKey),
			VarianceAlpha: v.GetFloat64(varianceAlphaKey),
			Workers:       v.GetInt(workersKey),
			Verbose:       v.GetBool(verboseKey),
		},
		AllowUnmatchedLabels: v.GetBool(allowUnmatchedLabelsKey),
		BigQueryProject:      strings.TrimSpace(v.GetString(bigqueryProjectKey)),
		BigQueryTable:        strings.TrimSpace(v.GetString(bigqueryTableKey)),
		Palette:              v.GetString(paletteKey),
		LogMaxSize:           v.GetInt(logMaxSizeKey),
		LogMaxBackups:        v.GetInt(logMaxBackupsKey),
		LogMaxAge:            v.GetInt(logMaxAgeKey),
		LogCompress:          v.GetBool(logCompressKey),
	}

	if opts.Data == "" {
		return opts, fmt.Errorf("--%s is required: the path to the expression matrix", dataKey)
	}
	if opts.Populations == "" {
		return opts, fmt.Errorf("--%s is required: the path to the population file", populationsKey)
	}
	if opts.Output == "" {
		opts.Output = defaultOutputDir(now)
	}

	if (opts.BigQueryProject == "") != (opts.BigQueryTable == "") {
		return opts, fmt.Errorf("--%s and --%s must be set together", bigqueryProjectKey, bigqueryTableKey)
	}
	if opts.BigQueryTable != "" {
		if _, _, err := signature.SplitTableName(opts.BigQueryTable); err != nil {
			return opts, err
		}
	}

	if err := opts.Signature.Validate(); err != nil {
		return opts, err
	}

	return opts, nil
}

func defaultOutputDir(now time.Time) string {
	return outputDirPrefix + now.Format("2006-01-02")
}
