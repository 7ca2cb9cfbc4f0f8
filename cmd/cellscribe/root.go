package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const rootLongDescription = `CellScribe generates differential-expression marker signatures for
predetermined populations, using expression data from high-throughput
technologies such as mass spectrometry proteomics, single-cell RNA sequencing
or bulk RNA sequencing.

Every population is compared against all other samples. Levene's test decides
between Student's and Welch's t-test, P values are adjusted with the
Benjamini-Hochberg procedure, and the most upregulated molecules become the
population's markers.

Inputs may be local paths or gs:// URLs, and may be gzip, bzip2, zip, xz or
zlib compressed. Every flag can also be set in a yaml --config file (such as a
previous run's param.yaml) or through CELLSCRIBE_<FLAG> environment variables.`

func newRootCmd() *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:          "cellscribe",
		Short:        "Differential-expression marker signatures for sample populations",
		Long:         rootLongDescription,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path := v.GetString(configKey); path != "" {
				v.SetConfigFile(path)
				if err := v.ReadInConfig(); err != nil {
					return err
				}
			}

			opts, err := optionsFromViper(v, time.Now())
			if err != nil {
				return err
			}

			return run(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	configureFlags(cmd, v)

	return cmd
}

func configureFlags(cmd *cobra.Command, v *viper.Viper) {
	f := cmd.Flags()

	f.String(dataKey, "", "Path to the expression matrix (csv, tsv, txt or xls). The first column must be named Identifier and hold the molecule ids; every other column is a sample.")
	f.String(populationsKey, "", "Path to the population file (csv, tsv or txt) with a Label column matching the sample columns of --data and a Population column.")
	f.Int(nMarkersKey, v.GetInt(nMarkersKey), "Number of markers to select per population.")
	f.Float64(fcThresholdKey, v.GetFloat64(fcThresholdKey), "Log2 fold change threshold for differential expression.")
	f.Float64(pvalThresholdKey, v.GetFloat64(pvalThresholdKey), "Adjusted P value threshold for differential expression.")
	f.Bool(log2TransformKey, v.GetBool(log2TransformKey), "Compute fold changes as log2(mean ratio), for data that is not already log transformed.")
	f.Float64(varianceAlphaKey, v.GetFloat64(varianceAlphaKey), "Levene's test P value at or below which Welch's t-test is used instead of Student's.")
	f.Int(workersKey, v.GetInt(workersKey), "Number of populations to analyse concurrently.")
	f.StringP(outputKey, "o", "", "Output directory. Defaults to CellScribe_<YYYY-MM-DD>.")
	f.Bool(allowUnmatchedLabelsKey, v.GetBool(allowUnmatchedLabelsKey), "Drop population labels that have no sample column instead of failing.")
	f.String(configKey, "", "Optional yaml file with values for any of these flags.")
	f.String(bigqueryProjectKey, "", "Google Cloud project for an optional BigQuery export of the signatures.")
	f.String(bigqueryTableKey, "", "BigQuery destination as dataset.table. The table is replaced if it exists.")
	f.String(paletteKey, "", "Volcano plot colours, e.g. up=#daae21,down=#8e68a0,ns=#a7a7a7.")
	f.BoolP(verboseKey, "v", v.GetBool(verboseKey), "Log progress for every population.")

	for _, key := range []string{
		dataKey, populationsKey, nMarkersKey, fcThresholdKey, pvalThresholdKey,
		log2TransformKey, varianceAlphaKey, workersKey, outputKey,
		allowUnmatchedLabelsKey, configKey, bigqueryProjectKey, bigqueryTableKey,
		paletteKey, verboseKey,
	} {
		bindFlag(v, f, key)
	}
}
