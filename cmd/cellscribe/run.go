package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"

	"github.com/carbocation/cellscribe"
	"github.com/carbocation/cellscribe/compileinfo"
	"github.com/carbocation/cellscribe/expression"
	"github.com/carbocation/cellscribe/signature"
	"github.com/carbocation/cellscribe/volcano"
)

const signatureFileName = "signatures.csv"

func run(ctx context.Context, opts options, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	started := time.Now()

	palette, err := volcano.ParsePalette(opts.Palette)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.Output, 0o755); err != nil {
		return err
	}

	restoreLog := configureLogging(opts.Output, opts)
	defer restoreLog()

	log.Println(compileinfo.Get())

	if err := writeParams(opts.Output, newParams(opts, started)); err != nil {
		return err
	}

	fmt.Fprint(stdout, banner+"\n")

	loadOpts := expression.LoadOptions{}
	if cellscribe.IsGoogleStoragePath(opts.Data) || cellscribe.IsGoogleStoragePath(opts.Populations) {
		client, err := storage.NewClient(ctx)
		if err != nil {
			return fmt.Errorf("connecting to Google Storage: %w", err)
		}
		defer client.Close()
		loadOpts.Storage = client
	}

	log.Println("Loading expression matrix from", opts.Data)
	m, err := expression.LoadMatrix(ctx, opts.Data, loadOpts)
	if err != nil {
		return err
	}
	nMolecules, nSamples := m.Dims()
	log.Printf("Loaded %d molecules across %d samples\n", nMolecules, nSamples)

	log.Println("Loading populations from", opts.Populations)
	mapping, err := expression.LoadMapping(ctx, opts.Populations, loadOpts)
	if err != nil {
		return err
	}

	mapping, err = expression.Validate(m, mapping, expression.ValidateOptions{
		AllowUnmatchedLabels: opts.AllowUnmatchedLabels,
	})
	if err != nil {
		return err
	}
	log.Printf("Generating signatures for %d populations\n", len(mapping.Populations()))

	plotter := volcano.NewPlotter(opts.Output)
	plotter.Palette = palette

	engine, err := signature.New(opts.Signature, plotter)
	if err != nil {
		return err
	}

	result, err := engine.Run(ctx, m, mapping)
	if err != nil {
		return err
	}

	for _, d := range result.Diagnostics() {
		log.Println("Warning:", d)
	}

	outPath := filepath.Join(opts.Output, signatureFileName)
	if err := writeSignatures(outPath, result.Table); err != nil {
		return err
	}
	log.Println("Signature results saved in:", outPath)

	if opts.BigQueryTable != "" {
		if err := exportBigQuery(ctx, opts, result.Table); err != nil {
			return err
		}
	}

	signature.WriteSummary(stdout, result)

	log.Printf("Finished in %s\n", time.Since(started).Round(time.Millisecond))

	return nil
}

func writeSignatures(path string, table signature.SignatureTable) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := table.WriteCSV(f); err != nil {
		return err
	}

	return f.Close()
}

func exportBigQuery(ctx context.Context, opts options, table signature.SignatureTable) error {
	dataset, tableName, err := signature.SplitTableName(opts.BigQueryTable)
	if err != nil {
		return err
	}

	BQ, err := signature.NewWrappedBigQuery(ctx, opts.BigQueryProject, dataset)
	if err != nil {
		return err
	}
	defer BQ.Client.Close()

	log.Printf("Loading %d signature rows into %s:%s.%s\n", len(table), BQ.Project, BQ.Database, tableName)

	return signature.UploadBigQuery(BQ, tableName, table)
}
