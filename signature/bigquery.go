package signature

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
)

// WrappedBigQuery bundles a BigQuery client with the dataset that signature
// tables are loaded into.
type WrappedBigQuery struct {
	Context  context.Context
	Client   *bigquery.Client
	Project  string
	Database string
}

// NewWrappedBigQuery connects to project and targets dataset.
func NewWrappedBigQuery(ctx context.Context, project, dataset string) (*WrappedBigQuery, error) {
	client, err := bigquery.NewClient(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("connecting to BigQuery: %w", err)
	}

	return &WrappedBigQuery{
		Context:  ctx,
		Client:   client,
		Project:  project,
		Database: dataset,
	}, nil
}

// SplitTableName splits "dataset.table" into its parts.
func SplitTableName(name string) (dataset, table string, err error) {
	parts := strings.Split(name, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", &ConfigurationError{Field: "bigquery_table", Reason: fmt.Sprintf("expected dataset.table, got %q", name)}
	}

	return parts[0], parts[1], nil
}

// SignatureSchema is the BigQuery schema of a SignatureTable.
var SignatureSchema = bigquery.Schema{
	{Name: "Marker", Type: bigquery.StringFieldType, Required: true},
	{Name: "Log2FoldChange", Type: bigquery.FloatFieldType},
	{Name: "PValue", Type: bigquery.FloatFieldType},
	{Name: "PAdjusted", Type: bigquery.FloatFieldType},
	{Name: "Threshold", Type: bigquery.StringFieldType},
	{Name: "Population", Type: bigquery.StringFieldType, Required: true},
}

// loadSource renders the table as CSV for a BigQuery load job. NaN values
// are left empty, which a CSV load reads as NULL in a nullable column.
func loadSource(t SignatureTable) (*bigquery.ReaderSource, error) {
	var buf bytes.Buffer
	if err := t.writeCSV(&buf, ""); err != nil {
		return nil, err
	}

	src := bigquery.NewReaderSource(&buf)
	src.SourceFormat = bigquery.CSV
	src.SkipLeadingRows = 1
	src.Schema = SignatureSchema

	return src, nil
}

// UploadBigQuery loads t into wbq.Database.tableName, creating the table if
// needed and replacing its contents otherwise.
func UploadBigQuery(wbq *WrappedBigQuery, tableName string, t SignatureTable) error {
	src, err := loadSource(t)
	if err != nil {
		return err
	}

	loader := wbq.Client.Dataset(wbq.Database).Table(tableName).LoaderFrom(src)
	loader.CreateDisposition = bigquery.CreateIfNeeded
	loader.WriteDisposition = bigquery.WriteTruncate

	job, err := loader.Run(wbq.Context)
	if err != nil {
		return fmt.Errorf("starting BigQuery load into %s.%s: %w", wbq.Database, tableName, err)
	}

	status, err := job.Wait(wbq.Context)
	if err != nil {
		return fmt.Errorf("waiting for BigQuery load into %s.%s: %w", wbq.Database, tableName, err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("BigQuery load into %s.%s: %w", wbq.Database, tableName, err)
	}

	return nil
}
