package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/model"
	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/obfuscate"
	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/obfuscation"
	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/storage"
	"github.com/spf13/cobra"
)

// bucketManager is implemented by stores that can create and drop buckets.
type bucketManager interface {
	EnsureBucket(ctx context.Context, bucket string) error
	RemoveObject(ctx context.Context, bucket, key string) error
	RemoveBucket(ctx context.Context, bucket string) error
}

var (
	studentHeader = []string{"student_id", "name", "course", "graduation_date", "email_address"}
	courses       = []string{"Data Eng", "ML Eng", "Data Science"}
	firstNames    = []string{"Oliver", "William", "Jill", "James", "Charles", "Albert"}
	lastNames     = []string{"Twist", "Shakespeare", "Smyth", "Cook", "Darwin", "Einstein"}
)

func demoCmd() *cobra.Command {
	var (
		bucket string
		key    string
		rows   int
	)
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Upload generated student data, obfuscate it and clean up",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, backend, err := environment(ctx)
			if err != nil {
				return err
			}
			return runDemo(ctx, backend, cfg.WriteOptions, bucket, key, rows, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&bucket, "bucket", "gdpr-obfuscator-demo", "Bucket created for the demo and removed afterwards")
	cmd.Flags().StringVar(&key, "key", "some_data.csv", "Key of the generated CSV file")
	cmd.Flags().IntVar(&rows, "rows", 10, "Number of generated rows")
	return cmd
}

func runDemo(ctx context.Context, backend storage.Backend, wopts obfuscate.WriteOptions, bucket, key string, rows int, stdout io.Writer) error {
	mgr, ok := backend.(bucketManager)
	if !ok {
		return fmt.Errorf("demo needs a store that manages buckets (OBJECT_STORE=minio)")
	}

	data, err := studentCSV(rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)), rows, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, string(data))

	if err := mgr.EnsureBucket(ctx, bucket); err != nil {
		return err
	}
	defer func() {
		if err := mgr.RemoveBucket(ctx, bucket); err != nil {
			slog.WarnContext(ctx, "failed to remove demo bucket", "bucket", bucket, "error", err)
			return
		}
		slog.InfoContext(ctx, "demo resources removed", "bucket", bucket)
	}()

	slog.InfoContext(ctx, "uploading demo data", "bucket", bucket, "key", key, "bytes", len(data))
	if err := backend.Put(ctx, bucket, key, data, model.CSV.ContentType()); err != nil {
		return err
	}
	defer func() {
		if err := mgr.RemoveObject(ctx, bucket, key); err != nil {
			slog.WarnContext(ctx, "failed to remove demo object", "key", key, "error", err)
		}
	}()

	doc, err := json.Marshal(model.Request{
		FileToObfuscate: "s3://" + bucket + "/" + key,
		PIIFields:       []string{"name", "email_address"},
	})
	if err != nil {
		return err
	}

	masked, err := obfuscation.NewService(backend, slog.Default()).Obfuscate(ctx, doc, wopts)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, string(masked))
	return nil
}

// studentCSV generates rows of fake student records.
func studentCSV(rng *rand.Rand, rows int, today time.Time) ([]byte, error) {
	dates := make([]string, 3)
	for i := range dates {
		dates[i] = today.AddDate(0, 0, -rng.IntN(101)).Format("02-01-2006")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(studentHeader); err != nil {
		return nil, err
	}
	for range rows {
		first, last := pick(rng, firstNames), pick(rng, lastNames)
		record := []string{
			strconv.Itoa(rng.IntN(1001)),
			first + " " + last,
			pick(rng, courses),
			pick(rng, dates),
			strings.ToLower(first[:1]) + "." + strings.ToLower(last) + "@email.com",
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func pick(rng *rand.Rand, from []string) string {
	return from[rng.IntN(len(from))]
}
