package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/compression"
	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/model"
	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/obfuscate"
	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/obfuscation"
	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/storage"
	"github.com/spf13/cobra"
)

type obfuscateOptions struct {
	request   string
	out       string
	compress  string
	writeBack string
	prefix    string
	runID     string
}

func obfuscateCmd() *cobra.Command {
	var opts obfuscateOptions
	cmd := &cobra.Command{
		Use:   "obfuscate",
		Short: "Obfuscate the file named by a request document",
		Example: `  obfuscator obfuscate --request '{"file_to_obfuscate": "s3://bucket/new_data/file1.csv", "pii_fields": ["name", "email_address"]}'
  obfuscator obfuscate --request @request.json --out masked.parquet
  echo "$REQUEST" | obfuscator obfuscate --request - --write-back masked-bucket`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, backend, err := environment(ctx)
			if err != nil {
				return err
			}
			return runObfuscate(ctx, opts, backend, cfg.WriteOptions, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.request, "request", "-", "Request JSON, @file to read it from a file, or - for stdin")
	cmd.Flags().StringVar(&opts.out, "out", "-", "Output file, or - for stdout")
	cmd.Flags().StringVar(&opts.compress, "compress", "", "Compress the output: gzip or bzip2")
	cmd.Flags().StringVar(&opts.writeBack, "write-back", "", "Also upload the masked file to this bucket")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "masked", "Key prefix for --write-back")
	cmd.Flags().StringVar(&opts.runID, "run-id", "", "Run identifier (UUIDv7); generated when empty")
	return cmd
}

func runObfuscate(ctx context.Context, opts obfuscateOptions, backend storage.Backend, wopts obfuscate.WriteOptions, stdin io.Reader, stdout io.Writer) error {
	if opts.compress != "" && compression.Extension(opts.compress) == "" {
		return fmt.Errorf("%w: unsupported compression %q", model.ErrMalformedRequest, opts.compress)
	}

	doc, err := readRequest(opts.request, stdin)
	if err != nil {
		return err
	}
	req, err := model.DecodeRequest(doc)
	if err != nil {
		return err
	}

	runID := model.RunID(opts.runID)
	if runID == "" {
		if runID, err = model.NewRunID(); err != nil {
			return err
		}
	} else if err := runID.Validate(); err != nil {
		return fmt.Errorf("%w: %w", model.ErrMalformedRequest, err)
	}

	logger := slog.Default().With("run_id", runID)
	out, err := obfuscation.NewService(backend, logger).ObfuscateRequest(ctx, req, wopts)
	if err != nil {
		return err
	}

	data := out.Data
	contentType := out.Type.ContentType()
	if opts.compress != "" {
		if data, err = compression.Compress(data, opts.compress); err != nil {
			return fmt.Errorf("compress output: %w", err)
		}
		contentType = "application/octet-stream"
	}

	if opts.writeBack != "" {
		key := storage.ObjectKey{Prefix: opts.prefix, RunID: runID, Source: out.Location.Key}.Key() + compression.Extension(opts.compress)
		if err := backend.Put(ctx, opts.writeBack, key, data, contentType); err != nil {
			return fmt.Errorf("write back: %w", err)
		}
		logger.InfoContext(ctx, "masked copy written", "bucket", opts.writeBack, "key", key)
	}

	if opts.out == "" || opts.out == "-" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.out, data, 0o600); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// readRequest resolves the --request flag: "-" reads stdin, "@path" reads a
// file, anything else is the document itself.
func readRequest(arg string, stdin io.Reader) ([]byte, error) {
	switch {
	case arg == "-":
		doc, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read request from stdin: %w", err)
		}
		return doc, nil
	case strings.HasPrefix(arg, "@"):
		doc, err := os.ReadFile(strings.TrimPrefix(arg, "@"))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrMalformedRequest, err)
		}
		return doc, nil
	default:
		return []byte(arg), nil
	}
}
