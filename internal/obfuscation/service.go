package obfuscation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/model"
	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/obfuscate"
)

// ObjectStorage retrieves raw objects. Its errors are returned to the caller
// unchanged.
type ObjectStorage interface {
	Get(ctx context.Context, bucket, key string) ([]byte, error)
}

// Output is a masked file together with what it was derived from.
type Output struct {
	Data     []byte
	Type     model.DataType
	Location model.Location
	Skipped  []string
}

// Service orchestrates obfuscation steps: classify, fetch, mask.
type Service struct {
	storage ObjectStorage
	logger  *slog.Logger
}

// NewService creates a Service. A nil logger discards diagnostics.
func NewService(storage ObjectStorage, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{storage: storage, logger: logger}
}

// Obfuscate decodes a request document, fetches the file it names and
// returns the file with the requested fields masked. opts only affects
// Parquet output.
func (s *Service) Obfuscate(ctx context.Context, request []byte, opts obfuscate.WriteOptions) ([]byte, error) {
	req, err := model.DecodeRequest(request)
	if err != nil {
		return nil, err
	}
	out, err := s.ObfuscateRequest(ctx, req, opts)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ObfuscateRequest is Obfuscate for an already decoded request.
func (s *Service) ObfuscateRequest(ctx context.Context, req model.Request, opts obfuscate.WriteOptions) (Output, error) {
	loc := req.Location()
	dataType, err := model.ClassifyDataType(loc.Key)
	if err != nil {
		return Output{}, err
	}

	s.logger.DebugContext(ctx, "obfuscation started", "bucket", loc.Bucket, "key", loc.Key, "type", dataType, "pii_fields", req.PIIFields)

	raw, err := s.storage.Get(ctx, loc.Bucket, loc.Key)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to retrieve object", "bucket", loc.Bucket, "key", loc.Key, "error", err)
		return Output{}, err
	}

	var res obfuscate.Result
	switch dataType {
	case model.CSV:
		res, err = obfuscate.CSV(raw, req.PIIFields)
	case model.JSON:
		res, err = obfuscate.JSON(raw, req.PIIFields)
	case model.Parquet:
		res, err = obfuscate.Parquet(ctx, raw, req.PIIFields, opts)
	default:
		return Output{}, fmt.Errorf("no obfuscator for data type %q", dataType)
	}
	if err != nil {
		return Output{}, fmt.Errorf("obfuscate %s: %w", dataType, err)
	}

	if res.Malformed != nil {
		s.logger.WarnContext(ctx, "payload treated as empty", "key", loc.Key, "type", dataType, "error", res.Malformed)
	}
	for _, field := range res.Skipped {
		s.logger.WarnContext(ctx, "pii field not in data, skipping", "field", field, "key", loc.Key)
	}

	s.logger.InfoContext(ctx, "obfuscation complete", "key", loc.Key, "type", dataType, "bytes", len(res.Data))
	return Output{Data: res.Data, Type: dataType, Location: loc, Skipped: res.Skipped}, nil
}
