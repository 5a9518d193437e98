package obfuscate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
)

// WriteOptions are forwarded to the Parquet encoder. The zero value keeps the
// encoder defaults.
type WriteOptions struct {
	Compression       compress.Compression
	RowGroupLength    int64
	DisableDictionary bool
}

var codecs = map[string]compress.Compression{
	"uncompressed": compress.Codecs.Uncompressed,
	"snappy":       compress.Codecs.Snappy,
	"gzip":         compress.Codecs.Gzip,
	"brotli":       compress.Codecs.Brotli,
	"zstd":         compress.Codecs.Zstd,
	"lz4":          compress.Codecs.Lz4Raw,
}

// ParseCompression resolves a codec name such as "snappy" or "zstd".
// An empty name selects the encoder default.
func ParseCompression(name string) (compress.Compression, error) {
	if name == "" {
		return compress.Codecs.Uncompressed, nil
	}
	c, ok := codecs[strings.ToLower(name)]
	if !ok {
		names := make([]string, 0, len(codecs))
		for n := range codecs {
			names = append(names, n)
		}
		sort.Strings(names)
		return compress.Codecs.Uncompressed, fmt.Errorf("unknown parquet compression %q (want one of %s)", name, strings.Join(names, ", "))
	}
	return c, nil
}

func (o WriteOptions) writerProperties() *parquet.WriterProperties {
	props := []parquet.WriterProperty{parquet.WithCompression(o.Compression)}
	if o.DisableDictionary {
		props = append(props, parquet.WithDictionaryDefault(false))
	}
	return parquet.NewWriterProperties(props...)
}

func (o WriteOptions) rowGroupLength() int64 {
	if o.RowGroupLength > 0 {
		return o.RowGroupLength
	}
	return parquet.DefaultMaxRowGroupLen
}
