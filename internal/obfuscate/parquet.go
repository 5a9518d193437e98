package obfuscate

import (
	"bytes"
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// arrowSchemaKey holds the serialized arrow schema of the source file. It no
// longer describes the masked columns, so it is replaced by the schema of the
// masked table on write.
const arrowSchemaKey = "ARROW:schema"

// Parquet masks the named columns of a Parquet file.
//
// A masked column is replaced in place by a nullable string column holding
// Mask in every row; column order, row count, the other columns and the
// schema metadata are kept. The arrow schema is stored in the output so types
// Parquet cannot express on its own (time zones, dictionaries, large strings)
// survive. opts is passed to the encoder untouched.
func Parquet(ctx context.Context, raw []byte, piiFields []string, opts WriteOptions) (Result, error) {
	mem := memory.NewGoAllocator()

	tbl, err := pqarrow.ReadTable(ctx, bytes.NewReader(raw), parquet.NewReaderProperties(mem), pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return Result{}, fmt.Errorf("read parquet: %w", err)
	}
	defer tbl.Release()

	src := tbl.Schema()
	fields := src.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}

	positions, skipped := newSchema(names).resolve(piiFields)
	masked := make(map[int]bool, len(positions))
	for _, p := range positions {
		masked[p] = true
	}

	var mask arrow.Array
	if len(masked) > 0 {
		mask = maskArray(mem, tbl.NumRows())
		defer mask.Release()
	}

	columns := make([][]arrow.Array, len(fields))
	for i := range fields {
		if masked[i] {
			fields[i] = arrow.Field{
				Name:     fields[i].Name,
				Type:     arrow.BinaryTypes.String,
				Nullable: true,
				Metadata: fields[i].Metadata,
			}
			columns[i] = []arrow.Array{mask}
			continue
		}
		columns[i] = tbl.Column(i).Data().Chunks()
	}

	md := carriedMetadata(src.Metadata())
	out := array.NewTableFromSlice(arrow.NewSchema(fields, &md), columns)
	defer out.Release()

	var buf bytes.Buffer
	if err := pqarrow.WriteTable(out, &buf, opts.rowGroupLength(), opts.writerProperties(), arrowWriterProperties()); err != nil {
		return Result{}, fmt.Errorf("write parquet: %w", err)
	}
	return Result{Data: buf.Bytes(), Skipped: skipped}, nil
}

func maskArray(mem memory.Allocator, rows int64) arrow.Array {
	b := array.NewStringBuilder(mem)
	defer b.Release()

	b.Reserve(int(rows))
	for range rows {
		b.Append(Mask)
	}
	return b.NewArray()
}

func carriedMetadata(md arrow.Metadata) arrow.Metadata {
	keys, values := md.Keys(), md.Values()
	var k, v []string
	for i := range keys {
		if keys[i] == arrowSchemaKey {
			continue
		}
		k = append(k, keys[i])
		v = append(v, values[i])
	}
	return arrow.NewMetadata(k, v)
}

func arrowWriterProperties() pqarrow.ArrowWriterProperties {
	return pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
}
