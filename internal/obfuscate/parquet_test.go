package obfuscate

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var peopleColumns = []string{"id", "name", "surname", "country", "address", "post_code", "some_column"}

// peopleParquet builds a Parquet file with an int64 id column followed by
// string columns holding "<column>_<row>".
func peopleParquet(t *testing.T, rows int) []byte {
	t.Helper()
	mem := memory.NewGoAllocator()

	fields := []arrow.Field{{Name: peopleColumns[0], Type: arrow.PrimitiveTypes.Int64}}
	for _, name := range peopleColumns[1:] {
		fields = append(fields, arrow.Field{Name: name, Type: arrow.BinaryTypes.String})
	}
	md := arrow.NewMetadata([]string{"source"}, []string{"unit-test"})
	sc := arrow.NewSchema(fields, &md)

	ids := array.NewInt64Builder(mem)
	defer ids.Release()
	for i := range rows {
		ids.Append(int64(i))
	}
	columns := [][]arrow.Array{{ids.NewArray()}}
	for _, name := range peopleColumns[1:] {
		b := array.NewStringBuilder(mem)
		for i := range rows {
			b.Append(fmt.Sprintf("%s_%d", name, i))
		}
		columns = append(columns, []arrow.Array{b.NewArray()})
		b.Release()
	}

	tbl := array.NewTableFromSlice(sc, columns)
	defer tbl.Release()

	var buf bytes.Buffer
	require.NoError(t, pqarrow.WriteTable(tbl, &buf, 1024, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps()))
	return buf.Bytes()
}

func readParquet(t *testing.T, data []byte) arrow.Table {
	t.Helper()
	mem := memory.NewGoAllocator()
	tbl, err := pqarrow.ReadTable(context.Background(), bytes.NewReader(data), parquet.NewReaderProperties(mem), pqarrow.ArrowReadProperties{}, mem)
	require.NoError(t, err)
	t.Cleanup(tbl.Release)
	return tbl
}

func columnNames(tbl arrow.Table) []string {
	names := make([]string, tbl.NumCols())
	for i := range names {
		names[i] = tbl.Schema().Field(i).Name
	}
	return names
}

// columnValues renders every value of a column as a string.
func columnValues(t *testing.T, tbl arrow.Table, name string) []string {
	t.Helper()
	idx := tbl.Schema().FieldIndices(name)
	require.Len(t, idx, 1, "column %q", name)

	var out []string
	for _, chunk := range tbl.Column(idx[0]).Data().Chunks() {
		for i := 0; i < chunk.Len(); i++ {
			out = append(out, chunk.ValueStr(i))
		}
	}
	return out
}

func TestParquet_MasksColumnsInPlace(t *testing.T) {
	raw := peopleParquet(t, 3)
	pii := []string{"some_column", "post_code", "address", "country"}

	res, err := Parquet(context.Background(), raw, pii, WriteOptions{})
	require.NoError(t, err)
	assert.Empty(t, res.Skipped)

	tbl := readParquet(t, res.Data)
	assert.Equal(t, peopleColumns, columnNames(tbl))
	assert.EqualValues(t, 3, tbl.NumRows())

	for _, name := range pii {
		assert.Equal(t, []string{Mask, Mask, Mask}, columnValues(t, tbl, name), "column %q", name)
	}
	assert.Equal(t, []string{"0", "1", "2"}, columnValues(t, tbl, "id"))
	assert.Equal(t, []string{"name_0", "name_1", "name_2"}, columnValues(t, tbl, "name"))
	assert.Equal(t, []string{"surname_0", "surname_1", "surname_2"}, columnValues(t, tbl, "surname"))
}

func TestParquet_KeepsSchemaMetadata(t *testing.T) {
	res, err := Parquet(context.Background(), peopleParquet(t, 2), []string{"name"}, WriteOptions{})
	require.NoError(t, err)

	md := readParquet(t, res.Data).Schema().Metadata()
	idx := md.FindKey("source")
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "unit-test", md.Values()[idx])
}

func TestParquet_KeepsArrowTypesOfOtherColumns(t *testing.T) {
	mem := memory.NewGoAllocator()
	seenAt := &arrow.TimestampType{Unit: arrow.Millisecond, TimeZone: "Europe/London"}
	sc := arrow.NewSchema([]arrow.Field{
		{Name: "name", Type: arrow.BinaryTypes.String},
		{Name: "seen_at", Type: seenAt},
		{Name: "notes", Type: arrow.BinaryTypes.LargeString},
	}, nil)

	names := array.NewStringBuilder(mem)
	defer names.Release()
	times := array.NewTimestampBuilder(mem, seenAt)
	defer times.Release()
	notes := array.NewLargeStringBuilder(mem)
	defer notes.Release()
	for i := range 3 {
		names.Append(fmt.Sprintf("name_%d", i))
		times.Append(arrow.Timestamp(1700000000000 + int64(i)))
		notes.Append(fmt.Sprintf("note_%d", i))
	}

	tbl := array.NewTableFromSlice(sc, [][]arrow.Array{{names.NewArray()}, {times.NewArray()}, {notes.NewArray()}})
	defer tbl.Release()

	var buf bytes.Buffer
	require.NoError(t, pqarrow.WriteTable(tbl, &buf, 1024, parquet.NewWriterProperties(),
		pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())))

	res, err := Parquet(context.Background(), buf.Bytes(), []string{"name"}, WriteOptions{})
	require.NoError(t, err)

	out := readParquet(t, res.Data)
	assert.True(t, arrow.TypeEqual(seenAt, out.Schema().Field(1).Type), "seen_at type %s", out.Schema().Field(1).Type)
	assert.True(t, arrow.TypeEqual(arrow.BinaryTypes.LargeString, out.Schema().Field(2).Type), "notes type %s", out.Schema().Field(2).Type)
	assert.Equal(t, []string{Mask, Mask, Mask}, columnValues(t, out, "name"))
	assert.Equal(t, []string{"note_0", "note_1", "note_2"}, columnValues(t, out, "notes"))
}

func TestParquet_MasksNonStringColumn(t *testing.T) {
	res, err := Parquet(context.Background(), peopleParquet(t, 2), []string{"id"}, WriteOptions{})
	require.NoError(t, err)

	tbl := readParquet(t, res.Data)
	assert.Equal(t, arrow.BinaryTypes.String, tbl.Schema().Field(0).Type)
	assert.Equal(t, []string{Mask, Mask}, columnValues(t, tbl, "id"))
}

func TestParquet_UnknownFieldIsSkipped(t *testing.T) {
	raw := peopleParquet(t, 2)
	with, err := Parquet(context.Background(), raw, []string{"name", "email_address"}, WriteOptions{})
	require.NoError(t, err)
	without, err := Parquet(context.Background(), raw, []string{"name"}, WriteOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"email_address"}, with.Skipped)
	a, b := readParquet(t, with.Data), readParquet(t, without.Data)
	assert.Equal(t, columnNames(b), columnNames(a))
	for _, name := range peopleColumns {
		assert.Equal(t, columnValues(t, b, name), columnValues(t, a, name), "column %q", name)
	}
}

func TestParquet_Idempotent(t *testing.T) {
	once, err := Parquet(context.Background(), peopleParquet(t, 2), []string{"name"}, WriteOptions{})
	require.NoError(t, err)
	twice, err := Parquet(context.Background(), once.Data, []string{"name"}, WriteOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{Mask, Mask}, columnValues(t, readParquet(t, twice.Data), "name"))
}

func TestParquet_EmptyTable(t *testing.T) {
	res, err := Parquet(context.Background(), peopleParquet(t, 0), []string{"name"}, WriteOptions{})
	require.NoError(t, err)

	tbl := readParquet(t, res.Data)
	assert.Equal(t, peopleColumns, columnNames(tbl))
	assert.EqualValues(t, 0, tbl.NumRows())
}

func TestParquet_ForwardsCompression(t *testing.T) {
	res, err := Parquet(context.Background(), peopleParquet(t, 4), []string{"name"}, WriteOptions{Compression: compress.Codecs.Zstd})
	require.NoError(t, err)

	rdr, err := file.NewParquetReader(bytes.NewReader(res.Data))
	require.NoError(t, err)
	defer rdr.Close()

	col, err := rdr.MetaData().RowGroup(0).ColumnChunk(1)
	require.NoError(t, err)
	assert.Equal(t, compress.Codecs.Zstd, col.Compression())
}

func TestParquet_ForwardsRowGroupLength(t *testing.T) {
	res, err := Parquet(context.Background(), peopleParquet(t, 5), []string{"name"}, WriteOptions{RowGroupLength: 2})
	require.NoError(t, err)

	rdr, err := file.NewParquetReader(bytes.NewReader(res.Data))
	require.NoError(t, err)
	defer rdr.Close()

	assert.Equal(t, 3, rdr.NumRowGroups())
	assert.EqualValues(t, 5, rdr.NumRows())
}

func TestParquet_ForwardsDictionarySetting(t *testing.T) {
	tests := []struct {
		name    string
		opts    WriteOptions
		wantDic bool
	}{
		{name: "encoder default", opts: WriteOptions{}, wantDic: true},
		{name: "disabled", opts: WriteOptions{DisableDictionary: true}, wantDic: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parquet(context.Background(), peopleParquet(t, 4), []string{"name"}, tt.opts)
			require.NoError(t, err)

			rdr, err := file.NewParquetReader(bytes.NewReader(res.Data))
			require.NoError(t, err)
			defer rdr.Close()

			// surname is not masked
			col, err := rdr.MetaData().RowGroup(0).ColumnChunk(2)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDic, col.HasDictionaryPage())
		})
	}
}

func TestParquet_InvalidPayload(t *testing.T) {
	_, err := Parquet(context.Background(), []byte("not parquet"), []string{"name"}, WriteOptions{})
	assert.Error(t, err)
}

func TestParquet_DoesNotMutateFieldList(t *testing.T) {
	fields := []string{"country", "missing", "name"}
	before := slices.Clone(fields)
	_, err := Parquet(context.Background(), peopleParquet(t, 1), fields, WriteOptions{})
	require.NoError(t, err)
	assert.Equal(t, before, fields)
}

func TestParseCompression(t *testing.T) {
	c, err := ParseCompression("ZSTD")
	require.NoError(t, err)
	assert.Equal(t, compress.Codecs.Zstd, c)

	c, err = ParseCompression("")
	require.NoError(t, err)
	assert.Equal(t, compress.Codecs.Uncompressed, c)

	_, err = ParseCompression("lzma")
	assert.Error(t, err)
}
