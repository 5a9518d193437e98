package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedDataType is returned when an object key does not end in one
// of the supported suffixes.
var ErrUnsupportedDataType = errors.New("unsupported data type")

// DataType is the format of a data file, derived from its key suffix.
type DataType string

const (
	CSV     DataType = "csv"
	JSON    DataType = "json"
	Parquet DataType = "parquet"
)

// SupportedDataTypes lists the accepted suffixes in the order they are reported.
var SupportedDataTypes = []DataType{CSV, JSON, Parquet}

// ClassifyDataType returns the data type named by the part of key after the
// last dot. The comparison is exact and case-sensitive.
func ClassifyDataType(key string) (DataType, error) {
	i := strings.LastIndex(key, ".")
	if i < 0 {
		return "", unsupported(key)
	}
	dt := DataType(key[i+1:])
	if err := dt.Validate(); err != nil {
		return "", unsupported(key)
	}
	return dt, nil
}

// Validate checks that the data type is one of the supported ones.
func (d DataType) Validate() error {
	for _, s := range SupportedDataTypes {
		if d == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedDataType, string(d))
}

// ContentType returns the media type used when the data is served or stored.
func (d DataType) ContentType() string {
	switch d {
	case CSV:
		return "text/csv"
	case JSON:
		return "application/json"
	case Parquet:
		return "application/vnd.apache.parquet"
	default:
		return "application/octet-stream"
	}
}

func unsupported(key string) error {
	names := make([]string, len(SupportedDataTypes))
	for i, s := range SupportedDataTypes {
		names[i] = string(s)
	}
	return fmt.Errorf("%w: %q: supports only %s types", ErrUnsupportedDataType, key, strings.Join(names, ", "))
}
