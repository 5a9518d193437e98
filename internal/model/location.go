package model

import "strings"

const schemeDelimiter = "://"

// Location identifies an object inside a bucket (or container), e.g.
// "s3://my_ingestion_bucket/new_data/file1.csv".
type Location struct {
	Scheme string
	Bucket string
	Key    string // no leading slash
}

// ParseLocation splits a location string into bucket and key.
// It never fails: a missing scheme or bucket yields empty components.
func ParseLocation(raw string) Location {
	var loc Location
	rest := raw
	if scheme, after, ok := strings.Cut(raw, schemeDelimiter); ok {
		loc.Scheme = scheme
		rest = after
	} else if after, ok := strings.CutPrefix(raw, "//"); ok {
		rest = after
	} else {
		loc.Key = strings.TrimLeft(raw, "/")
		return loc
	}

	bucket, key, _ := strings.Cut(rest, "/")
	loc.Bucket = bucket
	loc.Key = strings.TrimLeft(key, "/")
	return loc
}

// String returns the location in scheme://bucket/key form.
func (l Location) String() string {
	if l.Scheme == "" {
		return "//" + l.Bucket + "/" + l.Key
	}
	return l.Scheme + schemeDelimiter + l.Bucket + "/" + l.Key
}
