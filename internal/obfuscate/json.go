package obfuscate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var emptyRecords = []byte("[]")

// maskedValue is Mask encoded as a JSON string.
var maskedValue = json.RawMessage(`"` + Mask + `"`)

type member struct {
	key   string
	value json.RawMessage
}

// record is a JSON object with its key order kept.
type record []member

func (r record) keys() []string {
	keys := make([]string, len(r))
	for i, m := range r {
		keys[i] = m.key
	}
	return keys
}

func (r record) mask(key string) {
	for i := range r {
		if r[i].key == key {
			r[i].value = maskedValue
		}
	}
}

// JSON masks the named keys in a JSON array of flat objects.
//
// The key set of the first object is the schema: requested keys outside it
// are skipped, and a schema key missing from a later object is not added to
// it. Empty input, an empty array, and anything that is not an array of
// objects yield "[]"; the last case also sets Result.Malformed.
func JSON(raw []byte, piiFields []string) (Result, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Result{Data: emptyRecords}, nil
	}

	records, err := decodeRecords(raw)
	if err != nil {
		return Result{Data: emptyRecords, Malformed: fmt.Errorf("parse json: %w", err)}, nil
	}
	if len(records) == 0 {
		return Result{Data: emptyRecords}, nil
	}

	s := newSchema(records[0].keys())
	var present, skipped []string
	for _, f := range piiFields {
		if s.has(f) {
			present = append(present, f)
		} else {
			skipped = append(skipped, f)
		}
	}

	for _, rec := range records {
		for _, f := range present {
			rec.mask(f)
		}
	}

	data, err := encodeRecords(records)
	if err != nil {
		return Result{}, fmt.Errorf("write json: %w", err)
	}
	return Result{Data: data, Skipped: skipped}, nil
}

func decodeRecords(raw []byte) ([]record, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok != json.Delim('[') {
		return nil, errors.New("top-level value is not an array")
	}

	var records []record
	for dec.More() {
		rec, err := decodeRecord(dec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(records), err)
		}
		records = append(records, rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after array")
	}
	return records, nil
}

func decodeRecord(dec *json.Decoder) (record, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok != json.Delim('{') {
		return nil, errors.New("not an object")
	}

	rec := record{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("value of %q: %w", key, err)
		}
		rec = append(rec, member{key: key, value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return rec, nil
}

// encodeRecords writes compact JSON, keeping key order and the original
// encoding of every value.
func encodeRecords(records []record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('[')
	for i, rec := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, m := range rec {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := enc.Encode(m.key); err != nil {
				return nil, err
			}
			// Encode terminates every value with a newline.
			buf.Truncate(buf.Len() - 1)
			buf.WriteByte(':')
			if err := json.Compact(&buf, m.value); err != nil {
				return nil, err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}
