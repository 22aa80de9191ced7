package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// TimeLayout is how timestamp values are rendered inside artifacts. No
// timezone; restored values stay plain text and are handed to the driver
// as-is.
const TimeLayout = "2006-01-02 15:04:05"

// Field is one named value of a row.
type Field struct {
	Name  string
	Value interface{}
}

// Row is an ordered column-name to value mapping. Order survives a
// marshal/unmarshal round trip, which is what makes the insert field list
// derived from the first row stable.
type Row struct {
	fields []Field
}

// NewRow builds a row from fields in the given order.
func NewRow(fields ...Field) Row {
	return Row{fields: fields}
}

func (r *Row) Len() int {
	return len(r.fields)
}

// Keys returns the column names in row order.
func (r *Row) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Name
	}
	return keys
}

func (r *Row) Get(name string) (interface{}, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Set replaces the named field in place, or appends it.
func (r *Row) Set(name string, value interface{}) {
	for i, f := range r.fields {
		if f.Name == name {
			r.fields[i].Value = value
			return
		}
	}
	r.fields = append(r.fields, Field{Name: name, Value: value})
}

// Delete removes the named field. Removing an absent field is a no-op.
func (r *Row) Delete(name string) bool {
	for i, f := range r.fields {
		if f.Name == name {
			r.fields = append(r.fields[:i], r.fields[i+1:]...)
			return true
		}
	}
	return false
}

func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := marshalValue(f.Value)
		if err != nil {
			return nil, fmt.Errorf("encoding field %s: %w", f.Name, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("row: expected object, got %v", tok)
	}

	r.fields = r.fields[:0]
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("row: expected field name, got %v", keyTok)
		}
		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("row: decoding field %s: %w", key, err)
		}
		r.fields = append(r.fields, Field{Name: key, Value: value})
	}
	_, err = dec.Token()
	return err
}

// marshalValue renders scalar values for the artifact. Timestamps become
// fixed-format text, byte slices become strings, everything else maps to the
// JSON native type.
func marshalValue(v interface{}) ([]byte, error) {
	switch t := v.(type) {
	case time.Time:
		return json.Marshal(t.Format(TimeLayout))
	case []byte:
		return json.Marshal(string(t))
	default:
		return json.Marshal(v)
	}
}

// RowSet is the ordered row collection of one table.
type RowSet []Row

// Keys returns the effective field set of the row set, taken from the first
// row. An empty row set has no fields.
func (rs RowSet) Keys() []string {
	if len(rs) == 0 {
		return nil
	}
	return rs[0].Keys()
}
