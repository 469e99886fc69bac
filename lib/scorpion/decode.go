package scorpion

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// decode parses data into out. Every json tagged field without omitempty
// must be present, and only pointer fields may be null.
func decode[T any](data []byte, out *T) error {
	if !json.Valid(data) {
		return &DecodeError{Err: errors.New("invalid json")}
	}
	if isNull(data) {
		return &DecodeError{Err: ErrNullField}
	}

	err := checkFields(data, reflect.TypeOf(out).Elem(), "")
	if err != nil {
		return err
	}

	err = json.Unmarshal(data, out)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &DecodeError{Field: typeErr.Field, Err: err}
	}
	return &DecodeError{Err: err}
}

var rawMessageType = reflect.TypeOf(json.RawMessage{})

func joinPath(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func jsonField(f reflect.StructField) (name string, required bool) {
	if !f.IsExported() {
		return "", false
	}
	tag, ok := f.Tag.Lookup("json")
	if !ok || tag == "-" {
		return "", false
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = f.Name
	}
	return name, !strings.Contains(opts, "omitempty")
}

func checkFields(raw json.RawMessage, t reflect.Type, path string) error {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == rawMessageType || isNull(raw) {
		return nil
	}

	switch t.Kind() {
	case reflect.Struct:
		var fields map[string]json.RawMessage
		err := json.Unmarshal(raw, &fields)
		if err != nil {
			return &DecodeError{Field: path, Err: fmt.Errorf("expected object: %w", err)}
		}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name, required := jsonField(f)
			if name == "" {
				continue
			}
			fieldPath := joinPath(path, name)
			value, ok := fields[name]
			if !ok {
				if required {
					return &DecodeError{Field: fieldPath, Err: ErrMissingField}
				}
				continue
			}
			if isNull(value) && f.Type.Kind() != reflect.Pointer {
				return &DecodeError{Field: fieldPath, Err: ErrNullField}
			}
			err = checkFields(value, f.Type, fieldPath)
			if err != nil {
				return err
			}
		}
	case reflect.Slice:
		var items []json.RawMessage
		err := json.Unmarshal(raw, &items)
		if err != nil {
			return &DecodeError{Field: path, Err: fmt.Errorf("expected array: %w", err)}
		}
		for i, item := range items {
			err = checkFields(item, t.Elem(), fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return err
			}
		}
	}
	return nil
}
