package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONMap stores a free-form JSON object in a text column.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch data := value.(type) {
	case []byte:
		if len(data) == 0 {
			*m = nil
			return nil
		}
		return json.Unmarshal(data, m)
	case string:
		if data == "" {
			*m = nil
			return nil
		}
		return json.Unmarshal([]byte(data), m)
	default:
		return errors.New("unsupported type for JSONMap")
	}
}

// StringList stores a JSON string array in a text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch data := value.(type) {
	case []byte:
		if len(data) == 0 {
			*l = nil
			return nil
		}
		return json.Unmarshal(data, l)
	case string:
		if data == "" {
			*l = nil
			return nil
		}
		return json.Unmarshal([]byte(data), l)
	default:
		return errors.New("unsupported type for StringList")
	}
}
