package api

import "encoding/json"

// Unwrap strips the backend's `{"data": ...}` envelope when present and
// returns the payload unchanged otherwise.
func Unwrap(payload any) any {
	if m, ok := payload.(map[string]any); ok {
		if v, exists := m["data"]; exists {
			return v
		}
	}
	return payload
}

// UnwrapList strips the envelope and guarantees a list: when the
// (possibly unwrapped) value is not list-shaped it returns an empty list
// rather than failing.
func UnwrapList(payload any) []any {
	v := Unwrap(payload)
	if list, ok := v.([]any); ok {
		return list
	}
	return []any{}
}

// Bind remarshals a decoded response value into a typed struct.
func Bind(payload any, dst any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
