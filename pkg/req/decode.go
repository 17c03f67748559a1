package req

import (
	"bytes"
	"io"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Decode reads a JSON body into T. An empty body yields the zero T. Read
// errors, including those of http.MaxBytesReader, come back unchanged.
func Decode[T any](body io.Reader) (T, error) {
	var payload T
	if body == nil {
		return payload, nil
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return payload, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return payload, nil
	}
	err = json.Unmarshal(data, &payload)
	return payload, err
}
