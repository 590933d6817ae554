package readers

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

type InputReader interface {
	Read() ([]byte, error)
}

// ReadDetectorResult decodes a JSON detector result. Blank input decodes to
// nil, which callers treat as "nothing detected".
func ReadDetectorResult(reader InputReader) (any, error) {
	buf, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read detector result: %w", err)
	}

	if len(bytes.TrimSpace(buf)) == 0 {
		return nil, nil
	}

	var result any
	if err := json.Unmarshal(buf, &result); err != nil {
		return nil, fmt.Errorf("failed to decode detector result: %w", err)
	}

	return result, nil
}
