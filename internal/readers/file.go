package readers

import (
	"os"

	"github.com/mdelapenya/otelcompat/internal/config"
)

type FileReader struct {
	path string
}

func NewFileReader(path string) *FileReader {
	return &FileReader{path: path}
}

func (fr *FileReader) Read() ([]byte, error) {
	return os.ReadFile(fr.path)
}

// NewReader returns a stdin reader for config.StdinPath and a file reader
// for anything else.
func NewReader(path string) InputReader {
	if path == config.StdinPath {
		return &PipeReader{}
	}

	return NewFileReader(path)
}
