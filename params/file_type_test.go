package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferFileType(t *testing.T) {
	tests := []struct {
		path     string
		expected FileType
	}{
		{"testdata/solver.json", FileTypeJSON},
		{"testdata/solver.yaml", FileTypeYAML},
		{"testdata/solver.YML", FileTypeYAML},
		{"testdata/solver.toml", FileTypeTOML},
		{"testdata/solver.params", FileTypeParams},
		{"testdata/solver", FileTypeParams},
		{"testdata/solver.txt", FileTypeParams},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, inferFileType(tt.path))
		})
	}

	assert.Equal(t, FileTypeJSON, inferFileType("solver.cfg", FileTypeJSON))
}

func TestFileTypeValid(t *testing.T) {
	for _, ft := range []FileType{FileTypeParams, FileTypeJSON, FileTypeYAML, FileTypeTOML} {
		assert.NoError(t, ft.Valid())
		assert.NotNil(t, ft.Parser())
	}

	assert.Error(t, FileType("ini").Valid())
	assert.Panics(t, func() { FileType("ini").Parser() })
}
