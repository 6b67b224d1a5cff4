package params

import (
	"os"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

// Export renders every set value in the given format. Durations are written
// as text so they load back through Set.
func (r *Registry) Export(ft FileType) ([]byte, error) {
	if err := ft.Valid(); err != nil {
		return nil, err
	}

	values := r.Snapshot()
	for name, v := range values {
		if d, ok := v.(time.Duration); ok {
			values[name] = d.String()
		}
	}

	k := koanf.New(DefaultDelimiter)
	if err := k.Load(confmap.Provider(values, DefaultDelimiter), nil); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to stage parameters for export").
			WithTextCode("EXPORT_FAILED").
			WithMetadata(map[string]any{
				"file_type": string(ft),
			})
	}

	out, err := k.Marshal(ft.Parser())
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to marshal parameters").
			WithTextCode("EXPORT_FAILED").
			WithMetadata(map[string]any{
				"file_type": string(ft),
			})
	}
	return out, nil
}

// SaveFile exports to path using the format implied by its extension.
func (r *Registry) SaveFile(path string) error {
	ft := inferFileType(path)
	data, err := r.Export(ft)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to write parameter file").
			WithTextCode("FILE_WRITE_FAILED").
			WithMetadata(map[string]any{
				"filepath":  path,
				"file_type": string(ft),
			})
	}
	return nil
}
