package pipeline

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/monster-pipeline/internal/model"
)

// Persist writes the normalized collection to dest as an indented JSON
// array, with non-ASCII characters left unescaped. It refuses to overwrite
// an existing file: dest's presence is the pipeline's idempotency signal.
// Returns dest on success.
func Persist(monsters []model.Monster, dest string) (string, error) {
	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return "", &PersistError{Err: eris.Errorf("output file already exists: %s", dest)}
		}
		return "", &PersistError{Err: eris.Wrapf(err, "create %s", dest)}
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(monsters); err != nil {
		f.Close() //nolint:errcheck
		return "", &PersistError{Err: eris.Wrapf(err, "encode %s", dest)}
	}
	if err := f.Close(); err != nil {
		return "", &PersistError{Err: eris.Wrapf(err, "close %s", dest)}
	}

	zap.L().Info("persist: saved monsters",
		zap.Int("count", len(monsters)),
		zap.String("file", dest),
	)

	return dest, nil
}
