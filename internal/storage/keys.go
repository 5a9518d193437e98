package storage

import (
	"path"

	"github.com/kacper-wojtaszczyk/gdpr-obfuscator/internal/model"
)

// ObjectKey names where a masked copy of a source object is written back.
type ObjectKey struct {
	Prefix string      // e.g. "masked"
	RunID  model.RunID // UUIDv7 of the obfuscation run
	Source string      // key of the source object
}

func (k ObjectKey) Key() string {
	return path.Join(k.Prefix, k.RunID.String(), k.Source)
}
