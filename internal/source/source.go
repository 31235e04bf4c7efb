// Package source provides the places raw consumption records come from. A caller
// picks one explicitly; there is no fallback from one source to another.
package source

import (
	"context"

	"github.com/jgoulah/powerscheduler/pkg/models"
)

// Source yields raw, unvalidated records
type Source interface {
	// Name identifies the source in logs
	Name() string
	Records(ctx context.Context) ([]models.RawRecord, error)
}
