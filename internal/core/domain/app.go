package domain

import (
	"time"

	"github.com/google/uuid"
)

// App represents an application whose advertising campaigns are tracked.
// Apps are created lazily during import when a name is first seen and are
// unique by name.
type App struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
