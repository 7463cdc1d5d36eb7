package ports

import "go.trai.ch/plume/internal/core/domain"

// Reloader pushes change notifications to connected browsers.
//
//go:generate mockgen -source=reloader.go -destination=mocks/mock_reloader.go -package=mocks
type Reloader interface {
	Reload(event domain.ReloadEvent)
}
