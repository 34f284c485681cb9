package store

import "github.com/aaravmahajanofficial/storefront/internal/models"

// Serialize returns the public view of entities that define one and the
// entity itself otherwise.
func Serialize(entity models.Entity) any {
	if viewer, ok := entity.(models.PublicViewer); ok {
		return viewer.PublicView()
	}

	return entity
}

func SerializeAll[T models.Entity](entities []T) []any {
	views := make([]any, 0, len(entities))

	for _, entity := range entities {
		views = append(views, Serialize(entity))
	}

	return views
}
