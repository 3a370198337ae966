package storage

import (
	"errors"

	"github.com/leca/arexplorer-images/internal/model"
)

var (
	// ErrNotFound is returned when no directory exists for the requested image.
	ErrNotFound = errors.New("image not found")

	// ErrInvalidInput is returned when a save or lookup violates its preconditions.
	ErrInvalidInput = errors.New("invalid input")
)

// Repository defines the interface for image persistence and queries.
type Repository interface {
	// Save writes the image, its metadata and a derived thumbnail,
	// replacing any previous record with the same owner and id.
	Save(img *model.Image) error

	// Get returns the full-resolution image and metadata without thumbnail.
	Get(ownerID, imageID string) (*model.Image, error)

	// List returns thumbnails and metadata of the records matching f.
	List(ownerID string, f Filter) ([]*model.Image, error)

	// Delete removes the record. Deleting a missing record is not an error.
	Delete(ownerID, imageID string) error
}
