package metadata

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/leca/arexplorer-images/internal/model"
)

// SchemaVersion is written into every sidecar produced by Encode.
// Sidecars without a version tag are treated as version 1.
const SchemaVersion = 2

var errMissing = errors.New("required field missing")

// DecodeError reports a sidecar that could not be turned into an image record.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("decode metadata: field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("decode metadata: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// sidecar is the on-disk JSON shape. Pointer fields distinguish "missing"
// from zero so legacy files can be defaulted and required fields enforced.
type sidecar struct {
	SchemaVersion int      `json:"schemaVersion,omitempty"`
	ID            string   `json:"id"`
	OwnerID       string   `json:"ownerId,omitempty"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
	Date          *string  `json:"date"`
	Source        string   `json:"source"`
	Bearing       int      `json:"bearing"`
	Yaw           *float32 `json:"yaw,omitempty"`
	Pitch         *float32 `json:"pitch,omitempty"`
	PublicImage   *int     `json:"publicImage,omitempty"`
}

// Encode serialises the metadata fields of img. Data and Thumbnail are never
// written.
func Encode(img *model.Image) ([]byte, error) {
	s := sidecar{
		SchemaVersion: SchemaVersion,
		ID:            img.ID,
		OwnerID:       img.OwnerID,
		Lat:           &img.Lat,
		Lng:           &img.Lng,
		Date:          &img.Date,
		Source:        img.Source,
		Bearing:       img.Bearing,
		Yaw:           &img.Yaw,
		Pitch:         &img.Pitch,
		PublicImage:   &img.PublicImage,
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return data, nil
}

// Decode parses a sidecar written by any schema version. Unknown fields are
// ignored and missing optional fields keep their zero value; lat, lng and
// date are required.
func Decode(data []byte) (*model.Image, error) {
	var s sidecar
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, &DecodeError{Err: err}
	}

	switch {
	case s.Lat == nil:
		return nil, &DecodeError{Field: "lat", Err: errMissing}
	case s.Lng == nil:
		return nil, &DecodeError{Field: "lng", Err: errMissing}
	case s.Date == nil:
		return nil, &DecodeError{Field: "date", Err: errMissing}
	}

	img := &model.Image{
		ID:      s.ID,
		OwnerID: s.OwnerID,
		Lat:     *s.Lat,
		Lng:     *s.Lng,
		Date:    *s.Date,
		Source:  s.Source,
		Bearing: s.Bearing,
	}
	if s.Yaw != nil {
		img.Yaw = *s.Yaw
	}
	if s.Pitch != nil {
		img.Pitch = *s.Pitch
	}
	if s.PublicImage != nil {
		img.PublicImage = *s.PublicImage
	}
	return img, nil
}

// Version returns the schema version tag of a sidecar, 1 when untagged.
func Version(data []byte) (int, error) {
	var v struct {
		SchemaVersion int `json:"schemaVersion"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, &DecodeError{Err: err}
	}
	if v.SchemaVersion == 0 {
		return 1, nil
	}
	return v.SchemaVersion, nil
}
