package model

// PublicOwner is the reserved owner namespace shared by all users.
const PublicOwner = "public"

// Image is a geotagged photograph together with its capture metadata.
//
// Data holds the full-resolution JPEG and Thumbnail the derived 256x256
// preview; listings populate only Thumbnail, single lookups only Data.
type Image struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"-"`
	Data        []byte  `json:"data"`
	Thumbnail   []byte  `json:"thumbnail"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Date        string  `json:"date"`
	Source      string  `json:"source"`
	Bearing     int     `json:"bearing"`
	Yaw         float32 `json:"yaw"`
	Pitch       float32 `json:"pitch"`
	PublicImage int     `json:"publicImage"`
}
