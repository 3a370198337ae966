package handler

import (
	"encoding/json"
	"errors"
	"html"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/leca/arexplorer-images/internal/api"
	"github.com/leca/arexplorer-images/internal/model"
	"github.com/leca/arexplorer-images/internal/storage"
)

// newImageRequest is the JSON body for uploading an image.
type newImageRequest struct {
	UserID      string  `json:"userID"`
	ID          string  `json:"id"`
	Data        []byte  `json:"data"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Date        string  `json:"date"`
	Source      string  `json:"source"`
	Bearing     int     `json:"bearing"`
	Yaw         float32 `json:"yaw"`
	Pitch       float32 `json:"pitch"`
	PublicImage int     `json:"publicImage"`
}

// imageListResponse wraps listing results.
type imageListResponse struct {
	APIImages []*model.Image `json:"apiImages"`
}

// CreateImage handles POST /images.
func (h *Handler) CreateImage(w http.ResponseWriter, r *http.Request) {
	var req newImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			api.TooLarge(w, "request body too large")
			return
		}
		api.BadRequest(w, "invalid JSON body: "+err.Error())
		return
	}

	if h.containsMarkup(req.Source) {
		h.Logger.Info("image source contains markup, stored as sent",
			"user_id", req.UserID, "image_id", req.ID)
	}

	img := &model.Image{
		ID:          req.ID,
		OwnerID:     req.UserID,
		Data:        req.Data,
		Lat:         req.Lat,
		Lng:         req.Lng,
		Date:        req.Date,
		Source:      req.Source,
		Bearing:     req.Bearing,
		Yaw:         req.Yaw,
		Pitch:       req.Pitch,
		PublicImage: req.PublicImage,
	}

	if err := h.Store.Save(img); err != nil {
		if errors.Is(err, storage.ErrInvalidInput) {
			api.BadRequest(w, err.Error())
			return
		}
		h.Logger.Error("failed to save image", "user_id", req.UserID, "image_id", req.ID, "error", err)
		api.InternalError(w, "failed to store image")
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// ListImages handles GET /images.
//
// Missing lat, lng and radius default to 0, which is indistinguishable
// from an explicit zero.
func (h *Handler) ListImages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	userID := q.Get("userID")
	if userID == "" {
		api.BadRequest(w, "userID is required")
		return
	}

	f := storage.Filter{
		StartDate:     q.Get("startDate"),
		EndDate:       q.Get("endDate"),
		IncludePublic: q.Get("includePublic") == "true",
	}

	var err error
	if f.Lat, err = floatParam(q.Get("lat")); err != nil {
		api.BadRequest(w, "invalid lat: "+err.Error())
		return
	}
	if f.Lng, err = floatParam(q.Get("lng")); err != nil {
		api.BadRequest(w, "invalid lng: "+err.Error())
		return
	}
	if f.Radius, err = floatParam(q.Get("radius")); err != nil {
		api.BadRequest(w, "invalid radius: "+err.Error())
		return
	}

	images, err := h.Store.List(userID, f)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidInput) {
			api.BadRequest(w, err.Error())
			return
		}
		h.Logger.Error("failed to list images", "user_id", userID, "error", err)
		api.InternalError(w, "failed to list images")
		return
	}

	api.WriteJSON(w, http.StatusOK, imageListResponse{APIImages: images})
}

// GetImage handles GET /images/{userID}/{imageId}. An absent image yields
// 200 with an empty body.
func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	userID := api.GetUserID(r.Context())
	imageID := chi.URLParam(r, "imageId")

	img, err := h.Store.Get(userID, imageID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			w.WriteHeader(http.StatusOK)
		case errors.Is(err, storage.ErrInvalidInput):
			api.BadRequest(w, err.Error())
		default:
			h.Logger.Error("failed to read image", "user_id", userID, "image_id", imageID, "error", err)
			api.InternalError(w, "failed to read image")
		}
		return
	}

	api.WriteJSON(w, http.StatusOK, img)
}

// DeleteImage handles DELETE /images/{userID}/{imageId}.
func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	userID := api.GetUserID(r.Context())
	imageID := chi.URLParam(r, "imageId")

	if err := h.Store.Delete(userID, imageID); err != nil {
		if errors.Is(err, storage.ErrInvalidInput) {
			api.BadRequest(w, err.Error())
			return
		}
		h.Logger.Error("failed to delete image", "user_id", userID, "image_id", imageID, "error", err)
		api.InternalError(w, "failed to delete image")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// floatParam parses an optional numeric query value, defaulting to 0.
func floatParam(v string) (*float64, error) {
	if v == "" {
		zero := 0.0
		return &zero, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// containsMarkup reports whether the strict policy would alter s. The value
// itself is never rewritten; JSON encoding escapes it on the way out.
func (h *Handler) containsMarkup(s string) bool {
	return h.sanitizer.Sanitize(s) != html.EscapeString(s)
}
