package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/leca/arexplorer-images/internal/imageproc"
	"github.com/leca/arexplorer-images/internal/metadata"
	"github.com/leca/arexplorer-images/internal/model"
)

// Compile-time check that FileSystem implements Repository.
var _ Repository = (*FileSystem)(nil)

const (
	metadataExt = ".json"
	imageExt    = ".jpg"
	thumbSuffix = "-thumb.jpg"
)

// FileSystem implements Repository using the local filesystem.
// Each record lives in its own directory:
//
//	<basePath>/<ownerID>/<imageID>/<imageID>.json
//	<basePath>/<ownerID>/<imageID>/<imageID>.jpg
//	<basePath>/<ownerID>/<imageID>/<imageID>-thumb.jpg
//
// There is no locking; concurrent saves to the same record may interleave.
type FileSystem struct {
	basePath  string
	logger    *slog.Logger
	thumbnail func([]byte) ([]byte, error)
}

// NewFileSystem creates a FileSystem rooted at basePath, creating the
// directory if it does not exist.
func NewFileSystem(basePath string, logger *slog.Logger) (*FileSystem, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory %s: %w", basePath, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSystem{
		basePath:  basePath,
		logger:    logger,
		thumbnail: imageproc.Thumbnail,
	}, nil
}

// ownerPath returns the directory holding all images of an owner.
func (fs *FileSystem) ownerPath(ownerID string) string {
	return filepath.Join(fs.basePath, ownerID)
}

// imagePath returns the directory path for a given owner and image.
func (fs *FileSystem) imagePath(ownerID, imageID string) string {
	return filepath.Join(fs.ownerPath(ownerID), imageID)
}

// Save writes the metadata sidecar, then the full image, then the thumbnail.
// A failed thumbnail is logged and leaves the record without one; such
// records are never listed but can still be fetched with Get.
func (fs *FileSystem) Save(img *model.Image) error {
	if err := validateSegment("owner id", img.OwnerID); err != nil {
		return err
	}
	if err := validateSegment("image id", img.ID); err != nil {
		return err
	}
	if len(img.Data) == 0 {
		return fmt.Errorf("%w: image data is empty", ErrInvalidInput)
	}

	dir := fs.imagePath(img.OwnerID, img.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	meta, err := metadata.Encode(img)
	if err != nil {
		return err
	}
	if err := writeFile(dir, img.ID+metadataExt, meta); err != nil {
		return err
	}
	if err := writeFile(dir, img.ID+imageExt, img.Data); err != nil {
		return err
	}

	thumb, err := fs.thumbnail(img.Data)
	if err != nil {
		fs.logger.Warn("thumbnail generation failed, image will not be listed",
			"owner_id", img.OwnerID, "image_id", img.ID, "error", err)

		// Drop the thumbnail of a previous save so it cannot outlive its image.
		stale := filepath.Join(dir, img.ID+thumbSuffix)
		if err := os.Remove(stale); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing stale thumbnail %s: %w", stale, err)
		}
		return nil
	}
	if err := writeFile(dir, img.ID+thumbSuffix, thumb); err != nil {
		return err
	}

	fs.logger.Debug("image saved", "owner_id", img.OwnerID, "image_id", img.ID, "bytes", len(img.Data))
	return nil
}

// Get returns the full image and metadata for ownerID/imageID. The public
// namespace is consulted only when the owner has no directory at all.
func (fs *FileSystem) Get(ownerID, imageID string) (*model.Image, error) {
	if err := validateSegment("owner id", ownerID); err != nil {
		return nil, err
	}
	if err := validateSegment("image id", imageID); err != nil {
		return nil, err
	}

	owner := ownerID
	if _, err := os.Stat(fs.ownerPath(ownerID)); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("checking owner directory: %w", err)
		}
		owner = model.PublicOwner
	}
	return fs.load(owner, imageID)
}

func (fs *FileSystem) load(ownerID, imageID string) (*model.Image, error) {
	dir := fs.imagePath(ownerID, imageID)

	img, err := readSidecar(filepath.Join(dir, imageID+metadataExt))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, ownerID, imageID)
		}
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(dir, imageID+imageExt))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s/%s has no image file", ErrNotFound, ownerID, imageID)
		}
		return nil, fmt.Errorf("reading image %s/%s: %w", ownerID, imageID, err)
	}

	if img.ID == "" {
		img.ID = imageID
	}
	img.OwnerID = ownerID
	img.Data = data
	img.Thumbnail = []byte{}
	return img, nil
}

// List scans the owner's directory, and the public one when requested, and
// returns every record with a thumbnail that passes f. Records whose
// sidecar cannot be decoded are skipped. Order follows the directory walk.
// A filter that can match nothing returns without scanning.
func (fs *FileSystem) List(ownerID string, f Filter) ([]*model.Image, error) {
	if err := validateSegment("owner id", ownerID); err != nil {
		return nil, err
	}

	c := f.compile()
	if !c.satisfiable() {
		return []*model.Image{}, nil
	}

	images, err := fs.scan(ownerID, c)
	if err != nil {
		return nil, err
	}

	if f.IncludePublic && ownerID != model.PublicOwner {
		public, err := fs.scan(model.PublicOwner, c)
		if err != nil {
			return nil, err
		}
		images = append(images, public...)
	}
	return images, nil
}

func (fs *FileSystem) scan(ownerID string, c compiledFilter) ([]*model.Image, error) {
	images := []*model.Image{}

	root := fs.ownerPath(ownerID)
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return images, nil
		}
		return nil, fmt.Errorf("checking owner directory: %w", err)
	}

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		// Only <id>/<id>-thumb.jpg marks a record; this also keeps ids that
		// themselves end in "-thumb" from being mistaken for thumbnails.
		dir := filepath.Dir(path)
		imageID := filepath.Base(dir)
		if d.Name() != imageID+thumbSuffix {
			return nil
		}

		img, err := readSidecar(filepath.Join(dir, imageID+metadataExt))
		if err != nil {
			var decErr *metadata.DecodeError
			if errors.As(err, &decErr) || errors.Is(err, os.ErrNotExist) {
				fs.logger.Warn("skipping unreadable image record", "path", path, "error", err)
				return nil
			}
			return err
		}

		captured, err := time.Parse(DateLayout, img.Date)
		if err != nil {
			fs.logger.Debug("capture date not in expected layout, record not listed",
				"path", path, "date", img.Date, "layout", DateLayout)
			return nil
		}
		if !c.matches(captured, img) {
			return nil
		}

		thumb, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading thumbnail %s: %w", path, err)
		}

		if img.ID == "" {
			img.ID = imageID
		}
		img.OwnerID = ownerID
		img.Data = []byte{}
		img.Thumbnail = thumb
		images = append(images, img)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	return images, nil
}

// Delete removes the entire <ownerID>/<imageID>/ directory.
// It is idempotent: deleting a non-existent image returns no error.
func (fs *FileSystem) Delete(ownerID, imageID string) error {
	if err := validateSegment("owner id", ownerID); err != nil {
		return err
	}
	if err := validateSegment("image id", imageID); err != nil {
		return err
	}

	dir := fs.imagePath(ownerID, imageID)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing directory %s: %w", dir, err)
	}
	fs.logger.Debug("image deleted", "owner_id", ownerID, "image_id", imageID)
	return nil
}

// readSidecar loads and decodes a metadata file. Missing files surface as
// os.ErrNotExist, malformed ones as *metadata.DecodeError.
func readSidecar(path string) (*model.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading metadata %s: %w", path, err)
	}
	img, err := metadata.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// writeFile replaces dir/name with data using a temp file + rename so
// readers never observe a half-written artifact.
func writeFile(dir, name string, data []byte) error {
	tmp, err := os.CreateTemp(dir, "upload-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	// Clean up the temp file on any error path.
	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	dst := filepath.Join(dir, name)
	if err := os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", dst, err)
	}
	tmpPath = ""
	return nil
}

// validateSegment rejects ids that are empty or would escape their directory.
func validateSegment(kind, id string) error {
	if id == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, kind)
	}
	if id == "." || id == ".." || strings.ContainsAny(id, `/\`) || strings.ContainsRune(id, 0) {
		return fmt.Errorf("%w: %s %q is not a valid path segment", ErrInvalidInput, kind, id)
	}
	return nil
}
