package main

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"workboard/models"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Local object storage: files live under storageBase/<bucket>/ keyed by a
// generated path and are served read-only under /files.

var storageBase = "storage"

const (
	templateBucket = "templates"
	maxUploadBytes = 10 << 20 // 10 MB
	thumbEdge      = 320
)

// allowedUploadTypes maps acceptable MIME types to the template kind they
// produce. Everything else is rejected before touching disk.
var allowedUploadTypes = map[string]models.TemplateKind{
	"image/png":       models.KindImage,
	"image/jpeg":      models.KindImage,
	"application/pdf": models.KindPDF,
}

// ensureBucket creates the bucket directory if absent.
func ensureBucket(bucket string) error {
	return os.MkdirAll(filepath.Join(storageBase, bucket), 0755)
}

// validateUpload enforces the storage constraints (MIME whitelist, size
// cap) and reports the template kind for the payload.
func validateUpload(fh *multipart.FileHeader) (models.TemplateKind, string, error) {
	if fh.Size > maxUploadBytes {
		return "", "", fmt.Errorf("file too large (max 10MB)")
	}
	ctype := fh.Header.Get("Content-Type")
	kind, ok := allowedUploadTypes[ctype]
	if !ok {
		return "", "", fmt.Errorf("unsupported content type %q (images and PDF only)", ctype)
	}
	return kind, ctype, nil
}

// objectPath generates a collision-free storage key for an upload,
// preserving the original extension. Returns the relative store path and
// the absolute filesystem path.
func objectPath(bucket, filename string) (string, string) {
	ext := strings.ToLower(filepath.Ext(filename))
	name := uuid.New().String() + ext
	rel := filepath.ToSlash(filepath.Join(bucket, name))
	return rel, filepath.Join(storageBase, bucket, name)
}

func publicURLFor(storePath string) string {
	return "/files/" + storePath
}

// makeThumbnail renders a JPEG thumbnail next to a stored image and returns
// its public URL. Callers treat failure as cosmetic.
func makeThumbnail(fullPath, storePath string) (string, error) {
	img, err := imaging.Open(fullPath)
	if err != nil {
		return "", err
	}
	thumb := imaging.Thumbnail(img, thumbEdge, thumbEdge, imaging.Lanczos)
	dir, base := filepath.Split(fullPath)
	thumbName := "thumb_" + strings.TrimSuffix(base, filepath.Ext(base)) + ".jpg"
	if err := imaging.Save(thumb, filepath.Join(dir, thumbName)); err != nil {
		return "", err
	}
	relDir, _ := filepath.Split(storePath)
	return publicURLFor(filepath.ToSlash(filepath.Join(relDir, thumbName))), nil
}

// removeObject deletes a stored object and its thumbnail if present.
func removeObject(storePath string) {
	full := filepath.Join(storageBase, filepath.FromSlash(storePath))
	_ = os.Remove(full)
	dir, base := filepath.Split(full)
	_ = os.Remove(filepath.Join(dir, "thumb_"+strings.TrimSuffix(base, filepath.Ext(base))+".jpg"))
}
