package services

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"bitemebuddy/config"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Upload subdirectories
const (
	UploadServices = "services"
	UploadMenu     = "menu"
	UploadPlans    = "plans"
	UploadUsers    = "users"
)

var uploadKinds = []string{UploadServices, UploadMenu, UploadPlans, UploadUsers}

var (
	ErrUnsupportedType = errors.New("file type not allowed")
	ErrTooLarge        = errors.New("file too large")
)

// Uploader stores images on local disk and hands back their public URL
type Uploader struct {
	dir       string
	urlPrefix string
	maxSize   int64
	allowed   []string
}

func NewUploader(cfg config.UploadConfig) *Uploader {
	return &Uploader{
		dir:       cfg.Dir,
		urlPrefix: strings.TrimRight(cfg.URLPrefix, "/"),
		maxSize:   cfg.MaxSize,
		allowed:   cfg.AllowedTypes,
	}
}

// Dir is the root directory served under the URL prefix
func (u *Uploader) Dir() string { return u.dir }

// EnsureDirs creates the upload root and its subdirectories
func (u *Uploader) EnsureDirs() error {
	for _, kind := range uploadKinds {
		if err := os.MkdirAll(filepath.Join(u.dir, kind), 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Save stores an uploaded form file under kind
func (u *Uploader) Save(fh *multipart.FileHeader, kind string) (string, error) {
	if fh.Size > u.maxSize {
		return "", fmt.Errorf("%w: %d bytes, max %d", ErrTooLarge, fh.Size, u.maxSize)
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return u.SaveReader(f, kind)
}

// SaveReader checks size and content type of r, writes it under a random
// name and returns the URL it is served at.
func (u *Uploader) SaveReader(r io.Reader, kind string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, u.maxSize+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > u.maxSize {
		return "", fmt.Errorf("%w: max %d bytes", ErrTooLarge, u.maxSize)
	}

	mt := mimetype.Detect(data)
	if !u.isAllowed(mt) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
	}

	name := uuid.NewString() + mt.Extension()
	dir := filepath.Join(u.dir, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", err
	}
	return path.Join(u.urlPrefix, kind, name), nil
}

func (u *Uploader) isAllowed(mt *mimetype.MIME) bool {
	for _, allowed := range u.allowed {
		if mt.Is(allowed) {
			return true
		}
	}
	return false
}

// Delete removes the file behind a URL returned by Save. It reports whether
// a file was removed and never fails.
func (u *Uploader) Delete(url string) bool {
	if url == "" || !strings.HasPrefix(url, u.urlPrefix+"/") {
		return false
	}
	rel := path.Clean(strings.TrimPrefix(url, u.urlPrefix+"/"))
	if rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	if err := os.Remove(filepath.Join(u.dir, filepath.FromSlash(rel))); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("uploads: delete %s: %v", url, err)
		}
		return false
	}
	return true
}
