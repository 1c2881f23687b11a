// Package imagestore keeps at most one image file per product, named after the product id.
package imagestore

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// DefaultExtension is used when the uploaded filename carries no usable suffix.
const DefaultExtension = "png"

var ErrInvalidProductID = errors.New("invalid product id for image")

// Upload is an uploaded file as received from the client.
type Upload struct {
	Filename string
	Content  []byte
}

// IsEmpty reports whether there is nothing to store.
func (u *Upload) IsEmpty() bool {
	return u == nil || len(u.Content) == 0
}

// Store writes product images below dir on fs and hands out URLs under urlPrefix.
type Store struct {
	fs        afero.Fs
	dir       string
	urlPrefix string
}

func New(fs afero.Fs, dir, urlPrefix string) *Store {
	return &Store{
		fs:        fs,
		dir:       dir,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
	}
}

// NewOnDisk stores images on the operating system filesystem.
func NewOnDisk(dir, urlPrefix string) *Store {
	return New(afero.NewOsFs(), dir, urlPrefix)
}

// Extension derives the stored file extension from an original filename.
func Extension(filename string) string {
	base := path.Base(filepath.ToSlash(filename))
	idx := strings.LastIndex(base, ".")
	if filename == "" || idx < 0 || idx == len(base)-1 {
		return DefaultExtension
	}
	return strings.ToLower(base[idx+1:])
}

// Save writes the upload as <id>.<ext>, replacing whatever image the product had,
// and returns the public URL. An empty upload is a no-op that returns "".
func (s *Store) Save(productID int, up *Upload) (string, error) {
	if up.IsEmpty() {
		return "", nil
	}
	if productID <= 0 {
		return "", ErrInvalidProductID
	}

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	fileName := strconv.Itoa(productID) + "." + Extension(up.Filename)
	target := filepath.Join(s.dir, fileName)

	tmp := filepath.Join(s.dir, ".upload-"+uuid.NewString())
	if err := afero.WriteFile(s.fs, tmp, up.Content, 0o644); err != nil {
		_ = s.fs.Remove(tmp)
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := s.fs.Rename(tmp, target); err != nil {
		_ = s.fs.Remove(tmp)
		return "", fmt.Errorf("move image into place: %w", err)
	}

	if err := s.removeExcept(productID, target); err != nil {
		return "", err
	}

	return s.urlPrefix + "/" + fileName, nil
}

// Remove deletes every stored image of the product. A product without an image is not an error.
func (s *Store) Remove(productID int) error {
	if productID <= 0 {
		return ErrInvalidProductID
	}
	return s.removeExcept(productID, "")
}

// Files lists the stored image paths of a product.
func (s *Store) Files(productID int) ([]string, error) {
	return afero.Glob(s.fs, filepath.Join(s.dir, strconv.Itoa(productID)+".*"))
}

// FileSystem exposes stored images for serving over HTTP. Directories and
// hidden files such as in-flight uploads are reported as missing.
func (s *Store) FileSystem() http.FileSystem {
	return imagesOnly{afero.NewHttpFs(s.fs).Dir(s.dir)}
}

type imagesOnly struct {
	fs http.FileSystem
}

func (i imagesOnly) Open(name string) (http.File, error) {
	if strings.HasPrefix(path.Base(name), ".") {
		return nil, os.ErrNotExist
	}
	f, err := i.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}

// URLPrefix is the path prefix of the URLs returned by Save.
func (s *Store) URLPrefix() string {
	return s.urlPrefix
}

func (s *Store) removeExcept(productID int, keep string) error {
	matches, err := s.Files(productID)
	if err != nil {
		return fmt.Errorf("list images: %w", err)
	}
	for _, m := range matches {
		if m == keep {
			continue
		}
		if err := s.fs.Remove(m); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove stale image %s: %w", filepath.Base(m), err)
		}
	}
	return nil
}
