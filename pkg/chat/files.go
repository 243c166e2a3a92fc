package chat

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultMaxFileSize is the largest attachment accepted.
const DefaultMaxFileSize = 10 * 1024 * 1024

var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("file type not supported")
)

var mimeByExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".txt":  "text/plain",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".json": "application/json",
	".csv":  "text/csv",
}

var allowedTypes = map[string]bool{
	"image/jpeg":         true,
	"image/jpg":          true,
	"image/png":          true,
	"image/gif":          true,
	"image/webp":         true,
	"text/plain":         true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// FileRef is a file attached to an outgoing message.
type FileRef struct {
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
	Size     int64  `json:"size"`
	Data     []byte `json:"-"`
}

func (f FileRef) IsImage() bool {
	return strings.HasPrefix(f.MIMEType, "image/")
}

// MIMEType guesses the content type from the file extension.
func MIMEType(name string) string {
	if mt, ok := mimeByExt[strings.ToLower(filepath.Ext(name))]; ok {
		return mt
	}
	return "application/octet-stream"
}

// ValidateFile checks the size limit and the allowed type list.
func ValidateFile(name, mimeType string, size, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	if size > maxSize {
		return fmt.Errorf("%s: %w (maximum is %dMB)", name, ErrFileTooLarge, maxSize/(1024*1024))
	}
	if !allowedTypes[mimeType] {
		return fmt.Errorf("%s: %w: %s", name, ErrUnsupportedType, mimeType)
	}
	return nil
}

// LoadFile validates and reads one attachment from disk.
func LoadFile(path string, maxSize int64) (FileRef, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileRef{}, fmt.Errorf("stat attachment: %w", err)
	}
	if info.IsDir() {
		return FileRef{}, fmt.Errorf("%s is a directory", path)
	}

	name := filepath.Base(path)
	mt := MIMEType(name)
	if err := ValidateFile(name, mt, info.Size(), maxSize); err != nil {
		return FileRef{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return FileRef{}, fmt.Errorf("read attachment: %w", err)
	}
	return FileRef{Name: name, MIMEType: mt, Size: int64(len(data)), Data: data}, nil
}

// ExpandAttachments resolves each pattern, which may use ** globs, to the
// files it matches. A pattern without glob characters is returned as is so
// a missing file surfaces as a load error.
func ExpandAttachments(patterns []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if !strings.ContainsAny(pattern, "*?[{") {
			if !seen[pattern] {
				seen[pattern] = true
				paths = append(paths, pattern)
			}
			continue
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	return paths, nil
}

// Attachments is the list of files pending for the next message. A file
// with the same name and size as one already attached is ignored.
type Attachments struct {
	mu      sync.Mutex
	maxSize int64
	files   []FileRef
}

func NewAttachments(maxSize int64) *Attachments {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return &Attachments{maxSize: maxSize}
}

// Add attaches f after validating it. It reports whether the file was new.
func (a *Attachments) Add(f FileRef) (bool, error) {
	if err := ValidateFile(f.Name, f.MIMEType, f.Size, a.maxSize); err != nil {
		return false, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, existing := range a.files {
		if existing.Name == f.Name && existing.Size == f.Size {
			return false, nil
		}
	}
	a.files = append(a.files, f)
	return true, nil
}

// AddPaths loads every file matched by patterns. Files that fail to load are
// reported together; the rest are still attached.
func (a *Attachments) AddPaths(patterns []string) (int, error) {
	paths, err := ExpandAttachments(patterns)
	if err != nil {
		return 0, err
	}

	added := 0
	var errs []error
	for _, p := range paths {
		f, err := LoadFile(p, a.maxSize)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ok, err := a.Add(f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			added++
		}
	}
	return added, errors.Join(errs...)
}

func (a *Attachments) Remove(index int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if index < 0 || index >= len(a.files) {
		return false
	}
	a.files = append(a.files[:index], a.files[index+1:]...)
	return true
}

func (a *Attachments) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.files = nil
}

func (a *Attachments) Files() []FileRef {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]FileRef(nil), a.files...)
}

func (a *Attachments) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.files)
}
