package uploads

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"omnia-tickets/internal/utils"
)

// Storage persists uploaded receipt files and hands back the path they are
// served from.
type Storage interface {
	Save(originalName string, r io.Reader) (string, error)
}

// DiskStorage writes receipts to a local directory served at /uploads/.
type DiskStorage struct {
	Dir string
}

func NewDiskStorage(dir string) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &DiskStorage{Dir: dir}, nil
}

// Save stores the file under a timestamp-derived name, keeping the original
// extension, and returns the public path.
func (s *DiskStorage) Save(originalName string, r io.Reader) (string, error) {
	name := utils.GenerateReceiptName(filepath.Ext(originalName))
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create receipt file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("write receipt file: %w", err)
	}
	return "/uploads/" + name, nil
}
