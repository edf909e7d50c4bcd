package iconstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

var _ Store = (*Disk)(nil)

// Disk stores icons under Dir. The application serves Dir at BaseURL.
type Disk struct {
	Dir     string
	BaseURL string
}

func NewDisk(dir, baseURL string) *Disk {
	return &Disk{Dir: dir, BaseURL: baseURL}
}

func (d *Disk) path(key string) (string, error) {
	if !filepath.IsLocal(filepath.FromSlash(key)) {
		return "", fmt.Errorf("iconstore: invalid key %q", key)
	}

	return filepath.Join(d.Dir, filepath.FromSlash(key)), nil
}

func (d *Disk) Put(_ context.Context, key, _ string, body io.Reader) error {
	p, err := d.path(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("iconstore: create dir: %w", err)
	}

	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("iconstore: create file: %w", err)
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return fmt.Errorf("iconstore: write file: %w", err)
	}

	return f.Close()
}

func (d *Disk) URL(_ context.Context, key string) (string, error) {
	if _, err := d.path(key); err != nil {
		return "", err
	}

	return path.Join(d.BaseURL, key), nil
}

func (d *Disk) Delete(_ context.Context, key string) error {
	p, err := d.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("iconstore: remove file: %w", err)
	}

	return nil
}
