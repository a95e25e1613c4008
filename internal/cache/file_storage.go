package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const fileExtension = ".json"

// ErrInvalidKey is returned for keys that would resolve outside the storage directory.
var ErrInvalidKey = errors.New("invalid storage key")

// FileStorage stores each item as a JSON file named after its key under rootDir.
type FileStorage struct {
	rootDir string
}

func NewFileStorage(rootDir string) *FileStorage {
	return &FileStorage{
		rootDir: rootDir,
	}
}

func (f *FileStorage) filePath(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(f.rootDir, key+fileExtension), nil
}

func (f *FileStorage) GetItem(key string) (string, bool, error) {
	path, err := f.filePath(key)
	if err != nil {
		return "", false, err
	}
	contents, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("os.ReadFile > %w", err)
	}
	return string(contents), true, nil
}

func (f *FileStorage) SetItem(key, value string) error {
	path, err := f.filePath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.rootDir, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", f.rootDir, err)
	}

	// Write to a temporary file first so a crash never leaves a truncated blob behind.
	tmp, err := os.CreateTemp(f.rootDir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp > %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("file.WriteString > %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file.Close > %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("os.Rename > %w", err)
	}
	return nil
}

func (f *FileStorage) RemoveItem(key string) error {
	path, err := f.filePath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("os.Remove > %w", err)
	}
	return nil
}

func (f *FileStorage) Keys(prefix string) ([]string, error) {
	files, err := os.ReadDir(f.rootDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadDir > %w", err)
	}

	keys := make([]string, 0, len(files))
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), fileExtension) {
			continue
		}
		key := strings.TrimSuffix(file.Name(), fileExtension)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
