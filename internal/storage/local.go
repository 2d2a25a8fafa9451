package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cilastudio/internal/app/model"
	"cilastudio/internal/normalize"
)

const (
	resultPrefix = "cila_content_"
	imagePrefix  = "cila_image_"
)

var ErrInvalidID = errors.New("invalid result id")

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
	"image/gif":  "gif",
}

type LocalStorage struct {
	outputDir string
}

func NewLocalStorage(outputDir string) *LocalStorage {
	return &LocalStorage{outputDir: outputDir}
}

func (s *LocalStorage) OutputDir() string {
	return s.outputDir
}

func (s *LocalStorage) ResultPath(id string) string {
	return filepath.Join(s.outputDir, resultPrefix+id+".json")
}

func (s *LocalStorage) SaveResult(result model.ContentResult) (string, error) {
	if err := validateID(result.ID); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}

	path := s.ResultPath(result.ID)
	if err := s.write(path, data); err != nil {
		return "", fmt.Errorf("failed to write result file: %w", err)
	}

	return path, nil
}

// LoadResult accepts either a path to a result file or a bare result ID.
func (s *LocalStorage) LoadResult(ref string) (*model.ContentResult, error) {
	path := ref
	if !strings.HasSuffix(ref, ".json") {
		if err := validateID(ref); err != nil {
			return nil, err
		}
		path = s.ResultPath(ref)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read result file: %w", err)
	}

	var result model.ContentResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse result file %s: %w", path, err)
	}
	if result.ID == "" {
		return nil, fmt.Errorf("result file %s has no id", path)
	}

	return &result, nil
}

func (s *LocalStorage) SaveImage(id, dataURI string) (string, error) {
	if err := validateID(id); err != nil {
		return "", err
	}

	mimeType, data, err := normalize.DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	ext, ok := imageExtensions[mimeType]
	if !ok {
		ext = "png"
	}

	path := filepath.Join(s.outputDir, imagePrefix+id+"."+ext)
	if err := s.write(path, data); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return path, nil
}

// ListResults returns every saved result, newest first.
func (s *LocalStorage) ListResults() ([]model.ContentResult, error) {
	entries, err := os.ReadDir(s.outputDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	var results []model.ContentResult
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, resultPrefix) || filepath.Ext(name) != ".json" {
			continue
		}
		result, err := s.LoadResult(filepath.Join(s.outputDir, name))
		if err != nil {
			slog.Warn("Skipping unreadable result file", "file", name, "error", err)
			continue
		}
		results = append(results, *result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	return results, nil
}

func (s *LocalStorage) write(path string, data []byte) error {
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func validateID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}
