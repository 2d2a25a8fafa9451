package storage

import "cilastudio/internal/app/model"

// ResultStore persists finished results as downloadable files.
type ResultStore interface {
	SaveResult(result model.ContentResult) (string, error)
	LoadResult(ref string) (*model.ContentResult, error)
	SaveImage(id, dataURI string) (string, error)
	ListResults() ([]model.ContentResult, error)
}
