// Package filestore persiste los blobs de proyecto como un documento JSON por
// proyecto bajo un directorio base.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jhoicas/projectdesk-api/internal/domain"
	"github.com/jhoicas/projectdesk-api/internal/domain/entity"
	"github.com/jhoicas/projectdesk-api/internal/domain/repository"
	"github.com/jhoicas/projectdesk-api/internal/infrastructure/memory"
)

var (
	_ repository.ProjectBlobRepository = (*BlobStore)(nil)
	_ repository.SummaryRepository     = (*BlobStore)(nil)
)

const ext = ".json"

// BlobStore escribe <dir>/<projectID>.json de forma atómica (archivo temporal + rename).
type BlobStore struct {
	dir string
}

// New crea el directorio base si hace falta.
func New(dir string) (*BlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create store dir: %v", domain.ErrStorage, err)
	}
	return &BlobStore{dir: dir}, nil
}

func (s *BlobStore) path(projectID string) (string, error) {
	if projectID == "" || strings.ContainsAny(projectID, `/\`) || strings.HasPrefix(projectID, ".") {
		return "", fmt.Errorf("%w: project id %q", domain.ErrInvalidInput, projectID)
	}
	return filepath.Join(s.dir, projectID+ext), nil
}

func (s *BlobStore) Load(_ context.Context, projectID string) (*entity.ProjectBlob, error) {
	p, err := s.path(projectID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &entity.ProjectBlob{}, nil
		}
		return nil, fmt.Errorf("%w: read project %s: %v", domain.ErrStorage, projectID, err)
	}
	var blob entity.ProjectBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("%w: decode project %s: %v", domain.ErrStorage, projectID, err)
	}
	return &blob, nil
}

func (s *BlobStore) Save(_ context.Context, projectID string, blob *entity.ProjectBlob) error {
	p, err := s.path(projectID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(blob, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode project %s: %v", domain.ErrStorage, projectID, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+projectID+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: temp file: %v", domain.ErrStorage, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: write project %s: %v", domain.ErrStorage, projectID, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: sync project %s: %v", domain.ErrStorage, projectID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close project %s: %v", domain.ErrStorage, projectID, err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		return fmt.Errorf("%w: replace project %s: %v", domain.ErrStorage, projectID, err)
	}
	return nil
}

// List resume cada archivo de proyecto, el modificado más recientemente primero.
func (s *BlobStore) List(ctx context.Context, limit, offset int) ([]repository.ProjectSummarySnapshot, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: list store dir: %v", domain.ErrStorage, err)
	}

	type item struct {
		id   string
		info fs.FileInfo
	}
	var items []item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ext) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		items = append(items, item{id: strings.TrimSuffix(name, ext), info: info})
	}
	sort.Slice(items, func(i, j int) bool {
		mi, mj := items[i].info.ModTime(), items[j].info.ModTime()
		if !mi.Equal(mj) {
			return mi.After(mj)
		}
		return items[i].id < items[j].id
	})

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 || offset >= len(items) {
		return []repository.ProjectSummarySnapshot{}, nil
	}
	end := min(offset+limit, len(items))

	out := make([]repository.ProjectSummarySnapshot, 0, end-offset)
	for _, it := range items[offset:end] {
		blob, err := s.Load(ctx, it.id)
		if err != nil {
			return nil, err
		}
		out = append(out, memory.Snapshot(it.id, blob.Invoices, it.info.ModTime().UTC()))
	}
	return out, nil
}
