package view

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/juliandevatbs/SRLIMS/internal/report"
	"github.com/juliandevatbs/SRLIMS/internal/store"
	"github.com/juliandevatbs/SRLIMS/internal/table"
)

// Opener builds views from either kind of source.
type Opener struct {
	Loader   *report.Loader
	Database store.Config
	Log      logrus.FieldLogger

	// Root, when set, confines OpenWorkbook to files under that directory.
	// Relative paths are taken relative to Root.
	Root string
}

// OpenWorkbook reads a workbook into a new view.
func (o *Opener) OpenWorkbook(path string) (*ChainView, error) {
	path, err := o.resolve(path)
	if err != nil {
		return nil, err
	}

	ds, err := o.Loader.ReadWorkbook(path)
	if err != nil {
		return nil, err
	}
	return New(ds, nil), nil
}

// OpenBatch reads a batch from the database into a new view. The view owns
// the database connection and closes it when it is closed; on failure the
// connection is closed right away.
func (o *Opener) OpenBatch(ctx context.Context, batchID string) (*ChainView, error) {
	db, err := store.New(o.Database, o.Log)
	if err != nil {
		return nil, err
	}

	ds, err := report.ReadBatch(ctx, db, batchID, o.Log)
	if err != nil {
		if cerr := db.Close(); cerr != nil {
			o.Log.Warnf("Error closing database: %s", cerr)
		}
		return nil, err
	}

	return New(ds, db), nil
}

func (o *Opener) resolve(path string) (string, error) {
	if o.Root == "" {
		return path, nil
	}

	root, err := filepath.Abs(o.Root)
	if err != nil {
		return "", table.NewReadError(o.Root, err)
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	path = filepath.Clean(path)

	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Wrapf(table.ErrInvalidInput, "workbook %s is outside %s", path, root)
	}

	return path, nil
}
