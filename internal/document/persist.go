package document

import (
	"errors"
	"fmt"

	"github.com/idilsaglam/taskbarn/internal/store/jsonstore"
)

// ErrInvalidFormat is returned by Load for files that exist but do not
// hold a TaskBarn document.
var ErrInvalidFormat = jsonstore.ErrInvalidFormat

// Load replaces the content with the file at path. A missing file gives
// an empty document bound to path. On any error the document is left
// unchanged.
func (d *Document) Load(path string) error {
	snap, err := jsonstore.Load(path)
	if err != nil {
		if errors.Is(err, jsonstore.ErrInvalidFormat) {
			d.logger.Error("document rejected", "path", path, "err", err)
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	for _, w := range snap.Warnings {
		d.logger.Warn("skipped checkbox entry", "path", path, "group", w.Title, "entry", w.Entry, "reason", w.Msg)
	}

	d.groups = nil
	d.seq = make(map[string]int)
	d.nextSeq = 0
	for _, g := range snap.Groups {
		d.insert(g)
	}
	d.filePath = path
	d.dirty = false
	d.resort()
	d.logger.Info("document loaded", "path", path, "groups", len(d.groups), "missing", snap.Missing)
	d.emit(Change{Kind: Loaded})
	return nil
}

// Save writes the groups in display order to path, or to the bound file
// when path is empty. The document stays dirty if the write fails.
func (d *Document) Save(path string) error {
	if path == "" {
		path = d.filePath
	}
	if path == "" {
		path = jsonstore.DefaultFileName
	}
	if err := jsonstore.Save(path, d.groups); err != nil {
		d.logger.Error("save failed", "path", path, "err", err)
		return fmt.Errorf("save %s: %w", path, err)
	}
	d.filePath = path
	d.dirty = false
	d.logger.Info("document saved", "path", path, "groups", len(d.groups))
	d.emit(Change{Kind: Saved})
	return nil
}
