package service

import (
	"context"
	"errors"
	"sync"

	"scopedocs/internal/model"
	"scopedocs/internal/scope"
)

// DialogState is the state of an ImportDialog.
type DialogState int

const (
	DialogClosed DialogState = iota
	DialogLoading
	DialogLoaded
	DialogLoadError
)

func (s DialogState) String() string {
	switch s {
	case DialogClosed:
		return "closed"
	case DialogLoading:
		return "loading"
	case DialogLoaded:
		return "loaded"
	case DialogLoadError:
		return "load_error"
	}
	return "unknown"
}

// ErrDialogState is returned for an action the current dialog state does not allow.
var ErrDialogState = errors.New("import dialog: action not allowed in current state")

// ImportDialog drives picking library documents for import into one target
// scope:
//
//	Closed -> Loading -> Loaded | LoadError
//	Loaded -Toggle-> Loaded
//	Loaded -Confirm-> Closed on success, Loaded with Err() on failure
//	any -Cancel-> Closed
type ImportDialog struct {
	bridge  LibraryBridge
	session scope.Session
	target  scope.Scope

	mu        sync.Mutex
	state     DialogState
	gen       int
	available []model.DocumentSummary
	selected  map[string]bool
	err       error
}

func NewImportDialog(bridge LibraryBridge, session scope.Session, target scope.Scope) *ImportDialog {
	return &ImportDialog{bridge: bridge, session: session, target: target}
}

// Open loads the library listing. A Cancel issued while loading wins; the
// late result is discarded.
func (d *ImportDialog) Open(ctx context.Context) error {
	d.mu.Lock()
	if d.state != DialogClosed {
		d.mu.Unlock()
		return ErrDialogState
	}
	d.state = DialogLoading
	d.gen++
	gen := d.gen
	d.mu.Unlock()

	docs, err := d.bridge.Browse(ctx, d.session)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gen != gen || d.state != DialogLoading {
		return nil
	}
	if err != nil {
		d.state = DialogLoadError
		d.err = err
		return err
	}
	d.state = DialogLoaded
	d.available = docs
	d.selected = make(map[string]bool)
	d.err = nil
	return nil
}

// Toggle flips the selection of id and reports whether it is now selected.
// IDs not in the listing are ignored.
func (d *ImportDialog) Toggle(id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != DialogLoaded {
		return false, ErrDialogState
	}
	for _, doc := range d.available {
		if doc.ID == id {
			d.selected[id] = !d.selected[id]
			if !d.selected[id] {
				delete(d.selected, id)
			}
			return d.selected[id], nil
		}
	}
	return false, nil
}

// Confirm imports the selection. On failure the dialog stays loaded and the
// error is kept for display.
func (d *ImportDialog) Confirm(ctx context.Context) ([]model.DocumentSummary, error) {
	d.mu.Lock()
	if d.state != DialogLoaded {
		d.mu.Unlock()
		return nil, ErrDialogState
	}
	ids := d.selectedLocked()
	gen := d.gen
	d.mu.Unlock()

	docs, err := d.bridge.ImportSelected(ctx, d.session, ids, d.target)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gen != gen || d.state != DialogLoaded {
		return docs, err
	}
	if err != nil {
		d.err = err
		return docs, err
	}
	d.resetLocked()
	return docs, nil
}

// Cancel closes the dialog from any state.
func (d *ImportDialog) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	d.resetLocked()
}

func (d *ImportDialog) State() DialogState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Err is the last load or import error.
func (d *ImportDialog) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

func (d *ImportDialog) Available() []model.DocumentSummary {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]model.DocumentSummary(nil), d.available...)
}

// Selected returns the selected IDs in listing order.
func (d *ImportDialog) Selected() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selectedLocked()
}

func (d *ImportDialog) selectedLocked() []string {
	ids := make([]string, 0, len(d.selected))
	for _, doc := range d.available {
		if d.selected[doc.ID] {
			ids = append(ids, doc.ID)
		}
	}
	return ids
}

func (d *ImportDialog) resetLocked() {
	d.state = DialogClosed
	d.available = nil
	d.selected = nil
	d.err = nil
}
