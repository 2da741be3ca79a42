package doc

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/signadot/tony-include/debug"
	"github.com/signadot/tony-include/format"
	"github.com/signadot/tony-include/parse"
)

// Workspace is the registry of open documents.
type Workspace struct {
	mu       sync.RWMutex
	docs     map[ID]*Document
	expander Expander
}

func NewWorkspace() *Workspace {
	return &Workspace{docs: map[ID]*Document{}}
}

type openOpts struct {
	format    *format.Format
	parseOpts []parse.ParseOption
}

type OpenOption func(*openOpts)

// OpenFormat fixes the source format instead of guessing it from the ID.
func OpenFormat(f format.Format) OpenOption {
	return func(o *openOpts) { o.format = &f }
}

// OpenParseOptions adds parse options used for the first parse and every
// Reparse of the document.
func OpenParseOptions(opts ...parse.ParseOption) OpenOption {
	return func(o *openOpts) { o.parseOpts = append(o.parseOpts, opts...) }
}

// Open parses src and registers it under id.
func (w *Workspace) Open(id ID, src []byte, opts ...OpenOption) (*Document, error) {
	o := &openOpts{}
	for _, opt := range opts {
		opt(o)
	}
	f := format.FromPath(string(id))
	if o.format != nil {
		f = *o.format
	}
	d := &Document{
		id:        id,
		ws:        w,
		parseOpts: append([]parse.ParseOption{parse.ParseFormat(f)}, o.parseOpts...),
	}
	if err := d.Reparse(src); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.docs[id]; ok {
		return nil, fmt.Errorf("%w: %s", ErrExists, id)
	}
	w.docs[id] = d
	if debug.Doc() {
		debug.Logf("opened %s\n", id)
	}
	return d, nil
}

// OpenFS opens every regular file of fsys matching the doublestar pattern,
// using the slash separated file path as document ID. Files which cannot be
// read or parsed are skipped; their errors are joined in the result.
func (w *Workspace) OpenFS(fsys fs.FS, pattern string, opts ...OpenOption) ([]*Document, error) {
	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	slices.Sort(matches)
	var (
		res  = make([]*Document, 0, len(matches))
		errs []error
	)
	for _, m := range matches {
		src, err := fs.ReadFile(fsys, m)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		d, err := w.Open(ID(path.Clean(m)), src, opts...)
		if err != nil {
			errs = append(errs, fmt.Errorf("opening %s: %w", m, err))
			continue
		}
		res = append(res, d)
	}
	return res, errors.Join(errs...)
}

func (w *Workspace) Lookup(id ID) (*Document, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	d, ok := w.docs[id]
	return d, ok
}

// Documents returns the open documents ordered by ID.
func (w *Workspace) Documents() []*Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	res := make([]*Document, 0, len(w.docs))
	for _, d := range w.docs {
		res = append(res, d)
	}
	slices.SortFunc(res, func(a, b *Document) int {
		return cmp.Compare(a.id, b.id)
	})
	return res
}

// Close discards the current snapshot of id and unregisters it.
func (w *Workspace) Close(id ID) error {
	w.mu.Lock()
	d, ok := w.docs[id]
	delete(w.docs, id)
	w.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	d.close()
	if debug.Doc() {
		debug.Logf("closed %s\n", id)
	}
	return nil
}

// SetExpander installs e for include sites in all documents of w; nil turns
// expansion off.
func (w *Workspace) SetExpander(e Expander) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.expander = e
}

func (w *Workspace) Expander() Expander {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.expander
}
