package tinysql

import (
	"context"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type DBFile interface {
	io.ReadSeeker
	io.ReaderAt
	io.WriterAt
	io.Closer
}

type PagerOption func(*pagerImpl)

// WithMaxPages overrides the number of pages a table file may hold.
func WithMaxPages(maxPages uint32) PagerOption {
	return func(p *pagerImpl) {
		if maxPages > 0 {
			p.maxPages = maxPages
		}
	}
}

func WithPagerLogger(logger *zap.Logger) PagerOption {
	return func(p *pagerImpl) {
		if logger != nil {
			p.logger = logger
		}
	}
}

type pagerImpl struct {
	maxPages       uint32
	persistedPages uint32 // number of whole pages in the file when it was opened
	totalPages     uint32 // high-water mark of pages in use

	// pages holds every page fetched this session, nothing is evicted.
	// A missing key means the page has not been faulted in yet.
	pages map[PageIndex][]byte

	file     DBFile
	fileSize int64
	logger   *zap.Logger
}

// OpenPager opens or creates the database file at path and wraps it in a pager.
func OpenPager(path string, opts ...PagerOption) (*pagerImpl, error) {
	dbFile, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, &IOError{Op: "open", Page: NoPage, Err: err}
	}
	aPager, err := NewPager(dbFile, opts...)
	if err != nil {
		dbFile.Close()
		return nil, err
	}
	return aPager, nil
}

// NewPager measures the database file and prepares an empty page cache.
func NewPager(file DBFile, opts ...PagerOption) (*pagerImpl, error) {
	aPager := &pagerImpl{
		maxPages: MaxPages,
		pages:    make(map[PageIndex][]byte),
		file:     file,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(aPager)
	}

	fileSize, err := aPager.file.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, &IOError{Op: "seek", Page: NoPage, Err: err}
	}
	aPager.fileSize = fileSize

	if fileSize%PageSize != 0 {
		return nil, errors.Wrapf(ErrCorruptFile, "file size %d", fileSize)
	}

	totalPages := fileSize / PageSize
	if totalPages > int64(aPager.maxPages) {
		return nil, errors.Wrapf(ErrTableFull, "file holds %d pages, max pages %d", totalPages, aPager.maxPages)
	}
	aPager.persistedPages = uint32(totalPages)
	aPager.totalPages = uint32(totalPages)

	return aPager, nil
}

func (p *pagerImpl) PersistedPages() uint32 {
	return p.persistedPages
}

func (p *pagerImpl) TotalPages() uint32 {
	return p.totalPages
}

func (p *pagerImpl) MaxPages() uint32 {
	return p.maxPages
}

// UnusedPageIndex returns the next page index past the high-water mark.
// The page is only created once it is fetched with GetPage.
func (p *pagerImpl) UnusedPageIndex() PageIndex {
	return PageIndex(p.totalPages)
}

func (p *pagerImpl) GetPage(ctx context.Context, pageIdx PageIndex) ([]byte, error) {
	if uint32(pageIdx) >= p.maxPages {
		return nil, errors.Wrapf(ErrPageOutOfBounds, "page index %d reached limit of max pages %d", pageIdx, p.maxPages)
	}

	if buf, ok := p.pages[pageIdx]; ok {
		return buf, nil
	}

	buf := make([]byte, PageSize)

	if uint32(pageIdx) < p.persistedPages {
		// Page is on disk, load it
		n, err := p.file.ReadAt(buf, int64(pageIdx)*PageSize)
		if err != nil && !(errors.Is(err, io.EOF) && n == PageSize) {
			return nil, &IOError{Op: "read", Page: pageIdx, Err: err}
		}
		p.logger.Debug("page loaded", zap.Uint32("page_index", uint32(pageIdx)))
	} else {
		p.logger.Debug("new page", zap.Uint32("page_index", uint32(pageIdx)))
	}

	p.pages[pageIdx] = buf
	if uint32(pageIdx) >= p.totalPages {
		p.totalPages = uint32(pageIdx) + 1
	}

	return buf, nil
}

func (p *pagerImpl) Flush(ctx context.Context, pageIdx PageIndex) error {
	buf, ok := p.pages[pageIdx]
	if !ok {
		return errors.Wrapf(ErrPageNotCached, "flushing page %d", pageIdx)
	}

	offset := int64(pageIdx) * PageSize
	if _, err := p.file.WriteAt(buf, offset); err != nil {
		return &IOError{Op: "write", Page: pageIdx, Err: err}
	}
	if end := offset + PageSize; end > p.fileSize {
		p.fileSize = end
	}

	return nil
}

// Close writes every cached page back to the file in page order, releases
// the cache and closes the file. A failing page does not stop the others
// from being written, all failures are returned together.
func (p *pagerImpl) Close(ctx context.Context) error {
	var err error
	for _, pageIdx := range slices.Sorted(maps.Keys(p.pages)) {
		err = multierr.Append(err, p.Flush(ctx, pageIdx))
		delete(p.pages, pageIdx)
	}

	if cerr := p.file.Close(); cerr != nil {
		err = multierr.Append(err, &IOError{Op: "close", Page: NoPage, Err: cerr})
	}

	p.logger.Debug("pager closed", zap.Int64("file_size", p.fileSize))

	return err
}
