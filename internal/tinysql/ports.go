package tinysql

import (
	"context"
)

type Pager interface {
	GetPage(context.Context, PageIndex) ([]byte, error)
	UnusedPageIndex() PageIndex
	PersistedPages() uint32
	TotalPages() uint32
	MaxPages() uint32
	Flush(context.Context, PageIndex) error
	Close(context.Context) error
}
