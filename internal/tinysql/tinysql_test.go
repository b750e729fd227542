package tinysql

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RichardKnop/tinysql/internal/pkg/logging"
)

var (
	gen = newDataGen(uint64(time.Now().Unix()))

	testLogger *zap.Logger
)

func init() {
	logConf := logging.DefaultConfig()

	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}

	l, err := logging.ParseLevel(level)
	if err != nil {
		panic(err)
	}
	logConf.Level = zap.NewAtomicLevelAt(l)

	testLogger, err = logConf.Build()
	if err != nil {
		panic(err)
	}
}

type dataGen struct {
	*gofakeit.Faker
}

func newDataGen(seed uint64) *dataGen {
	g := dataGen{
		Faker: gofakeit.New(seed),
	}

	return &g
}

func (g *dataGen) Row(id uint32) Row {
	return Row{
		ID:       id,
		Username: truncate(g.Username(), UsernameSize),
		Email:    truncate(g.Email(), EmailSize),
	}
}

func (g *dataGen) Rows(ids ...uint32) []Row {
	rows := make([]Row, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, g.Row(id))
	}
	return rows
}

func truncate(s string, size int) string {
	if len(s) > size {
		return s[:size]
	}
	return s
}

func sequence(from, to uint32) []uint32 {
	ids := make([]uint32, 0, to-from+1)
	for id := from; id <= to; id++ {
		ids = append(ids, id)
	}
	return ids
}

func rowIDs(rows []Row) []uint32 {
	ids := make([]uint32, 0, len(rows))
	for _, aRow := range rows {
		ids = append(ids, aRow.ID)
	}
	return ids
}

// newTestDBPath returns the path of an empty database file
// which is removed when the test finishes.
func newTestDBPath(t *testing.T) string {
	dbFile, err := os.CreateTemp(".", "testdb")
	require.NoError(t, err)
	require.NoError(t, dbFile.Close())
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	return dbFile.Name()
}

func newTestTable(t *testing.T, opts ...Option) (*Table, string) {
	path := newTestDBPath(t)

	aTable, err := Open(context.Background(), path, append([]Option{WithLogger(testLogger)}, opts...)...)
	require.NoError(t, err)

	return aTable, path
}

func insertRows(t *testing.T, aTable *Table, rows ...Row) {
	for _, aRow := range rows {
		require.NoError(t, aTable.Insert(context.Background(), aRow))
	}
}
