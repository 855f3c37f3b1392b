package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// txCounter is a database/sql connector whose transactions only count how
// they ended.
type txCounter struct {
	commits   atomic.Int32
	rollbacks atomic.Int32
}

func (c *txCounter) Connect(context.Context) (driver.Conn, error) { return &countingConn{c}, nil }
func (c *txCounter) Driver() driver.Driver                          { return countingDriver{c} }

type countingDriver struct{ c *txCounter }

func (d countingDriver) Open(string) (driver.Conn, error) { return &countingConn{d.c}, nil }

type countingConn struct{ c *txCounter }

func (cn *countingConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("statements are not supported")
}
func (cn *countingConn) Close() error              { return nil }
func (cn *countingConn) Begin() (driver.Tx, error) { return countingTx{cn.c}, nil }

type countingTx struct{ c *txCounter }

func (t countingTx) Commit() error   { t.c.commits.Add(1); return nil }
func (t countingTx) Rollback() error { t.c.rollbacks.Add(1); return nil }

func newCountingRepository(t *testing.T) (*repository, *txCounter) {
	t.Helper()
	counter := &txCounter{}
	db := sqlx.NewDb(sql.OpenDB(counter), "postgres")
	t.Cleanup(func() { db.Close() })
	return New(db), counter
}

func TestInTx_Commit(t *testing.T) {
	repo, counter := newCountingRepository(t)
	err := repo.InTx(context.Background(), func(tx Tx) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, int32(1), counter.commits.Load())
	assert.Equal(t, int32(0), counter.rollbacks.Load())
}

func TestInTx_ErrorRollsBack(t *testing.T) {
	repo, counter := newCountingRepository(t)
	boom := errors.New("boom")
	err := repo.InTx(context.Background(), func(tx Tx) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(0), counter.commits.Load())
	assert.Equal(t, int32(1), counter.rollbacks.Load())
}

func TestInTx_PanicRollsBack(t *testing.T) {
	repo, counter := newCountingRepository(t)
	assert.Panics(t, func() {
		_ = repo.InTx(context.Background(), func(tx Tx) error { panic("boom") })
	})
	assert.Equal(t, int32(0), counter.commits.Load())
	assert.Equal(t, int32(1), counter.rollbacks.Load())
}
