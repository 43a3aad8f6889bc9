package sessions

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"route-notify-service/internal/ports"
)

// stubDriver serves canned session rows so the Postgres store's SQL paths
// run without a server. Tests set conn before opening a database handle;
// the pool dials lazily on first use.
type stubDriver struct {
	conn *stubConn
}

func (d *stubDriver) Open(string) (driver.Conn, error) {
	return d.conn, nil
}

var sessionDriver = &stubDriver{}

func init() {
	sql.Register("sessionstub", sessionDriver)
}

type execCall struct {
	query string
	args  []driver.Value
}

type stubConn struct {
	execs   []execCall
	queries []string
	results [][][]driver.Value
}

func (c *stubConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *stubConn) Close() error { return nil }

func (c *stubConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported")
}

func (c *stubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	call := execCall{query: query}
	for _, a := range args {
		call.args = append(call.args, a.Value)
	}
	c.execs = append(c.execs, call)
	return driver.RowsAffected(1), nil
}

func (c *stubConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	c.queries = append(c.queries, query)

	var data [][]driver.Value
	if len(c.results) > 0 {
		data = c.results[0]
		c.results = c.results[1:]
	}

	return &stubRows{cols: []string{"login_time", "expires_at"}, data: data}, nil
}

type stubRows struct {
	cols []string
	data [][]driver.Value
	i    int
}

func (r *stubRows) Columns() []string { return r.cols }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.i >= len(r.data) {
		return io.EOF
	}
	copy(dest, r.data[r.i])
	r.i++
	return nil
}

func newStubSQLStore(t *testing.T) (*SQLStore, *stubConn) {
	t.Helper()

	conn := &stubConn{}
	sessionDriver.conn = conn

	db, err := sql.Open("sessionstub", "")
	if err != nil {
		t.Fatalf("open stub db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewSQLStore(db), conn
}

func TestSQLStoreInitSchema(t *testing.T) {
	store, conn := newStubSQLStore(t)

	if err := InitSchema(store.DB); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(conn.execs) != 1 || !strings.Contains(conn.execs[0].query, "CREATE TABLE IF NOT EXISTS sessions") {
		t.Errorf("execs = %+v, want sessions DDL", conn.execs)
	}
}

func TestSQLStorePutUpserts(t *testing.T) {
	store, conn := newStubSQLStore(t)

	sess := ports.Session{Token: "tok-1", LoginTime: time.Now().UTC()}
	if err := store.Put(context.Background(), sess, time.Hour); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(conn.execs) != 1 {
		t.Fatalf("execs = %d, want 1", len(conn.execs))
	}
	if !strings.Contains(conn.execs[0].query, "ON CONFLICT (token) DO UPDATE") {
		t.Errorf("query %q not an upsert", conn.execs[0].query)
	}
	if conn.execs[0].args[0] != "tok-1" {
		t.Errorf("token arg = %v, want tok-1", conn.execs[0].args[0])
	}
}

func TestSQLStoreGetLive(t *testing.T) {
	store, conn := newStubSQLStore(t)

	loginTime := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	conn.results = [][][]driver.Value{
		{{loginTime, time.Now().Add(time.Hour).UTC()}},
	}

	got, err := store.Get(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("session not found")
	}
	if got.Token != "tok-1" || !got.LoginTime.Equal(loginTime) {
		t.Errorf("session = %+v", got)
	}
	if len(conn.execs) != 0 {
		t.Errorf("execs = %+v, live session must not be deleted", conn.execs)
	}
}

func TestSQLStoreGetExpiredDeletesRow(t *testing.T) {
	store, conn := newStubSQLStore(t)

	conn.results = [][][]driver.Value{
		{{time.Now().Add(-2 * time.Hour).UTC(), time.Now().Add(-time.Hour).UTC()}},
	}

	got, err := store.Get(context.Background(), "stale")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("session = %+v, want nil past expiry", got)
	}

	if len(conn.execs) != 1 || !strings.Contains(conn.execs[0].query, "DELETE FROM sessions") {
		t.Fatalf("execs = %+v, want lazy delete of the expired row", conn.execs)
	}
	if conn.execs[0].args[0] != "stale" {
		t.Errorf("delete arg = %v, want stale", conn.execs[0].args[0])
	}
}

func TestSQLStoreGetAbsent(t *testing.T) {
	store, conn := newStubSQLStore(t)

	got, err := store.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("absent session must not be an error: %v", err)
	}
	if got != nil {
		t.Errorf("session = %+v, want nil", got)
	}
	if len(conn.execs) != 0 {
		t.Errorf("execs = %+v, want none", conn.execs)
	}
}
