package kv

import (
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestSet_StampsUpdatedAt(t *testing.T) {
	c := qt.New(t)
	s, err := Open(filepath.Join(t.TempDir(), "storage.db"))
	c.Assert(err, qt.IsNil)
	defer s.Close()

	c.Assert(s.Set(KeyPosts, "[]"), qt.IsNil)

	var stamp string
	err = s.db.QueryRow(`SELECT updated_at FROM local_storage WHERE key = ?`, KeyPosts).Scan(&stamp)
	c.Assert(err, qt.IsNil)
	_, err = time.Parse(time.RFC3339, stamp)
	c.Assert(err, qt.IsNil)
}
