package checkpoint

import (
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"
)

func testDB(tst *testing.T) *bolt.DB {
	db, err := bolt.Open(filepath.Join(tst.TempDir(), "checkpoint.db"), 0666, nil)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	tst.Cleanup(func() { db.Close() })
	return db
}

func TestRoundTrip(tst *testing.T) {
	db := testDB(tst)
	s := NewStore(db, []byte("landscape.csv:mh"), 0)

	if rec, err := s.Load(); err != nil || rec != nil {
		tst.Errorf("empty store: rec=%v err=%v", rec, err)
	}

	in := &Record{
		Parameters: map[string]float64{"alpha1": 0.5, "sp1-sp2": -1.25},
		LnL:        -123.5,
		Iter:       1000,
	}
	if err := s.Save(in); err != nil {
		tst.Error("Error: ", err)
	}

	rec, err := s.Load()
	if err != nil {
		tst.Error("Error: ", err)
	}
	if rec == nil {
		tst.Fatal("no record after save")
	}
	if rec.LnL != in.LnL || rec.Iter != in.Iter || rec.Final {
		tst.Errorf("loaded %+v, expected %+v", rec, in)
	}
	if rec.Parameters["sp1-sp2"] != -1.25 {
		tst.Errorf("loaded parameters %v", rec.Parameters)
	}
}

func TestThrottle(tst *testing.T) {
	db := testDB(tst)
	s := NewStore(db, []byte("k"), time.Hour)

	rec := &Record{Parameters: map[string]float64{"x": 1}, Iter: 1}
	if err := s.Save(rec); err != nil {
		tst.Error("Error: ", err)
	}
	// second non-final save inside the window is dropped
	rec.Iter = 2
	if err := s.Save(rec); err != nil {
		tst.Error("Error: ", err)
	}
	got, err := s.Load()
	if err != nil {
		tst.Error("Error: ", err)
	}
	if got.Iter != 1 {
		tst.Errorf("iter=%d, expected the throttled store to keep 1", got.Iter)
	}

	// a final save always goes through
	rec.Iter = 3
	rec.Final = true
	if err := s.Save(rec); err != nil {
		tst.Error("Error: ", err)
	}
	got, err = s.Load()
	if err != nil {
		tst.Error("Error: ", err)
	}
	if got.Iter != 3 || !got.Final {
		tst.Errorf("loaded %+v, expected the final record", got)
	}
}

func TestSeparateKeys(tst *testing.T) {
	db := testDB(tst)
	a := NewStore(db, []byte("a"), 0)
	b := NewStore(db, []byte("b"), 0)

	if err := a.Save(&Record{Parameters: map[string]float64{"x": 1}, Iter: 1}); err != nil {
		tst.Error("Error: ", err)
	}
	if rec, err := b.Load(); err != nil || rec != nil {
		tst.Errorf("key b sees key a's record: %v %v", rec, err)
	}
}
