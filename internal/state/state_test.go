package state

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"
)

func TestChangedAndDeletedFiles(t *testing.T) {
	s := NewState()
	s.SetFile("a.go", FileState{Hash: "a1"})
	s.SetFile("b.go", FileState{Hash: "b1"})
	s.SetFile("c.go", FileState{Hash: "c1"})

	changed := s.ChangedFiles(map[string]string{
		"a.go": "a1",
		"b.go": "b2",
		"d.go": "d1",
	})
	expectSet(t, changed, []string{"b.go", "d.go"})

	deleted := s.DeletedFiles(map[string]bool{
		"a.go": true,
		"b.go": true,
		"d.go": true,
	})
	expectSet(t, deleted, []string{"c.go"})
}

func TestTitleChanged(t *testing.T) {
	s := NewState()
	s.SetFile("a.go", FileState{Hash: "a1", Title: "Store"})

	if s.TitleChanged("a.go", "Store") {
		t.Fatalf("expected unchanged title")
	}
	if !s.TitleChanged("a.go", "Records") {
		t.Fatalf("expected changed title")
	}
	if !s.TitleChanged("new.go", "New") {
		t.Fatalf("expected new file to count as changed")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "titles.db")

	s := NewState()
	s.SetFile("pkg/a.go", FileState{Hash: "a1", Language: "go", Title: "Package a", Topics: []string{"function"}})
	s.SetFile("b.py", FileState{Hash: "b1", Language: "python", Title: "B"})
	if err := s.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	s.RemoveFile("b.py")
	if err := s.Save(path); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Version != CurrentStateVersion || loaded.ParserVersion != CurrentParserVersion {
		t.Fatalf("unexpected versions %q %q", loaded.Version, loaded.ParserVersion)
	}
	if len(loaded.Files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(loaded.Files))
	}
	fs, ok := loaded.GetFile("pkg/a.go")
	if !ok || fs.Title != "Package a" || fs.Hash != "a1" || !reflect.DeepEqual(fs.Topics, []string{"function"}) {
		t.Fatalf("unexpected file state %+v", fs)
	}
	if loaded.UpdatedAt.IsZero() {
		t.Fatalf("expected updated timestamp")
	}
}

func TestLoadMissingDatabase(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "missing.db"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(s.Files) != 0 || s.Version != CurrentStateVersion {
		t.Fatalf("expected empty state, got %+v", s)
	}
}

func TestLoadDiscardsOtherParserVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "titles.db")
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		meta, err := tx.CreateBucket([]byte(BuckMeta))
		if err != nil {
			return err
		}
		if err := meta.Put([]byte(keyVersion), []byte(CurrentStateVersion)); err != nil {
			return err
		}
		if err := meta.Put([]byte(keyParserVersion), []byte("older")); err != nil {
			return err
		}
		files, err := tx.CreateBucket([]byte(BuckFiles))
		if err != nil {
			return err
		}
		enc, err := msgpack.Marshal(FileState{Hash: "x", Title: "X"})
		if err != nil {
			return err
		}
		return files.Put([]byte("x.go"), enc)
	})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(s.Files) != 0 {
		t.Fatalf("expected cached files to be discarded, got %v", s.Files)
	}
	if s.ParserVersion != CurrentParserVersion {
		t.Fatalf("expected parser version %q, got %q", CurrentParserVersion, s.ParserVersion)
	}
}

func expectSet(t *testing.T, got, want []string) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
