package assets

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"mirgo/internal/binfmt"
	"mirgo/internal/engine"
)

var indexMagic = [4]byte{'M', 'G', 'A', 'I'}

const indexVersion = 1

// EncodeIndex writes the id to path table. Each entry carries a hash of its
// path so a damaged entry can be dropped on its own.
func (db *Database) EncodeIndex() []byte {
	ids := db.IDs()
	w := binfmt.NewWriter()
	w.U32(uint32(len(ids)))
	for _, id := range ids {
		path, _ := db.Path(id)
		w.U64(uint64(id))
		w.Text(path)
		w.U64(xxhash.Sum64String(path))
	}
	return w.Seal(indexMagic, indexVersion)
}

// DecodeIndex registers every entry of an encoded index. Entries whose hash
// does not match, or that conflict with existing registrations, are skipped.
func (db *Database) DecodeIndex(data []byte) (int, error) {
	r, version, err := binfmt.Open(data, indexMagic)
	if err != nil {
		return 0, fmt.Errorf("asset index: %w", err)
	}
	if version > indexVersion {
		return 0, fmt.Errorf("asset index: unsupported version %d", version)
	}
	count := int(r.U32())
	added := 0
	for i := 0; i < count; i++ {
		id := engine.ID(r.U64())
		path := r.Text()
		sum := r.U64()
		if r.Err() != nil {
			return added, fmt.Errorf("asset index: %w", r.Err())
		}
		if xxhash.Sum64String(path) != sum {
			db.log.Warn("asset index entry corrupt", zap.Stringer("id", id))
			continue
		}
		if err := db.Register(id, path); err != nil {
			db.log.Warn("asset index entry skipped", zap.Error(err))
			continue
		}
		added++
	}
	return added, nil
}

// SaveIndex writes the index to path on the database's file system.
func (db *Database) SaveIndex(path string) error {
	f, err := db.fs.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(db.EncodeIndex()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadIndex reads an index previously written by SaveIndex.
func (db *Database) LoadIndex(path string) (int, error) {
	data, err := readFile(db.fs, path)
	if err != nil {
		return 0, err
	}
	return db.DecodeIndex(data)
}
