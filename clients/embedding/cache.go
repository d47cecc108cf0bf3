package embedding

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	badger "github.com/dgraph-io/badger/v4"
)

// vectorCache persists embedding vectors keyed by model and input text.
type vectorCache struct {
	db *badger.DB
}

func openVectorCache(dir string) (*vectorCache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &vectorCache{db: db}, nil
}

func cacheKey(model, text string) []byte {
	sum := sha256.Sum256([]byte(text))

	return []byte(fmt.Sprintf("emb:%s:%x", model, sum))
}

func (c *vectorCache) get(model, text string) ([]float32, bool) {
	var vec []float32

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cacheKey(model, text))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			decoded, err := decodeVector(val)
			if err != nil {
				return err
			}

			vec = decoded

			return nil
		})
	})
	if err != nil {
		return nil, false
	}

	return vec, true
}

func (c *vectorCache) put(model, text string, vec []float32) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(cacheKey(model, text), encodeVector(vec))
	})
}

func (c *vectorCache) close() error {
	return c.db.Close()
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}

	return buf
}

func decodeVector(buf []byte) ([]float32, error) {
	if len(buf)%4 != 0 {
		return nil, errors.New("corrupt vector entry")
	}

	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}

	return vec, nil
}
