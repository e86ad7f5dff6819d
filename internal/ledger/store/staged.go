package store

import "healthledger/internal/ledger/models"

// stagedWrites buffers a transaction's writes until commit.
type stagedWrites struct {
	order  []models.Key
	values map[models.Key][]byte
}

func newStagedWrites() *stagedWrites {
	return &stagedWrites{values: make(map[models.Key][]byte)}
}

func (w *stagedWrites) get(key models.Key) ([]byte, bool) {
	v, ok := w.values[key]
	if !ok {
		return nil, false
	}
	return cloneBytes(v), true
}

func (w *stagedWrites) put(key models.Key, value []byte) {
	if _, ok := w.values[key]; !ok {
		w.order = append(w.order, key)
	}
	w.values[key] = cloneBytes(value)
}

func (w *stagedWrites) len() int {
	return len(w.order)
}

// each visits writes in first-write order.
func (w *stagedWrites) each(fn func(key models.Key, value []byte) error) error {
	for _, key := range w.order {
		if err := fn(key, w.values[key]); err != nil {
			return err
		}
	}
	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
