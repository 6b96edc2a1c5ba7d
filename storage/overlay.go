package storage

import "sort"

// Overlay stages writes on top of a base database. Reads see the staged
// values first and fall through to the base; nothing reaches the base until
// Commit, which flushes every staged op as one atomic batch. Discarding an
// overlay is simply dropping it, so a failed operation leaves the base
// untouched.
//
// An Overlay is not safe for concurrent use; callers serialize access.
type Overlay struct {
	base   Database
	writes map[string][]byte
	dels   map[string]struct{}
	order  []string
}

func NewOverlay(base Database) *Overlay {
	return &Overlay{
		base:   base,
		writes: make(map[string][]byte),
		dels:   make(map[string]struct{}),
	}
}

func (o *Overlay) Put(key []byte, value []byte) error {
	k := string(key)
	if _, staged := o.writes[k]; !staged {
		if _, deleted := o.dels[k]; !deleted {
			o.order = append(o.order, k)
		}
	}
	delete(o.dels, k)
	o.writes[k] = append([]byte(nil), value...)
	return nil
}

func (o *Overlay) Get(key []byte) ([]byte, error) {
	k := string(key)
	if value, ok := o.writes[k]; ok {
		return append([]byte(nil), value...), nil
	}
	if _, ok := o.dels[k]; ok {
		return nil, ErrNotFound
	}
	return o.base.Get(key)
}

func (o *Overlay) Has(key []byte) (bool, error) {
	k := string(key)
	if _, ok := o.writes[k]; ok {
		return true, nil
	}
	if _, ok := o.dels[k]; ok {
		return false, nil
	}
	return o.base.Has(key)
}

func (o *Overlay) Delete(key []byte) error {
	k := string(key)
	if _, staged := o.writes[k]; !staged {
		if _, deleted := o.dels[k]; !deleted {
			o.order = append(o.order, k)
		}
	}
	delete(o.writes, k)
	o.dels[k] = struct{}{}
	return nil
}

// Write stages a batch; the ops become part of the overlay like any other
// Put or Delete.
func (o *Overlay) Write(ops []Op) error {
	for _, op := range ops {
		if op.Delete {
			if err := o.Delete(op.Key); err != nil {
				return err
			}
			continue
		}
		if err := o.Put(op.Key, op.Value); err != nil {
			return err
		}
	}
	return nil
}

// Close satisfies the Database interface; the base stays open.
func (o *Overlay) Close() {}

// Dirty reports whether the overlay holds any staged changes.
func (o *Overlay) Dirty() bool {
	return len(o.writes) > 0 || len(o.dels) > 0
}

// Commit flushes the staged ops to the base as a single batch write and
// resets the overlay. Keys flush in first-staged order, which keeps commits
// deterministic for a given call.
func (o *Overlay) Commit() error {
	if !o.Dirty() {
		return nil
	}
	keys := append([]string(nil), o.order...)
	if len(keys) == 0 {
		// Writes staged through an inner overlay merge; fall back to a
		// sorted view so the flush stays deterministic.
		for k := range o.writes {
			keys = append(keys, k)
		}
		for k := range o.dels {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}
	ops := make([]Op, 0, len(keys))
	for _, k := range keys {
		if value, ok := o.writes[k]; ok {
			ops = append(ops, Op{Key: []byte(k), Value: value})
			continue
		}
		if _, ok := o.dels[k]; ok {
			ops = append(ops, Op{Key: []byte(k), Delete: true})
		}
	}
	if err := o.base.Write(ops); err != nil {
		return err
	}
	o.writes = make(map[string][]byte)
	o.dels = make(map[string]struct{})
	o.order = nil
	return nil
}
