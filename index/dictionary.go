package index

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/blevesearch/vellum"
)

// Dictionary maps the terms of a field to their dictionary-local ids.
// It is backed by an FST so that it can be streamed through an automaton.
type Dictionary struct {
	fst *vellum.FST
	len int
}

// BuildDictionary compiles a term -> id map into a Dictionary.
func BuildDictionary(terms map[string]uint32) (*Dictionary, error) {
	keys := make([]string, 0, len(terms))
	for term := range terms {
		keys = append(keys, term)
	}
	// vellum requires lexicographic byte order
	sort.Strings(keys)

	var buf bytes.Buffer
	builder, err := vellum.New(&buf, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create dictionary builder: %w", err)
	}
	for _, key := range keys {
		if err := builder.Insert([]byte(key), uint64(terms[key])); err != nil {
			return nil, fmt.Errorf("failed to insert term '%s': %w", key, err)
		}
	}
	if err := builder.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish dictionary: %w", err)
	}

	fst, err := vellum.Load(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary: %w", err)
	}
	return &Dictionary{fst: fst, len: len(keys)}, nil
}

// Len returns the number of terms in the dictionary.
func (d *Dictionary) Len() int {
	return d.len
}

// Get returns the id of an exact term.
func (d *Dictionary) Get(term string) (uint32, bool, error) {
	val, exists, err := d.fst.Get([]byte(term))
	if err != nil {
		return 0, false, err
	}
	return uint32(val), exists, nil
}

// Search streams every term accepted by aut, in lexicographic order, into fn.
// Returning false from fn stops the iteration.
func (d *Dictionary) Search(aut vellum.Automaton, fn func(term string, id uint32) bool) error {
	itr, err := d.fst.Search(aut, nil, nil)
	for err == nil {
		key, val := itr.Current()
		// key is only valid until the next call to Next
		if !fn(string(key), uint32(val)) {
			return nil
		}
		err = itr.Next()
	}
	if errors.Is(err, vellum.ErrIteratorDone) {
		return nil
	}
	return err
}
