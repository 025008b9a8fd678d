// Package loadouts reads, merges and writes TalentLoadoutsEx.lua, the
// saved-variables file the in-game addon loads talent builds from.
//
// The file is a Lua table keyed by uppercase class name, then 1-based spec
// slot, then an ordered list of loadout entries. Anything the parser does not
// recognize (future addon fields, sibling sections like OPTION) is kept in
// generic value trees and round-tripped untouched.
package loadouts

import (
	"sort"
	"strings"
)

// generatedSuffix marks entries written by the build fetcher. Entries without
// it were authored by the user and must never be modified or removed.
const generatedSuffix = "_ARCT"

// Value is one Lua value preserved from the file: string, bool, float64 or *Table.
type Value any

// Table is a generic Lua table split into its integer-keyed and string-keyed
// parts. It carries structure this package has no schema for.
type Table struct {
	Index map[int64]Value
	Named map[string]Value
}

func NewTable() *Table {
	return &Table{
		Index: map[int64]Value{},
		Named: map[string]Value{},
	}
}

func (t *Table) empty() bool {
	return t == nil || (len(t.Index) == 0 && len(t.Named) == 0)
}

// sortedIndexKeys returns the integer keys in ascending order.
func (t *Table) sortedIndexKeys() []int64 {
	keys := make([]int64, 0, len(t.Index))
	for k := range t.Index {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// sortedNamedKeys returns the string keys in ascending order.
func (t *Table) sortedNamedKeys() []string {
	keys := make([]string, 0, len(t.Named))
	for k := range t.Named {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entry is a single talent loadout.
type Entry struct {
	Icon int64
	Name string
	Text string
	// Extra holds fields of the entry table beyond icon/name/text.
	Extra *Table
}

func NewEntry(name, text string) Entry {
	return Entry{Icon: 0, Name: name, Text: text}
}

// Generated reports whether this entry was written by the build fetcher,
// which appends a fixed suffix to every label it generates.
func (e Entry) Generated() bool {
	return strings.HasSuffix(e.Name, generatedSuffix)
}

// ClassTalents holds all loadouts of one class, keyed by spec slot.
type ClassTalents struct {
	Specs map[int][]Entry
	// Strays keeps values found inside a spec slot list that are not entry
	// tables (named fields, scalar holes), keyed by the slot they came from.
	Strays map[int]*Table
	// Extra keeps parts of the class table that are not spec slots.
	Extra *Table
}

func newClassTalents() *ClassTalents {
	return &ClassTalents{Specs: map[int][]Entry{}}
}

// Store is the in-memory form of the whole saved-variables file.
type Store struct {
	// Classes is keyed by the uppercase class name ("WARRIOR", "MAGE", ...).
	Classes map[string]*ClassTalents
	// Extra holds every top-level sibling of the class tables, such as the
	// addon's OPTION section.
	Extra *Table
}

func NewStore() *Store {
	return &Store{
		Classes: map[string]*ClassTalents{},
		Extra:   NewTable(),
	}
}

// Get returns the entries stored for a class/spec slot.
func (s *Store) Get(classKey string, specIndex int) []Entry {
	class, ok := s.Classes[classKey]
	if !ok {
		return nil
	}
	return class.Specs[specIndex]
}

// Add appends an entry to a class/spec slot, creating the slot if needed.
func (s *Store) Add(classKey string, specIndex int, entry Entry) {
	class, ok := s.Classes[classKey]
	if !ok {
		class = newClassTalents()
		s.Classes[classKey] = class
	}
	class.Specs[specIndex] = append(class.Specs[specIndex], entry)
}

// RemoveGenerated drops the fetcher-written entries of one class/spec slot.
// User-authored entries stay where they are.
func (s *Store) RemoveGenerated(classKey string, specIndex int) {
	s.RemoveGeneratedExcept(classKey, specIndex, nil)
}

// RemoveGeneratedExcept is RemoveGenerated but spares generated entries whose
// label is in keep. Used to hold on to the previous result of a build whose
// fetch failed this run.
func (s *Store) RemoveGeneratedExcept(classKey string, specIndex int, keep map[string]bool) {
	class, ok := s.Classes[classKey]
	if !ok {
		return
	}
	entries, ok := class.Specs[specIndex]
	if !ok {
		return
	}
	kept := entries[:0]
	for _, e := range entries {
		if !e.Generated() || keep[e.Name] {
			kept = append(kept, e)
		}
	}
	class.Specs[specIndex] = kept
}

// RemoveAllGenerated drops fetcher-written entries across every class and
// spec slot in the store, including ones outside the current run's roster.
func (s *Store) RemoveAllGenerated() {
	for classKey, class := range s.Classes {
		for specIndex := range class.Specs {
			s.RemoveGenerated(classKey, specIndex)
		}
	}
}
