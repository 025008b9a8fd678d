package loadouts

import (
	"fmt"
	"os"

	"talentsync/internal/wow"

	lua "github.com/Shopify/go-lua"
)

// the top-level global the addon assigns its saved variables to
const savedVarsGlobal = "TalentLoadoutEx"

var classKeys = func() map[string]bool {
	keys := map[string]bool{}
	for _, c := range wow.Classes() {
		keys[c.SavedVarsKey()] = true
	}
	return keys
}()

// Load reads and parses a saved-variables file.
func Load(path string) (*Store, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read saved variables: %w", err)
	}
	return Parse(string(content))
}

// Parse evaluates the file contents in a bare Lua state (no libraries are
// opened, the file is plain data) and walks the resulting global table.
func Parse(content string) (*Store, error) {
	l := lua.NewState()
	if err := lua.DoString(l, content); err != nil {
		return nil, fmt.Errorf("parse saved variables: %v", err)
	}

	l.Global(savedVarsGlobal)
	defer l.Pop(1)
	if l.TypeOf(-1) != lua.TypeTable {
		return nil, fmt.Errorf("saved variables: %s table not found", savedVarsGlobal)
	}

	root := decodeTable(l)

	store := NewStore()
	for name, v := range root.Named {
		classTable, ok := v.(*Table)
		if ok && classKeys[name] {
			store.Classes[name] = decodeClassTalents(classTable)
			continue
		}
		store.Extra.Named[name] = v
	}
	for k, v := range root.Index {
		store.Extra.Index[k] = v
	}

	return store, nil
}

func decodeClassTalents(classTable *Table) *ClassTalents {
	class := newClassTalents()
	extra := NewTable()

	for slot, v := range classTable.Index {
		listTable, ok := v.(*Table)
		if !ok || slot < 1 {
			extra.Index[slot] = v
			continue
		}
		entries, strays := decodeEntryList(listTable)
		class.Specs[int(slot)] = entries
		if !strays.empty() {
			if class.Strays == nil {
				class.Strays = map[int]*Table{}
			}
			class.Strays[int(slot)] = strays
		}
	}
	for name, v := range classTable.Named {
		extra.Named[name] = v
	}

	if !extra.empty() {
		class.Extra = extra
	}
	return class
}

// decodeEntryList splits a slot list into its entries and everything else:
// named fields and non-table positional values come back as strays so they
// survive a round trip.
func decodeEntryList(listTable *Table) ([]Entry, *Table) {
	entries := []Entry{}
	strays := NewTable()
	for _, k := range listTable.sortedIndexKeys() {
		entryTable, ok := listTable.Index[k].(*Table)
		if !ok {
			strays.Index[k] = listTable.Index[k]
			continue
		}
		entries = append(entries, decodeEntry(entryTable))
	}
	for name, v := range listTable.Named {
		strays.Named[name] = v
	}
	return entries, strays
}

func decodeEntry(entryTable *Table) Entry {
	var entry Entry
	extra := NewTable()

	for name, v := range entryTable.Named {
		switch name {
		case "icon":
			if n, ok := v.(float64); ok {
				entry.Icon = int64(n)
				continue
			}
		case "name":
			if s, ok := v.(string); ok {
				entry.Name = s
				continue
			}
		case "text":
			if s, ok := v.(string); ok {
				entry.Text = s
				continue
			}
		}
		extra.Named[name] = v
	}
	for k, v := range entryTable.Index {
		extra.Index[k] = v
	}

	if !extra.empty() {
		entry.Extra = extra
	}
	return entry
}

// decodeTable converts the Lua table at the top of the stack into a generic
// Table, recursing into nested tables. The stack is left unchanged.
func decodeTable(l *lua.State) *Table {
	t := NewTable()

	l.PushNil()
	for l.Next(-2) {
		// key at -2, value at -1
		var v Value
		switch l.TypeOf(-1) {
		case lua.TypeTable:
			v = decodeTable(l)
		case lua.TypeString:
			s, _ := l.ToString(-1)
			v = s
		case lua.TypeNumber:
			n, _ := l.ToNumber(-1)
			v = n
		case lua.TypeBoolean:
			v = l.ToBoolean(-1)
		}

		switch l.TypeOf(-2) {
		case lua.TypeNumber:
			n, _ := l.ToNumber(-2)
			t.Index[int64(n)] = v
		case lua.TypeString:
			s, _ := l.ToString(-2)
			t.Named[s] = v
		}

		l.Pop(1)
	}

	return t
}
