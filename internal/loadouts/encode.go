package loadouts

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Encode serializes the store back into the saved-variables format. Output
// is deterministic: classes and spec slots are sorted, entries keep their
// stored order, unknown fields are sorted by key.
func (s *Store) Encode() string {
	var b strings.Builder
	b.WriteString(savedVarsGlobal + " = {\n")

	classNames := make([]string, 0, len(s.Classes))
	for name := range s.Classes {
		classNames = append(classNames, name)
	}
	sort.Strings(classNames)

	for _, name := range classNames {
		class := s.Classes[name]

		fmt.Fprintf(&b, "  [%s] = {\n", luaString(name))

		slots := make([]int, 0, len(class.Specs))
		for slot := range class.Specs {
			slots = append(slots, slot)
		}
		sort.Ints(slots)

		for _, slot := range slots {
			fmt.Fprintf(&b, "    [%d] = {\n", slot)
			for _, entry := range class.Specs[slot] {
				b.WriteString("      ")
				encodeEntry(&b, entry)
				b.WriteString(",\n")
			}
			if strays := class.Strays[slot]; !strays.empty() {
				encodeTableFields(&b, strays, "      ")
			}
			b.WriteString("    },\n")
		}

		if !class.Extra.empty() {
			encodeTableFields(&b, class.Extra, "    ")
		}

		b.WriteString("  },\n")
	}

	extra := s.Extra
	if extra == nil {
		extra = NewTable()
	}
	if _, ok := extra.Named["OPTION"]; !ok {
		// the addon expects its option table to exist
		fmt.Fprintf(&b, "  [\"OPTION\"] = { [\"IsEnabledPvp\"] = false },\n")
	}
	encodeTableFields(&b, extra, "  ")

	b.WriteString("}\n")
	return b.String()
}

// WriteFile persists the store atomically: the content lands in a temporary
// file in the target directory which is then renamed over the destination, so
// a crash mid-write cannot corrupt the previous file.
func (s *Store) WriteFile(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".talentloadoutsex-*.lua")
	if err != nil {
		return fmt.Errorf("write saved variables: %w", err)
	}

	_, err = tmp.WriteString(s.Encode())
	if err == nil {
		err = tmp.Close()
	} else {
		tmp.Close()
	}
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write saved variables: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write saved variables: %w", err)
	}
	return nil
}

func encodeEntry(b *strings.Builder, entry Entry) {
	fmt.Fprintf(
		b, "{ [\"icon\"] = %d, [\"name\"] = %s, [\"text\"] = %s",
		entry.Icon, luaString(entry.Name), luaString(entry.Text),
	)
	if !entry.Extra.empty() {
		for _, k := range entry.Extra.sortedIndexKeys() {
			fmt.Fprintf(b, ", [%d] = %s", k, encodeValue(entry.Extra.Index[k]))
		}
		for _, k := range entry.Extra.sortedNamedKeys() {
			fmt.Fprintf(b, ", [%s] = %s", luaString(k), encodeValue(entry.Extra.Named[k]))
		}
	}
	b.WriteString(" }")
}

// encodeTableFields writes every field of a generic table, one per line.
func encodeTableFields(b *strings.Builder, t *Table, indent string) {
	for _, k := range t.sortedIndexKeys() {
		fmt.Fprintf(b, "%s[%d] = %s,\n", indent, k, encodeValue(t.Index[k]))
	}
	for _, k := range t.sortedNamedKeys() {
		fmt.Fprintf(b, "%s[%s] = %s,\n", indent, luaString(k), encodeValue(t.Named[k]))
	}
}

func encodeValue(v Value) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(v)
	case string:
		return luaString(v)
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case *Table:
		var b strings.Builder
		b.WriteString("{")
		first := true
		for _, k := range v.sortedIndexKeys() {
			if !first {
				b.WriteString(",")
			}
			first = false
			fmt.Fprintf(&b, " [%d] = %s", k, encodeValue(v.Index[k]))
		}
		for _, k := range v.sortedNamedKeys() {
			if !first {
				b.WriteString(",")
			}
			first = false
			fmt.Fprintf(&b, " [%s] = %s", luaString(k), encodeValue(v.Named[k]))
		}
		b.WriteString(" }")
		return b.String()
	}
	return "nil"
}

func luaString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
