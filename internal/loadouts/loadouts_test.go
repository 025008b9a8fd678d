package loadouts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const sampleFile = `TalentLoadoutEx = {
  ["WARRIOR"] = {
    [1] = {
      { ["icon"] = 132355, ["name"] = "My Arms Build", ["text"] = "warrior/arms/ABC123" },
      { ["icon"] = 0, ["name"] = "R-heroic-sikran_ARCT", ["text"] = "warrior/arms/XYZ789" },
    },
    [2] = {
      { ["icon"] = 132347, ["name"] = "My Fury Build", ["text"] = "warrior/fury/DEF456", ["favorite"] = true },
    },
  },
  ["MAGE"] = {
    [3] = {
      { ["icon"] = 135846, ["name"] = "M+-ara-kara_ARCT", ["text"] = "mage/frost/GHI789" },
    },
  },
  ["OPTION"] = { ["IsEnabledPvp"] = false },
}`

func TestParse(t *testing.T) {
	store, err := Parse(sampleFile)
	require.NoError(t, err)

	warrior := store.Classes["WARRIOR"]
	require.NotNil(t, warrior)
	require.Len(t, warrior.Specs, 2)

	arms := store.Get("WARRIOR", 1)
	require.Len(t, arms, 2)
	require.Equal(t, "My Arms Build", arms[0].Name)
	require.Equal(t, int64(132355), arms[0].Icon)
	require.Equal(t, "warrior/arms/ABC123", arms[0].Text)
	require.False(t, arms[0].Generated())
	require.Equal(t, "R-heroic-sikran_ARCT", arms[1].Name)
	require.True(t, arms[1].Generated())

	frost := store.Get("MAGE", 3)
	require.Len(t, frost, 1)
	require.Equal(t, "M+-ara-kara_ARCT", frost[0].Name)

	// the OPTION sibling section is not a class table
	require.Nil(t, store.Classes["OPTION"])
	opt, ok := store.Extra.Named["OPTION"].(*Table)
	require.True(t, ok)
	require.Equal(t, false, opt.Named["IsEnabledPvp"])
}

func TestParseKeepsUnknownEntryFields(t *testing.T) {
	store, err := Parse(sampleFile)
	require.NoError(t, err)

	fury := store.Get("WARRIOR", 2)
	require.Len(t, fury, 1)
	require.NotNil(t, fury[0].Extra)
	require.Equal(t, true, fury[0].Extra.Named["favorite"])
}

// named fields and scalar holes inside a slot list are not entries but must
// still survive parse and re-encode
func TestParseKeepsStraysInsideSlotList(t *testing.T) {
	const file = `TalentLoadoutEx = {
  ["WARRIOR"] = {
    [1] = {
      { ["icon"] = 132355, ["name"] = "My Arms Build", ["text"] = "warrior/arms/ABC123" },
      ["lastSelected"] = 1,
      [9] = true,
    },
  },
}`
	store, err := Parse(file)
	require.NoError(t, err)

	arms := store.Get("WARRIOR", 1)
	require.Len(t, arms, 1)
	require.Equal(t, "My Arms Build", arms[0].Name)

	warrior := store.Classes["WARRIOR"]
	require.NotNil(t, warrior.Strays[1])
	require.Equal(t, float64(1), warrior.Strays[1].Named["lastSelected"])
	require.Equal(t, true, warrior.Strays[1].Index[9])

	again, err := Parse(store.Encode())
	require.NoError(t, err)
	if diff := cmp.Diff(store, again); diff != "" {
		t.Fatalf("round trip changed the store (-first +second):\n%s", diff)
	}
}

func TestParseMissingTable(t *testing.T) {
	_, err := Parse(`SomethingElse = {}`)
	require.Error(t, err)

	_, err = Parse(`this is not lua {{{`)
	require.Error(t, err)
}

// reading a store and writing it back must not change its meaning
func TestRoundTrip(t *testing.T) {
	store, err := Parse(sampleFile)
	require.NoError(t, err)

	again, err := Parse(store.Encode())
	require.NoError(t, err)

	if diff := cmp.Diff(store, again); diff != "" {
		t.Fatalf("round trip changed the store (-first +second):\n%s", diff)
	}
}

func TestRemoveGenerated(t *testing.T) {
	store, err := Parse(sampleFile)
	require.NoError(t, err)

	store.RemoveGenerated("WARRIOR", 1)

	arms := store.Get("WARRIOR", 1)
	require.Len(t, arms, 1)
	require.Equal(t, "My Arms Build", arms[0].Name)

	// slot 2 and other classes untouched
	require.Len(t, store.Get("WARRIOR", 2), 1)
	require.Len(t, store.Get("MAGE", 3), 1)
}

func TestRemoveAllGenerated(t *testing.T) {
	store, err := Parse(sampleFile)
	require.NoError(t, err)

	store.RemoveAllGenerated()

	require.Len(t, store.Get("WARRIOR", 1), 1)
	require.Len(t, store.Get("WARRIOR", 2), 1)
	require.Len(t, store.Get("MAGE", 3), 0)

	// user-owned entries survive regardless
	require.Equal(t, "My Arms Build", store.Get("WARRIOR", 1)[0].Name)
	require.Equal(t, "My Fury Build", store.Get("WARRIOR", 2)[0].Name)
}

func TestAdd(t *testing.T) {
	store := NewStore()
	store.Add("WARRIOR", 1, NewEntry("R-normal-broodtwister_ARCT", "warrior/arms/TEST123"))

	entries := store.Get("WARRIOR", 1)
	require.Len(t, entries, 1)
	require.Equal(t, "R-normal-broodtwister_ARCT", entries[0].Name)
	require.Equal(t, int64(0), entries[0].Icon)
}

func TestEncodeShape(t *testing.T) {
	store := NewStore()
	store.Add("WARRIOR", 1, Entry{Icon: 132355, Name: "Build 1", Text: "warrior/arms/ABC"})

	out := store.Encode()
	require.Contains(t, out, "TalentLoadoutEx")
	require.Contains(t, out, `["WARRIOR"]`)
	require.Contains(t, out, `[1]`)
	require.Contains(t, out, `["name"] = "Build 1"`)
	require.Contains(t, out, `["text"] = "warrior/arms/ABC"`)
	require.Contains(t, out, `["OPTION"]`)
}

func TestEncodeEscapesStrings(t *testing.T) {
	store := NewStore()
	store.Add("MAGE", 1, NewEntry(`quote " and \ slash`, "mage/arcane/A"))

	again, err := Parse(store.Encode())
	require.NoError(t, err)
	require.Equal(t, `quote " and \ slash`, again.Get("MAGE", 1)[0].Name)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "TalentLoadoutsEx.lua")

	store, err := Parse(sampleFile)
	require.NoError(t, err)
	require.NoError(t, store.WriteFile(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(store, loaded); diff != "" {
		t.Fatalf("store changed across write/load (-written +loaded):\n%s", diff)
	}

	// no temp files left behind
	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.lua"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
