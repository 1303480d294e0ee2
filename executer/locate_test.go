package executer

import (
	"testing"

	"github.com/wiigelec/skw/book"
)

func TestParseScriptFilename(t *testing.T) {
	order, identity, err := ParseScriptFilename("0042_binutils_2.40.sh")
	if err != nil {
		t.Fatalf("ParseScriptFilename: %v", err)
	}
	if order != 42 {
		t.Errorf("order = %d, want 42", order)
	}
	if identity != "binutils_2.40" {
		t.Errorf("identity = %q, want %q", identity, "binutils_2.40")
	}
}

func TestParseScriptFilenameRejectsMalformedName(t *testing.T) {
	if _, _, err := ParseScriptFilename("not-a-script.sh"); err == nil {
		t.Error("expected error for a name with no order prefix separator")
	}
}

func TestBuildIdentityIndexMatchesScriptSlug(t *testing.T) {
	rec := &book.Record{Name: "Glibc", Version: "2.40", ChapterID: "c1", SectionID: "glibc"}
	index := BuildIdentityIndex([]*book.Record{rec})
	if index[rec.ScriptSlug()] != rec {
		t.Errorf("index missing entry for %q", rec.ScriptSlug())
	}
}

func TestLocateRecordFindsByIdentityIndex(t *testing.T) {
	rec := &book.Record{Name: "foo", Version: "1.0", ChapterID: "c1", SectionID: "s1"}
	index := BuildIdentityIndex([]*book.Record{rec})
	got, err := LocateRecord(index, nil, "c1_s1")
	if err != nil {
		t.Fatalf("LocateRecord: %v", err)
	}
	if got != rec {
		t.Errorf("LocateRecord returned a different record")
	}
}

func TestLocateRecordFallsBackToCustomTable(t *testing.T) {
	custom := map[string]*book.Record{
		"special_case": {Name: "bar"},
	}
	rec, err := LocateRecord(nil, custom, "special_case")
	if err != nil {
		t.Fatalf("LocateRecord: %v", err)
	}
	if rec.Name != "bar" {
		t.Errorf("rec.Name = %q, want %q", rec.Name, "bar")
	}
}

func TestLocateRecordFailsWhenNoMatch(t *testing.T) {
	if _, err := LocateRecord(nil, nil, "c1_s1"); err == nil {
		t.Error("expected error when neither the record map nor the custom table match")
	}
}
