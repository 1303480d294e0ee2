package scripter

import (
	"testing"

	"github.com/wiigelec/skw/book"
)

func sampleRecord() *book.Record {
	fields := book.NewOrderedMap()
	fields.Set("name", book.ScalarValue("gcc"))
	fields.Set("version", book.ScalarValue("12.2.0"))
	fields.Set("build_instructions", book.ListValue([]string{"./configure", "make", "make install"}))

	source := book.NewOrderedMap()
	source.Set("url", book.ScalarValue("https://example.org/gcc.tar.xz"))
	fields.Set("source", book.ListMapValue([]*book.OrderedMap{source}))

	return &book.Record{
		ChapterID: "toolchain",
		SectionID: "gcc-pass1",
		Name:      "gcc",
		Version:   "12.2.0",
		Fields:    fields,
	}
}

func TestExpandTemplateScalarAndList(t *testing.T) {
	rec := sampleRecord()
	content := "pkg={{name}}-{{version}}\n{{build_instructions}}\n"
	got := ExpandTemplate(rec, content)
	want := "pkg=gcc-12.2.0\n./configure\nmake\nmake install\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExpandTemplateListMapIndex(t *testing.T) {
	rec := sampleRecord()
	got := ExpandTemplate(rec, "url={{source.0.url}}")
	if got != "url=https://example.org/gcc.tar.xz" {
		t.Errorf("got %q", got)
	}
}

func TestExpandTemplateMissingPathIsEmpty(t *testing.T) {
	rec := sampleRecord()
	got := ExpandTemplate(rec, "x=[{{nope.at.all}}]")
	if got != "x=[]" {
		t.Errorf("got %q", got)
	}
}

func TestApplyRegexLiteralAndPattern(t *testing.T) {
	cfg := &Config{
		GlobalRegex: []string{"s/foo/bar/"},
		Chapters:    map[string]Scoped{"toolchain": {Regex: []string{`r#\d+#NUM#`}}},
	}
	rec := sampleRecord()
	out := ApplyRegex(cfg, rec, "foo123", nil)
	if out != "barNUM" {
		t.Errorf("got %q, want %q", out, "barNUM")
	}
}

func TestApplyRegexMalformedRuleWarnsAndSkips(t *testing.T) {
	cfg := &Config{GlobalRegex: []string{"s/onlyone"}}
	rec := sampleRecord()
	var warned string
	out := ApplyRegex(cfg, rec, "onlyone here", func(s string) { warned = s })
	if out != "onlyone here" {
		t.Errorf("content should be unchanged, got %q", out)
	}
	if warned == "" {
		t.Error("expected a warning for the malformed rule")
	}
}
