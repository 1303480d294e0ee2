package book

import "testing"

const sampleMapping = `
xpaths:
  license: license/@type
  source.url: "@href"

chapter:
  xpath: //chapter
  chapter_id: "@id"
  title: title/text()
  child1: section

section:
  xpath: section
  section_id: "@id"
  name_version: title/text()
  xpaths:
    name_version: title/text()
  child1:
    - source
    - patch

source:
  xpath: sources/source
  url: "@url"
  md5: "@md5"

patch:
  xpath: patches/patch
  url: "@url"
`

func TestParseMappingSpecOrderPreserved(t *testing.T) {
	spec, err := ParseMappingSpec([]byte(sampleMapping))
	if err != nil {
		t.Fatalf("ParseMappingSpec: %v", err)
	}

	wantOrder := []string{"chapter", "section", "source", "patch"}
	if len(spec.Sections) != len(wantOrder) {
		t.Fatalf("got %d sections, want %d", len(spec.Sections), len(wantOrder))
	}
	for i, name := range wantOrder {
		if spec.Sections[i].Name != name {
			t.Errorf("section %d = %q, want %q", i, spec.Sections[i].Name, name)
		}
	}

	chapter, ok := spec.Section("chapter")
	if !ok {
		t.Fatal("chapter section missing")
	}
	if len(chapter.Keys) != 3 {
		t.Fatalf("chapter has %d keys, want 3", len(chapter.Keys))
	}
	if chapter.Keys[2].Name != "child1" || !chapter.Keys[2].IsChild {
		t.Errorf("expected chapter's third key to be the child1 embed, got %+v", chapter.Keys[2])
	}
	if chapter.Keys[2].ChildSections[0] != "section" {
		t.Errorf("expected chapter to embed section, got %v", chapter.Keys[2].ChildSections)
	}
}

func TestResolveXPathOverridePriority(t *testing.T) {
	spec, err := ParseMappingSpec([]byte(sampleMapping))
	if err != nil {
		t.Fatalf("ParseMappingSpec: %v", err)
	}

	// Per-section override on "section" wins over the key's own declared xpath.
	got := spec.ResolveXPath("section", "name_version", "@name-version")
	if got != "title/text()" {
		t.Errorf("ResolveXPath per-section = %q, want %q", got, "title/text()")
	}

	// A key with no override falls back to its declared xpath.
	got = spec.ResolveXPath("patch", "url", "@url")
	if got != "@url" {
		t.Errorf("ResolveXPath fallback = %q, want %q", got, "@url")
	}

	// Global override applies when there's no per-section override for that key.
	got = spec.ResolveXPath("chapter", "license", "ignored")
	if got != "license/@type" {
		t.Errorf("ResolveXPath global override = %q, want %q", got, "license/@type")
	}

	// A dotted global override (e.g. "source.url") applies to "url" within
	// the "source" section, ahead of the key's own declared xpath.
	got = spec.ResolveXPath("source", "url", "@url")
	if got != "@href" {
		t.Errorf("ResolveXPath dotted global override = %q, want %q", got, "@href")
	}
}
