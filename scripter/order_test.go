package scripter

import (
	"testing"

	"github.com/wiigelec/skw/book"
	"github.com/wiigelec/skw/resolver"
)

func recWithOrder(chapter, section, order string) *book.Record {
	return &book.Record{ChapterID: chapter, SectionID: section, Name: section, BuildOrder: order, Fields: book.NewOrderedMap()}
}

func TestUsesLinearModeRequiresAllOrdersSet(t *testing.T) {
	all := []*book.Record{recWithOrder("c", "s1", "1"), recWithOrder("c", "s2", "2")}
	if !usesLinearMode(all) {
		t.Error("expected linear mode when every record has build_order")
	}
	mixed := []*book.Record{recWithOrder("c", "s1", "1"), recWithOrder("c", "s2", "")}
	if usesLinearMode(mixed) {
		t.Error("expected dependency mode when any record lacks build_order")
	}
}

func TestLinearOrderSortsByOrderThenTiebreakers(t *testing.T) {
	records := []*book.Record{
		recWithOrder("c", "z", "0002"),
		recWithOrder("c", "a", "0001"),
		recWithOrder("b", "a", "0001"),
	}
	ordered := linearOrder(records)
	got := []string{ordered[0].ChapterID, ordered[1].ChapterID, ordered[2].ChapterID}
	want := []string{"b", "c", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want chapter sequence %v", got, want)
		}
	}
}

func TestDependencyOrderMatchesCaseInsensitively(t *testing.T) {
	a := &book.Record{Name: "Glib", ChapterID: "c", SectionID: "glib", Fields: book.NewOrderedMap()}
	b := &book.Record{Name: "App", ChapterID: "c", SectionID: "app", Dependencies: map[string][]string{"required": {"glib"}}, Fields: book.NewOrderedMap()}
	cfg := &Config{Target: "app", IncludeClasses: []string{"required"}}

	ordered, err := dependencyOrder(cfg, []*book.Record{a, b}, nil, nil, nil)
	if err != nil {
		t.Fatalf("dependencyOrder: %v", err)
	}
	if len(ordered) != 2 || ordered[0].Name != "Glib" || ordered[1].Name != "App" {
		t.Fatalf("unexpected order: %+v", ordered)
	}
}

func TestDependencyOrderResolvesAliasedDependencyName(t *testing.T) {
	a := &book.Record{Name: "glib", ChapterID: "c", SectionID: "glib", Fields: book.NewOrderedMap()}
	b := &book.Record{Name: "app", ChapterID: "c", SectionID: "app", Dependencies: map[string][]string{"required": {"glib-2.82.5"}}, Fields: book.NewOrderedMap()}
	cfg := &Config{Target: "app", IncludeClasses: []string{"required"}}
	aliases := AliasTable{"glib-2.82.5": "glib"}

	ordered, err := dependencyOrder(cfg, []*book.Record{a, b}, aliases, nil, nil)
	if err != nil {
		t.Fatalf("dependencyOrder: %v", err)
	}
	if len(ordered) != 2 || ordered[0].Name != "glib" || ordered[1].Name != "app" {
		t.Fatalf("unexpected order: %+v", ordered)
	}
}

func TestDependencyOrderHonorsPerNodeDepClassesOverride(t *testing.T) {
	glib := &book.Record{Name: "glib", ChapterID: "c", SectionID: "glib", Fields: book.NewOrderedMap()}
	app := &book.Record{
		Name: "app", ChapterID: "c", SectionID: "app",
		Dependencies: map[string][]string{"optional": {"glib"}},
		Fields:       book.NewOrderedMap(),
	}
	cfg := &Config{Target: "app", IncludeClasses: []string{"required"}}

	// cfg.IncludeClasses alone (used as the global default) would not follow
	// an "optional" edge, so glib would never be reached.
	without, err := dependencyOrder(cfg, []*book.Record{glib, app}, nil, nil, nil)
	if err != nil {
		t.Fatalf("dependencyOrder: %v", err)
	}
	if len(without) != 1 || without[0].Name != "app" {
		t.Fatalf("expected glib unreached without an override, got: %+v", without)
	}

	withOverride, err := dependencyOrder(cfg, []*book.Record{glib, app}, nil, resolver.DepClasses{"app": {"optional"}}, nil)
	if err != nil {
		t.Fatalf("dependencyOrder: %v", err)
	}
	if len(withOverride) != 2 || withOverride[0].Name != "glib" || withOverride[1].Name != "app" {
		t.Fatalf("expected glib reached via per-node override, got: %+v", withOverride)
	}
}

func TestSelectableFilters(t *testing.T) {
	cfg := &Config{
		ChapterFilters: Filter{Exclude: []string{"skip"}},
		PackageFilters: Filter{Include: []string{"gcc"}},
	}
	keep := &book.Record{ChapterID: "toolchain", Name: "gcc"}
	drop1 := &book.Record{ChapterID: "skip", Name: "gcc"}
	drop2 := &book.Record{ChapterID: "toolchain", Name: "other"}

	if !selectable(cfg, keep) {
		t.Error("expected keep to be selectable")
	}
	if selectable(cfg, drop1) {
		t.Error("expected drop1 to be excluded by chapter filter")
	}
	if selectable(cfg, drop2) {
		t.Error("expected drop2 to be excluded by package include filter")
	}
}
