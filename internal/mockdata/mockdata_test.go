package mockdata

import (
	"strings"
	"testing"
	"time"

	"github.com/Adda-Baaj/geopulse/internal/domain"
	"github.com/Adda-Baaj/geopulse/pkg/providers"
)

var anchor = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestCatalogShape(t *testing.T) {
	items := Catalog(anchor)
	if len(items) == 0 {
		t.Fatalf("empty catalog")
	}

	videos := 0
	for i, it := range items {
		if it.URL != domain.UnlinkedURL {
			t.Fatalf("mock item %d should be unlinked, got %q", i, it.URL)
		}
		if want := anchor.Add(-time.Duration(i) * time.Hour); !it.PublishedTime().Equal(want) {
			t.Fatalf("item %d published %s, want %s", i, it.PublishedAt, want)
		}
		if len(it.Tags) != 2 {
			t.Fatalf("item %d tags %v", i, it.Tags)
		}
		if !strings.HasPrefix(it.ImageURL, "https://placehold.co/") {
			t.Fatalf("item %d image %q", i, it.ImageURL)
		}
		if it.Type == domain.ItemTypeVideo {
			videos++
		}
	}
	if videos == 0 {
		t.Fatalf("catalog should contain videos")
	}
	if items[0].ImageURL != "https://placehold.co/600x400/0f172a/white?text=Global+energy+summit" {
		t.Fatalf("unexpected placeholder %q", items[0].ImageURL)
	}
}

func TestCatalogCoversEveryRegionAndCategory(t *testing.T) {
	items := Catalog(anchor)
	for _, r := range domain.Regions {
		if n := countTag(items, string(r)); n < MinItems {
			t.Fatalf("region %s has %d items", r, n)
		}
	}
	for _, c := range providers.GNewsCategories {
		if n := countTag(items, c); n < MinItems {
			t.Fatalf("category %s has %d items", c, n)
		}
	}
}

func TestForRegionProperties(t *testing.T) {
	items := Catalog(anchor)
	for _, r := range domain.Regions {
		got := ForRegion(items, r)
		if len(got) < MinItems {
			t.Fatalf("region %s returned %d items", r, len(got))
		}
		if r == domain.RegionGlobal && len(got) != len(items) {
			t.Fatalf("global should return the whole catalog")
		}
		for _, it := range got {
			if !it.HasTag(string(r)) && !it.HasTag(GlobalTag) {
				t.Fatalf("region %s returned unrelated item %v", r, it.Tags)
			}
		}
		assertSorted(t, got)
	}
}

func TestFilterByTagPadsSparseMatches(t *testing.T) {
	items := []domain.PulseItem{
		item("a", 0, "Arctic"),
		item("b", 1, "Global"),
		item("c", 2, "Global"),
		item("d", 3, "Africa"),
		item("e", 4, "Global", "Arctic"),
		item("f", 5, "Global"),
	}

	got := FilterByTag(items, "Arctic", "Global", 4)
	ids := make([]string, len(got))
	for i, it := range got {
		ids[i] = it.ID
	}
	if strings.Join(ids, ",") != "a,b,c,e,f" {
		t.Fatalf("unexpected padded result %v", ids)
	}
}

func TestFilterByTagNoPadWhenEnough(t *testing.T) {
	items := []domain.PulseItem{
		item("a", 0, "Arctic"), item("b", 1, "Arctic"), item("c", 2, "Arctic"),
		item("d", 3, "Arctic"), item("e", 4, "Global"),
	}
	if got := FilterByTag(items, "Arctic", "Global", 4); len(got) != 4 {
		t.Fatalf("expected 4 items, got %d", len(got))
	}
}

func TestForCategory(t *testing.T) {
	items := Catalog(anchor)
	if got := ForCategory(items, ""); len(got) != len(items) {
		t.Fatalf("empty category should return all")
	}
	got := ForCategory(items, "Sports")
	for _, it := range got {
		if !it.HasTag("sports") {
			t.Fatalf("unexpected item %v", it.Tags)
		}
	}
}

func TestWeatherIsCopy(t *testing.T) {
	w := Weather()
	w[0].Name = "changed"
	if Weather()[0].Name == "changed" {
		t.Fatalf("Weather should return a copy")
	}
}

func countTag(items []domain.PulseItem, tag string) int {
	n := 0
	for _, it := range items {
		if it.HasTag(tag) {
			n++
		}
	}
	return n
}

func assertSorted(t *testing.T, items []domain.PulseItem) {
	t.Helper()
	for i := 1; i < len(items); i++ {
		if items[i].PublishedTime().After(items[i-1].PublishedTime()) {
			t.Fatalf("items not sorted at %d", i)
		}
	}
}

func item(id string, ageHours int, tags ...string) domain.PulseItem {
	return domain.PulseItem{
		ID:          id,
		Title:       id,
		Source:      "test",
		PublishedAt: anchor.Add(-time.Duration(ageHours) * time.Hour).Format(time.RFC3339),
		URL:         domain.UnlinkedURL,
		Type:        domain.ItemTypeArticle,
		Tags:        tags,
	}
}
