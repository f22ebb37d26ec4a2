package pulse

import (
	"context"
	"errors"
	"testing"

	"github.com/Adda-Baaj/geopulse/internal/domain"
	"github.com/Adda-Baaj/geopulse/internal/mockdata"
	"github.com/Adda-Baaj/geopulse/pkg/providers"
)

type fakeWeather struct {
	id    string
	fail  map[string]bool
	calls [][]providers.City
}

func (f *fakeWeather) ID() string          { return f.id }
func (f *fakeWeather) Kind() string        { return "fake" }
func (f *fakeWeather) DisplayName() string { return f.id }

func (f *fakeWeather) Current(_ context.Context, cities []providers.City) ([]domain.WeatherData, error) {
	f.calls = append(f.calls, cities)
	var out []domain.WeatherData
	var errs []error
	for i, c := range cities {
		if f.fail[c.Name] || f.fail["*"] {
			errs = append(errs, errors.New("boom "+c.Name))
			continue
		}
		out = append(out, domain.WeatherData{ID: int64(i + 1), Name: c.Name})
	}
	return out, errors.Join(errs...)
}

var testCities = []providers.City{
	{Name: "London"}, {Name: "Tokyo"}, {Name: "Kyiv"}, {Name: "Delhi"}, {Name: "Lagos"}, {Name: "Lima"},
}

func firstK(_ int, k int) []int {
	out := make([]int, k)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestFetchWeatherSamplesAndDropsFailures(t *testing.T) {
	w := &fakeWeather{id: "ow", fail: map[string]bool{"Tokyo": true}}
	svc := newTestService(providers.Set{Weather: []providers.WeatherClient{w}, Cities: testCities}, Options{WeatherSampleSize: 4, Sample: firstK})

	got := svc.FetchWeather(context.Background())
	if len(w.calls) != 1 || len(w.calls[0]) != 4 {
		t.Fatalf("expected one call for 4 cities, got %v", w.calls)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(got))
	}
	for _, g := range got {
		if g.Name == "Tokyo" {
			t.Fatalf("failed city should be dropped")
		}
	}
}

func TestFetchWeatherTriesNextClient(t *testing.T) {
	broken := &fakeWeather{id: "ow", fail: map[string]bool{"*": true}}
	backup := &fakeWeather{id: "om"}
	svc := newTestService(providers.Set{Weather: []providers.WeatherClient{broken, backup}, Cities: testCities}, Options{Sample: firstK})

	if got := svc.FetchWeather(context.Background()); len(got) != 4 {
		t.Fatalf("expected backup snapshots, got %d", len(got))
	}
	if len(backup.calls) != 1 {
		t.Fatalf("backup should be called once")
	}
}

func TestFetchWeatherFallsBackToMock(t *testing.T) {
	broken := &fakeWeather{id: "ow", fail: map[string]bool{"*": true}}
	svc := newTestService(providers.Set{Weather: []providers.WeatherClient{broken}, Cities: testCities}, Options{})

	got := svc.FetchWeather(context.Background())
	if len(got) != len(mockdata.Weather()) {
		t.Fatalf("expected mock weather, got %d", len(got))
	}
}

func TestFetchWeatherSampleLargerThanCities(t *testing.T) {
	w := &fakeWeather{id: "ow"}
	svc := newTestService(providers.Set{Weather: []providers.WeatherClient{w}, Cities: testCities[:2]}, Options{WeatherSampleSize: 10})

	if got := svc.FetchWeather(context.Background()); len(got) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(got))
	}
}

func TestRandomSampleDistinct(t *testing.T) {
	idx := randomSample(10, 4)
	seen := map[int]bool{}
	for _, i := range idx {
		if i < 0 || i >= 10 || seen[i] {
			t.Fatalf("bad sample %v", idx)
		}
		seen[i] = true
	}
	if len(idx) != 4 {
		t.Fatalf("expected 4 indexes, got %d", len(idx))
	}
}
