package places

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/langchou/atlas/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient("test-key", server.URL, "pt-BR", timeout, zap.NewNop())
}

func TestTextSearchSendsParameters(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/place/textsearch/json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("query") != "bakery" {
			t.Errorf("query = %q", q.Get("query"))
		}
		if q.Get("location") != "-23.5,-46.6" {
			t.Errorf("location = %q", q.Get("location"))
		}
		if q.Get("radius") != "5000" {
			t.Errorf("radius = %q", q.Get("radius"))
		}
		if q.Get("key") != "test-key" {
			t.Errorf("key = %q", q.Get("key"))
		}
		if q.Get("language") != "pt-BR" {
			t.Errorf("language = %q", q.Get("language"))
		}
		w.Write([]byte(`{"status":"OK","results":[{"name":"A"},{"name":"B"}]}`))
	}, time.Second)

	resp, err := client.TextSearch(context.Background(), "bakery", models.Location{Lat: -23.5, Lng: -46.6}, 5000)
	if err != nil {
		t.Fatalf("TextSearch failed: %v", err)
	}
	if resp.Status != StatusOK {
		t.Errorf("status = %s", resp.Status)
	}
	if len(resp.Results) != 2 {
		t.Errorf("results = %d, want 2", len(resp.Results))
	}
}

func TestTextSearchNotConfigured(t *testing.T) {
	client := NewClient("", "", "pt-BR", time.Second, zap.NewNop())
	_, err := client.TextSearch(context.Background(), "bakery", models.Location{}, 1000)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestTextSearchHTTPFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, time.Second)

	_, err := client.TextSearch(context.Background(), "bakery", models.Location{Lat: 1, Lng: 1}, 1000)
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *ProviderError", err)
	}
	if perr.Status != StatusRequestFailed {
		t.Errorf("status = %s, want %s", perr.Status, StatusRequestFailed)
	}
}

func TestTextSearchTimeout(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, 50*time.Millisecond)
	defer close(release)

	_, err := client.TextSearch(context.Background(), "bakery", models.Location{Lat: 1, Lng: 1}, 1000)
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *ProviderError", err)
	}
	if perr.Status != StatusRequestFailed {
		t.Errorf("status = %s", perr.Status)
	}
}

func TestDetailsRequestsFixedFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/place/details/json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("fields"); got != DetailFields {
			t.Errorf("fields = %q", got)
		}
		if got := r.URL.Query().Get("place_id"); got != "abc" {
			t.Errorf("place_id = %q", got)
		}
		w.Write([]byte(`{"status":"OK","result":{"formatted_phone_number":"(11) 5555-0000"}}`))
	}, time.Second)

	place, err := client.Details(context.Background(), "abc")
	if err != nil {
		t.Fatalf("Details failed: %v", err)
	}
	if place.FormattedPhoneNumber != "(11) 5555-0000" {
		t.Errorf("phone = %q", place.FormattedPhoneNumber)
	}
}

func TestDetailsNonOKStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"NOT_FOUND"}`))
	}, time.Second)

	_, err := client.Details(context.Background(), "missing")
	var perr *ProviderError
	if !errors.As(err, &perr) || perr.Status != "NOT_FOUND" {
		t.Fatalf("err = %v, want ProviderError NOT_FOUND", err)
	}
}

func TestPlaceCoordinates(t *testing.T) {
	zero := 0.0
	lat := -23.51
	cases := []struct {
		name  string
		place Place
		ok    bool
	}{
		{"no geometry", Place{}, false},
		{"no location", Place{Geometry: &Geometry{}}, false},
		{"missing lng", Place{Geometry: &Geometry{Location: &LatLng{Lat: &lat}}}, false},
		{"zero is valid", Place{Geometry: &Geometry{Location: &LatLng{Lat: &zero, Lng: &zero}}}, true},
	}
	for _, tc := range cases {
		if _, _, ok := tc.place.Coordinates(); ok != tc.ok {
			t.Errorf("%s: ok = %v, want %v", tc.name, ok, tc.ok)
		}
	}
}
