package oracle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trash-route-solver/internal/domain"
	"trash-route-solver/internal/ports"
)

func testLocate(id int64) (domain.Point, bool) {
	switch id {
	case 1:
		return domain.Point{X: -112.07, Y: 33.45}, true
	case 2:
		return domain.Point{X: -112.00, Y: 33.50}, true
	}
	return domain.Point{}, false
}

func osrmServer(t *testing.T, wantProfile string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		prefix := "/route/v1/" + wantProfile + "/"
		if !strings.HasPrefix(r.URL.Path, prefix) {
			t.Errorf("path = %q, want prefix %q", r.URL.Path, prefix)
		}
		fmt.Fprint(w, `{"code":"Ok","routes":[{"duration":321}]}`)
	}))
}

func TestOSRMUsesConfiguredProfile(t *testing.T) {
	srv := osrmServer(t, "walking")
	defer srv.Close()

	osrm, err := NewOSRM(srv.URL, "walking", testLocate, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seconds, err := osrm.Duration(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seconds != 321 {
		t.Fatalf("seconds = %v, want 321", seconds)
	}
}

func TestOSRMDefaultsToDrivingProfile(t *testing.T) {
	srv := osrmServer(t, "driving")
	defer srv.Close()

	osrm, err := NewOSRM(srv.URL, "", testLocate, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := osrm.Duration(context.Background(), 1, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOSRMSurfacesNoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":"NoRoute","routes":[]}`)
	}))
	defer srv.Close()

	osrm, err := NewOSRM(srv.URL, "driving", testLocate, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := osrm.Duration(context.Background(), 1, 2); !errors.Is(err, ports.ErrRouteUnavailable) {
		t.Fatalf("err = %v, want ErrRouteUnavailable", err)
	}
}

func TestOSRMUnknownStop(t *testing.T) {
	osrm, err := NewOSRM("http://osrm.invalid", "driving", testLocate, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := osrm.Duration(context.Background(), 1, 99); !errors.Is(err, ports.ErrRouteUnavailable) {
		t.Fatalf("err = %v, want ErrRouteUnavailable", err)
	}
}

func TestNewOSRMValidation(t *testing.T) {
	if _, err := NewOSRM("", "driving", testLocate, nil); err == nil {
		t.Error("empty base url should be rejected")
	}
	if _, err := NewOSRM("http://osrm.local", "driving", nil, nil); err == nil {
		t.Error("nil locate func should be rejected")
	}
}
