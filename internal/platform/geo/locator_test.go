package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLocate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","lat":40.0,"lon":-73.0}`))
	}))
	defer srv.Close()

	l := NewIPLocator(srv.URL, time.Second)
	coords, err := l.Locate(context.Background(), "93.184.216.34")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coords.Lat != 40.0 || coords.Lng != -73.0 {
		t.Errorf("expected (40,-73), got %+v", coords)
	}
}

func TestLocate_FailedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail"}`))
	}))
	defer srv.Close()

	l := NewIPLocator(srv.URL, time.Second)
	coords, err := l.Locate(context.Background(), "93.184.216.34")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
	if coords != nil {
		t.Errorf("expected nil coordinates, got %+v", coords)
	}
}

func TestLocate_TimeoutYieldsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	l := NewIPLocator(srv.URL, 20*time.Millisecond)
	_, err := l.Locate(context.Background(), "93.184.216.34")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("timeout must surface as ErrUnavailable, got %v", err)
	}
}

func TestLocate_PrivateAddress(t *testing.T) {
	l := NewIPLocator("http://unused.invalid", time.Second)

	for _, ip := range []string{"127.0.0.1", "10.0.0.5", "192.168.1.2", "", "not-an-ip"} {
		if _, err := l.Locate(context.Background(), ip); !errors.Is(err, ErrUnavailable) {
			t.Errorf("ip %q: expected ErrUnavailable, got %v", ip, err)
		}
	}
}
