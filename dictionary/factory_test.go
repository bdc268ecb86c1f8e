package dictionary

import (
	"bytes"
	"compress/gzip"
	"io"
	"testing"
)

func TestGetCachesByName(t *testing.T) {
	src := []byte("data_cache_test\n_category.id  entry\n")
	calls := 0
	SetResolver(func(name string) (io.ReadCloser, error) {
		calls++
		return io.NopCloser(bytes.NewReader(src)), nil
	})
	defer SetResolver(defaultResolver)

	factoryMu.Lock()
	delete(factoryCache, "cache_test")
	factoryMu.Unlock()

	d1, err := Get("cache_test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d2, err := Get("cache_test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d1 != d2 {
		t.Fatalf("expected the second Get to return the cached instance")
	}
	if calls != 1 {
		t.Fatalf("expected the resolver to run once, ran %d times", calls)
	}
}

func TestGetGunzipsTransparently(t *testing.T) {
	src := []byte("data_gz_test\n_category.id  entry\n")
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	SetResolver(func(name string) (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(buf.Bytes())), nil
	})
	defer SetResolver(defaultResolver)

	factoryMu.Lock()
	delete(factoryCache, "gz_test")
	factoryMu.Unlock()

	d, err := Get("gz_test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Name != "gz_test" {
		t.Fatalf("unexpected dictionary name: %q", d.Name)
	}
}
