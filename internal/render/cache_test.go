package render

import (
	"sync"
	"testing"
)

func TestPoolsKeyedByOptions(t *testing.T) {
	ClearCache()
	defer ClearCache()

	base := DefaultOptions()
	for _, opts := range []Options{base, DefaultOptions(), base.WithWidth(100), base.WithStyle("light")} {
		if _, err := Markdown("hello", opts); err != nil {
			t.Fatalf("Markdown(%+v): %v", opts, err)
		}
	}

	if CacheSize() != 3 {
		t.Errorf("expected 3 pools, got %d", CacheSize())
	}
}

func TestCheckoutAndRelease(t *testing.T) {
	ClearCache()
	defer ClearCache()

	opts := DefaultOptions()
	first, err := renderers.checkout(opts)
	if err != nil || first == nil {
		t.Fatalf("checkout() = %v, %v", first, err)
	}
	renderers.release(opts, first)
	renderers.release(opts, nil)

	if CacheSize() != 1 {
		t.Errorf("expected 1 pool, got %d", CacheSize())
	}

	ClearCache()
	if CacheSize() != 0 {
		t.Errorf("expected 0 pools after clear, got %d", CacheSize())
	}
}

func TestReleaseStyle(t *testing.T) {
	ClearCache()
	defer ClearCache()

	dark := DefaultOptions().ForTheme("dark")
	light := dark.ForTheme("light")
	for _, opts := range []Options{dark, dark.WithWidth(60), light} {
		if _, err := Markdown("*x*", opts); err != nil {
			t.Fatal(err)
		}
	}

	if n := ReleaseStyle("dark"); n != 2 {
		t.Errorf("ReleaseStyle(dark) = %d, want 2", n)
	}
	if CacheSize() != 1 {
		t.Errorf("expected the light pool to remain, got %d pools", CacheSize())
	}
	if n := ReleaseStyle("dark"); n != 0 {
		t.Errorf("second ReleaseStyle(dark) = %d, want 0", n)
	}
}

func TestPoolConcurrency(t *testing.T) {
	ClearCache()
	defer ClearCache()

	opts := DefaultOptions()
	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := Markdown("# Test\n\n```go\nx := 1\n```", opts); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent render error: %v", err)
	}
	if CacheSize() != 1 {
		t.Errorf("expected 1 pool after concurrent access, got %d", CacheSize())
	}
}

func TestCreateRendererWithInvalidStyle(t *testing.T) {
	if _, err := createRenderer(DefaultOptions().WithStyle("/nonexistent/style.json")); err == nil {
		t.Error("expected error for invalid style")
	}
}
