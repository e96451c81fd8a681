package filelock

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
)

func TestWithSerializes(t *testing.T) {
	dir := t.TempDir()
	lock := filepath.Join(dir, "counter.lock")
	counter := filepath.Join(dir, "counter")
	if err := os.WriteFile(counter, []byte("0"), 0o600); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := With(lock, func() error {
				data, err := os.ReadFile(counter)
				if err != nil {
					return err
				}
				n, _ := strconv.Atoi(string(data))
				return os.WriteFile(counter, []byte(strconv.Itoa(n+1)), 0o600)
			})
			if err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(counter)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "20" {
		t.Fatalf("counter = %s, want 20", data)
	}
}

func TestWithReturnsCallbackError(t *testing.T) {
	boom := errors.New("boom")
	if err := With(filepath.Join(t.TempDir(), "x.lock"), func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
}
