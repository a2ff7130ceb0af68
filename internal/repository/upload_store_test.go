package repository

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestCopyWithProgress(t *testing.T) {
	data := strings.Repeat("x", uploadChunk*4)
	var out bytes.Buffer
	var seen []int

	n, err := copyWithProgress(context.Background(), &out, strings.NewReader(data), int64(len(data)), func(p int) {
		seen = append(seen, p)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != int64(len(data)) || out.Len() != len(data) {
		t.Fatalf("expected %d bytes copied, got %d", len(data), n)
	}

	want := []int{0, 25, 50, 75, 99, 100}
	if len(seen) != len(want) {
		t.Fatalf("expected progress %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("expected progress %v, got %v", want, seen)
			break
		}
	}
}

func TestCopyWithProgress_UnknownSize(t *testing.T) {
	var seen []int
	_, err := copyWithProgress(context.Background(), &bytes.Buffer{}, strings.NewReader("abc"), 0, func(p int) {
		seen = append(seen, p)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != 2 || seen[0] != 0 || seen[1] != 100 {
		t.Errorf("expected [0 100], got %v", seen)
	}
}

func TestCopyWithProgress_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := copyWithProgress(ctx, &bytes.Buffer{}, strings.NewReader("abc"), 3, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context canceled, got %v", err)
	}
}

func TestContentTypeOf(t *testing.T) {
	if got := contentTypeOf("door.JPG"); got != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", got)
	}
	if got := contentTypeOf("notes"); got != "application/octet-stream" {
		t.Errorf("expected octet-stream, got %s", got)
	}
}
