package embedding

import (
	"testing"
)

func TestVectorCache_RoundTrip(t *testing.T) {
	cache, err := openVectorCache(t.TempDir())
	if err != nil {
		t.Fatalf("openVectorCache: %v", err)
	}
	defer cache.close()

	vec := []float32{0.25, -1.5, 3.125, 0}

	if err := cache.put("test-model", "open terminal", vec); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok := cache.get("test-model", "open terminal")
	if !ok {
		t.Fatal("get: cached vector not found")
	}

	if len(got) != len(vec) {
		t.Fatalf("got %d dims, want %d", len(got), len(vec))
	}

	for i := range vec {
		if got[i] != vec[i] {
			t.Errorf("dim %d: got %v, want %v", i, got[i], vec[i])
		}
	}
}

func TestVectorCache_MissesAreDistinct(t *testing.T) {
	cache, err := openVectorCache(t.TempDir())
	if err != nil {
		t.Fatalf("openVectorCache: %v", err)
	}
	defer cache.close()

	if err := cache.put("model-a", "open terminal", []float32{1}); err != nil {
		t.Fatalf("put: %v", err)
	}

	if _, ok := cache.get("model-b", "open terminal"); ok {
		t.Error("vector leaked across models")
	}

	if _, ok := cache.get("model-a", "close terminal"); ok {
		t.Error("vector leaked across inputs")
	}
}

func TestVectorEncoding(t *testing.T) {
	vec := []float32{1.5, -2.25, 0.0078125}

	decoded, err := decodeVector(encodeVector(vec))
	if err != nil {
		t.Fatalf("decodeVector: %v", err)
	}

	for i := range vec {
		if decoded[i] != vec[i] {
			t.Errorf("dim %d: got %v, want %v", i, decoded[i], vec[i])
		}
	}

	if _, err := decodeVector([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for truncated buffer")
	}
}
