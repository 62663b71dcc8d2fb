package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"testing"
	"time"

	"github.com/aretw0/oodux/pkg/adapters/memory"
	"github.com/aretw0/oodux/pkg/domain"
	"github.com/aretw0/oodux/pkg/persistence/middleware"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func snapshot(state map[string]any) *domain.Snapshot {
	return &domain.Snapshot{Revision: 3, SavedAt: time.Unix(1700000000, 0).UTC(), State: state}
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlyingStore := memory.NewSnapshotStore()
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	secureStore := mw(underlyingStore)

	ctx := context.Background()
	original := snapshot(map[string]any{"user": map[string]any{"secret": "my-secret-sauce"}})

	if err := secureStore.Save(ctx, "app", original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	stored, err := underlyingStore.Load(ctx, "app")
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}
	if _, ok := stored.State["user"]; ok {
		t.Fatalf("Expected state to be hidden, found: %v", stored.State)
	}
	if _, ok := stored.State[middleware.EnvelopeKey]; !ok {
		t.Fatal("Expected envelope key in state")
	}
	if stored.Revision != 3 {
		t.Errorf("Expected revision to stay readable, got %d", stored.Revision)
	}

	loaded, err := secureStore.Load(ctx, "app")
	if err != nil {
		t.Fatalf("Load via middleware failed: %v", err)
	}
	user, _ := loaded.State["user"].(map[string]any)
	if user["secret"] != "my-secret-sauce" {
		t.Errorf("Expected 'my-secret-sauce', got %v", user["secret"])
	}
	if !loaded.SavedAt.Equal(original.SavedAt) {
		t.Errorf("SavedAt changed: %v", loaded.SavedAt)
	}
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlyingStore := memory.NewSnapshotStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	secureStoreOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlyingStore)

	ctx := context.Background()
	if err := secureStoreOld.Save(ctx, "rotation", snapshot(map[string]any{"data": "encrypted-with-old-key"})); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	secureStoreNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlyingStore)

	loaded, err := secureStoreNew.Load(ctx, "rotation")
	if err != nil {
		t.Fatalf("Load with rotated key failed: %v", err)
	}
	if loaded.State["data"] != "encrypted-with-old-key" {
		t.Errorf("Decryption with fallback key failed")
	}

	loaded.State["data"] = "encrypted-with-new-key"
	if err := secureStoreNew.Save(ctx, "rotation", loaded); err != nil {
		t.Fatalf("Save with new key failed: %v", err)
	}

	if _, err := secureStoreOld.Load(ctx, "rotation"); err == nil {
		t.Error("Expected failure when loading new-key encryption with old-key middleware")
	}
}

func TestEncryptionMiddleware_RejectsPlainSnapshot(t *testing.T) {
	underlyingStore := memory.NewSnapshotStore()
	ctx := context.Background()
	if err := underlyingStore.Save(ctx, "plain", snapshot(map[string]any{"counter": 1})); err != nil {
		t.Fatal(err)
	}

	secureStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlyingStore)
	if _, err := secureStore.Load(ctx, "plain"); err == nil {
		t.Error("Expected plain snapshot to be rejected")
	}
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic for invalid key size")
		}
	}()
	middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
}
