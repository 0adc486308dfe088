package secrets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeSecret(t *testing.T, path, value string, perm os.FileMode) {
	t.Helper()
	if err := os.WriteFile(path, []byte(value), perm); err != nil {
		t.Fatal(err)
	}
	// WriteFile does not change the mode of an existing file
	if err := os.Chmod(path, perm); err != nil {
		t.Fatal(err)
	}
}

func TestFileProvider_GetSecret(t *testing.T) {
	secretPath := filepath.Join(t.TempDir(), "api-key")
	writeSecret(t, secretPath, "test-value\n", 0600)

	provider, err := NewFileProvider(secretPath, false)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	value, err := provider.GetSecret(context.Background(), "api-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Value should have whitespace trimmed
	if value != "test-value" {
		t.Errorf("expected value 'test-value', got '%s'", value)
	}
}

func TestFileProvider_GetSecret_NotFound(t *testing.T) {
	provider, err := NewFileProvider(filepath.Join(t.TempDir(), "missing"), false)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	_, err = provider.GetSecret(context.Background(), "api-key")
	if !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("expected ErrSecretNotFound, got %v", err)
	}
}

func TestFileProvider_EmptyFile(t *testing.T) {
	secretPath := filepath.Join(t.TempDir(), "api-key")
	writeSecret(t, secretPath, "\n", 0600)

	provider, err := NewFileProvider(secretPath, false)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	_, err = provider.GetSecret(context.Background(), "api-key")
	if !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("expected ErrSecretNotFound for empty file, got %v", err)
	}
}

func TestFileProvider_Permissions(t *testing.T) {
	tests := []struct {
		name        string
		permissions os.FileMode
		shouldWork  bool
	}{
		{"0600 permissions", 0600, true},
		{"0400 permissions", 0400, true},
		{"0644 permissions", 0644, false},
		{"0640 permissions", 0640, false},
		{"0700 permissions", 0700, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secretPath := filepath.Join(t.TempDir(), "api-key")
			writeSecret(t, secretPath, "value", tt.permissions)

			provider, err := NewFileProvider(secretPath, false)
			if err != nil {
				t.Fatalf("failed to create provider: %v", err)
			}
			defer provider.Close()

			_, err = provider.GetSecret(context.Background(), "api-key")
			if tt.shouldWork && err != nil {
				t.Errorf("expected success, got error: %v", err)
			}
			if !tt.shouldWork && err == nil {
				t.Error("expected error for insecure permissions, got nil")
			}
		})
	}
}

func TestFileProvider_NotRegularFile(t *testing.T) {
	dir := t.TempDir()
	secretPath := filepath.Join(dir, "api-key")
	if err := os.Mkdir(secretPath, 0700); err != nil {
		t.Fatal(err)
	}

	provider, err := NewFileProvider(secretPath, false)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	if _, err := provider.GetSecret(context.Background(), "api-key"); err == nil {
		t.Error("expected error for directory, got nil")
	}
}

func TestFileProvider_Caching(t *testing.T) {
	secretPath := filepath.Join(t.TempDir(), "api-key")
	writeSecret(t, secretPath, "value1", 0600)

	provider, err := NewFileProvider(secretPath, false)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	// First read (should cache)
	value1, err := provider.GetSecret(context.Background(), "api-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	writeSecret(t, secretPath, "value2", 0600)

	// Second read (should return cached value)
	value2, err := provider.GetSecret(context.Background(), "api-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value2 != value1 {
		t.Error("expected cached value to be returned")
	}

	if err := provider.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Third read (should return new value)
	value3, err := provider.GetSecret(context.Background(), "api-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value3 != "value2" {
		t.Errorf("expected refreshed value 'value2', got '%s'", value3)
	}
}

func TestFileProvider_WatchMode(t *testing.T) {
	dir := t.TempDir()
	secretPath := filepath.Join(dir, "api-key")
	writeSecret(t, secretPath, "value1", 0600)

	provider, err := NewFileProvider(secretPath, true)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	value1, err := provider.GetSecret(context.Background(), "api-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value1 != "value1" {
		t.Errorf("expected value 'value1', got '%s'", value1)
	}

	// Changes to other files in the directory keep the cache
	writeSecret(t, filepath.Join(dir, "unrelated"), "x", 0600)

	writeSecret(t, secretPath, "value2", 0600)

	deadline := time.Now().Add(2 * time.Second)
	for {
		value, err := provider.GetSecret(context.Background(), "api-key")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if value == "value2" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected value 'value2' after file change, got '%s'", value)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestFileProvider_Name(t *testing.T) {
	provider, err := NewFileProvider(filepath.Join(t.TempDir(), "api-key"), false)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	defer provider.Close()

	if name := provider.Name(); name != "file" {
		t.Errorf("expected provider name 'file', got '%s'", name)
	}
}

func TestFileProvider_MissingDirectory(t *testing.T) {
	_, err := NewFileProvider(filepath.Join(t.TempDir(), "nope", "api-key"), false)
	if err == nil {
		t.Error("expected error for missing directory, got nil")
	}
}
