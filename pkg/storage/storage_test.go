package storage_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"testing"

	"github.com/JaimeStill/proctor/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=proctorstore;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/proctorstore;"

func TestNewReturnsSystem(t *testing.T) {
	cfg := &storage.Config{
		ContainerName:    "titles",
		ConnectionString: azuriteConnString,
	}

	sys, err := storage.New(cfg, slog.Default())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if sys == nil {
		t.Fatal("New() returned nil system")
	}
}

func TestNewInvalidConnectionString(t *testing.T) {
	cfg := &storage.Config{
		ContainerName:    "titles",
		ConnectionString: "not-a-connection-string",
	}

	_, err := storage.New(cfg, slog.Default())
	if err == nil {
		t.Fatal("expected error for invalid connection string, got nil")
	}
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{
			name:    "ErrNotFound",
			err:     storage.ErrNotFound,
			wantMsg: "blob not found",
		},
		{
			name:    "ErrEmptyKey",
			err:     storage.ErrEmptyKey,
			wantMsg: "storage key must not be empty",
		},
		{
			name:    "ErrInvalidKey",
			err:     storage.ErrInvalidKey,
			wantMsg: "storage key contains invalid path segment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.err) {
				t.Errorf("%s should match itself", tt.name)
			}
			if tt.err.Error() != tt.wantMsg {
				t.Errorf("%s.Error() = %q, want %q", tt.name, tt.err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		want   int
	}{
		{
			name: "ErrNotFound maps to 404",
			err:  storage.ErrNotFound,
			want: http.StatusNotFound,
		},
		{
			name: "ErrEmptyKey maps to 400",
			err:  storage.ErrEmptyKey,
			want: http.StatusBadRequest,
		},
		{
			name: "ErrInvalidKey maps to 400",
			err:  storage.ErrInvalidKey,
			want: http.StatusBadRequest,
		},
		{
			name: "wrapped ErrNotFound maps to 404",
			err:  fmt.Errorf("operation failed: %w", storage.ErrNotFound),
			want: http.StatusNotFound,
		},
		{
			name: "unknown error maps to 500",
			err:  fmt.Errorf("unexpected failure"),
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := storage.MapHTTPStatus(tt.err)
			if got != tt.want {
				t.Errorf("MapHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestKeyValidation(t *testing.T) {
	cfg := &storage.Config{
		ContainerName:    "titles",
		ConnectionString: azuriteConnString,
	}

	sys, err := storage.New(cfg, slog.Default())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{
			name:    "empty key",
			key:     "",
			wantErr: storage.ErrEmptyKey,
		},
		{
			name:    "path traversal",
			key:     "titles/../secrets/key",
			wantErr: storage.ErrInvalidKey,
		},
		{
			name:    "double dot in middle",
			key:     "titles/..hidden/title-1.xml",
			wantErr: storage.ErrInvalidKey,
		},
	}

	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sys.Upload(ctx, tt.key, bytes.NewReader(nil), "application/xml")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Upload() error = %v, want %v", err, tt.wantErr)
			}

			_, err = sys.Download(ctx, tt.key)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Download() error = %v, want %v", err, tt.wantErr)
			}

			_, err = sys.Exists(ctx, tt.key)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Exists() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
