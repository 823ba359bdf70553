package images

import (
	"context"
	"testing"
)

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		raw      string
		endpoint string
		secure   bool
		wantErr  bool
	}{
		{"minio:9000", "minio:9000", false, false},
		{"  minio:9000  ", "minio:9000", false, false},
		{"http://minio:9000", "minio:9000", false, false},
		{"https://s3.example.com", "s3.example.com", true, false},
		{"https://s3.example.com/", "s3.example.com", true, false},
		{"https://s3.example.com/bucket", "", false, true},
		{"ftp://minio:21", "", false, true},
		{"http://", "", false, true},
		{"", "", false, true},
	}

	for _, tt := range tests {
		endpoint, secure, err := normalizeEndpoint(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("normalizeEndpoint(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			continue
		}
		if endpoint != tt.endpoint || secure != tt.secure {
			t.Errorf("normalizeEndpoint(%q) = (%q, %v), want (%q, %v)", tt.raw, endpoint, secure, tt.endpoint, tt.secure)
		}
	}
}

func TestNewBucketIncompleteConfig(t *testing.T) {
	_, err := NewBucket(context.Background(), BucketConfig{Endpoint: "minio:9000", Bucket: "images"})
	if err == nil {
		t.Error("expected error for missing credentials")
	}
}

func TestContentType(t *testing.T) {
	tests := map[string]string{
		"a.png":  "image/png",
		"a.JPG":  "image/jpeg",
		"a.webp": "image/webp",
		"a":      "application/octet-stream",
	}
	for name, want := range tests {
		if got := contentType(name); got != want {
			t.Errorf("contentType(%q) = %q, want %q", name, got, want)
		}
	}
}
