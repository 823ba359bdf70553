package images

import "testing"

func TestFileName(t *testing.T) {
	const id = "6f1c2f0e-1b7a-4d9e-8a51-0c7e2b3d4f5a"
	tests := []struct {
		upload string
		want   string
	}{
		{"croissant.png", id + ".png"},
		{"photo.JPG", id + ".JPG"},
		{"archive.tar.gz", id + ".gz"},
		{"noext", id},
		{".hidden", id},
		{"..png", id},
		{"trailing.", id + "."},
		{"dir/sub/bun.webp", id + ".webp"},
		{`C:\Users\me\tart.jpeg`, id + ".jpeg"},
		{"", id},
	}

	for _, tt := range tests {
		if got := FileName(id, tt.upload); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.upload, got, tt.want)
		}
	}
}

func TestPath(t *testing.T) {
	if got := Path("abc.png"); got != "images/abc.png" {
		t.Errorf("Path = %q, want images/abc.png", got)
	}
}

func TestValidName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"abc.png", true},
		{"abc", true},
		{"", false},
		{".", false},
		{"..", false},
		{"../etc/passwd", false},
		{"a/b.png", false},
		{`a\b.png`, false},
		{"a\x00.png", false},
	}

	for _, tt := range tests {
		if got := validName(tt.name); got != tt.want {
			t.Errorf("validName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
