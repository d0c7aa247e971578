package download

import "testing"

func TestTranslatePath(t *testing.T) {
	tests := []struct {
		reported string
		mount    string
		want     string
	}{
		{"/data/books/Dune/dune.epub", "/library", "/library/Dune/dune.epub"},
		{"/books/Dune/dune.epub", "/library", "/library/Dune/dune.epub"},
		{"/data/downloads/dune.epub", "/library", "/library/downloads/dune.epub"},
		{"/media/books/Dune/dune.epub", "/mnt/books", "/mnt/books/Dune/dune.epub"},
		{"/srv/other/dune.epub", "/library", "/srv/other/dune.epub"},
	}
	for _, tt := range tests {
		if got := TranslatePath(tt.reported, tt.mount); got != tt.want {
			t.Errorf("TranslatePath(%q, %q) = %q, want %q", tt.reported, tt.mount, got, tt.want)
		}
	}
}

func TestMIMEType(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"dune.epub", "application/epub+zip"},
		{"dune.PDF", "application/pdf"},
		{"dune.azw3", "application/vnd.amazon.ebook"},
		{"notes.txt", "text/plain"},
		{"dune.cbz", "application/octet-stream"},
		{"noextension", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := MIMEType(tt.filename); got != tt.want {
			t.Errorf("MIMEType(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
