package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyFromLocator(t *testing.T) {
	tests := []struct {
		name    string
		locator string
		want    string
	}{
		{
			name:    "full url with extension",
			locator: "http://localhost:9000/catalog/course-images/abc123.png",
			want:    "course-images/abc123",
		},
		{
			name:    "url without extension",
			locator: "http://localhost:9000/catalog/course-images/abc123",
			want:    "course-images/abc123",
		},
		{
			name:    "double extension keeps first cut",
			locator: "https://cdn.example.com/course-images/photo.backup.jpg",
			want:    "course-images/photo",
		},
		{
			name:    "bare filename",
			locator: "abc123.webp",
			want:    "course-images/abc123",
		},
		{
			name:    "empty locator",
			locator: "",
			want:    "",
		},
		{
			name:    "trailing slash",
			locator: "http://localhost:9000/catalog/course-images/",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyFromLocator(tt.locator))
		})
	}
}
