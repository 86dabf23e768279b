package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey(ProfileFolder, "avatar.PNG")

	assert.True(t, strings.HasPrefix(key, "profiles/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	// Keys must be unique per upload
	other := ObjectKey(ProfileFolder, "avatar.PNG")
	assert.NotEqual(t, key, other)
}

func TestObjectKey_NoExtension(t *testing.T) {
	key := ObjectKey(ThumbnailFolder, "cover")

	assert.True(t, strings.HasPrefix(key, "thumbnails/"))
	assert.False(t, strings.Contains(key, "."))
}

func TestKeyFromURL(t *testing.T) {
	tests := []struct {
		name    string
		fileURL string
		bucket  string
		want    string
		wantErr bool
	}{
		{
			name:    "aws virtual-hosted",
			fileURL: "https://media.s3.us-east-1.amazonaws.com/profiles/abc.png",
			bucket:  "media",
			want:    "profiles/abc.png",
		},
		{
			name:    "minio path-style",
			fileURL: "https://minio.local:9000/media/thumbnails/def.jpg",
			bucket:  "media",
			want:    "thumbnails/def.jpg",
		},
		{
			name:    "plain path",
			fileURL: "https://cdn.example.com/profiles/ghi.jpeg",
			bucket:  "media",
			want:    "profiles/ghi.jpeg",
		},
		{
			name:    "no key",
			fileURL: "https://media.s3.us-east-1.amazonaws.com/",
			bucket:  "media",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := KeyFromURL(tt.fileURL, tt.bucket)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
