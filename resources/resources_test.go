/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeFetcherResolvesMappedLocation(t *testing.T) {
	f := FakeFetcher{Paths: map[string]string{"logo.png": "/staged/logo.png"}}
	path, err := f.Fetch("logo.png")
	require.NoError(t, err)
	assert.Equal(t, "/staged/logo.png", path)
}

func TestFakeFetcherRejectsUnmappedLocation(t *testing.T) {
	f := FakeFetcher{Paths: map[string]string{}}
	_, err := f.Fetch("missing.png")
	require.Error(t, err)
}

func TestLocalFileFetcherJoinsUnderBaseDir(t *testing.T) {
	f := LocalFileFetcher{BaseDir: "/assets"}
	path, err := f.Fetch("images/logo.png")
	require.NoError(t, err)
	assert.Equal(t, "/assets/images/logo.png", path)
}

func TestLocalFileFetcherRejectsTraversal(t *testing.T) {
	f := LocalFileFetcher{BaseDir: "/assets"}
	_, err := f.Fetch("../../etc/passwd")
	require.Error(t, err)
}

func TestLocalFileFetcherRejectsEmptyLocation(t *testing.T) {
	f := LocalFileFetcher{BaseDir: "/assets"}
	_, err := f.Fetch("")
	require.Error(t, err)
}

func TestResolveFontPathPrefersFetcher(t *testing.T) {
	fetcher := FakeFetcher{Paths: map[string]string{"Brand Sans": "/fonts/brand-sans.ttf"}}
	path, err := ResolveFontPath(fetcher, nil, "Brand Sans")
	require.NoError(t, err)
	assert.Equal(t, "/fonts/brand-sans.ttf", path)
}

func TestResolveFontPathFailsWithoutFetcherOrFinder(t *testing.T) {
	_, err := ResolveFontPath(nil, nil, "Arial")
	require.Error(t, err)
}

func TestResolverCachesByKindAndLocation(t *testing.T) {
	fetcher := FakeFetcher{Paths: map[string]string{"logo.png": "/staged/logo.png"}}
	r := NewResolver(fetcher, nil)

	first, err := r.Resolve(Image, "logo.png")
	require.NoError(t, err)
	assert.Equal(t, "/staged/logo.png", first.Path)

	second, err := r.Resolve(Image, "logo.png")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolverDistinguishesKindForSameLocation(t *testing.T) {
	fetcher := FakeFetcher{Paths: map[string]string{"shared": "/staged/shared-image"}}
	r := NewResolver(fetcher, nil)

	_, err := r.Resolve(Image, "shared")
	require.NoError(t, err)

	// Same location string under Font kind is a cache miss and falls
	// through to font resolution, which succeeds here because
	// ResolveFontPath tries the fetcher first and it maps "shared".
	_, err = r.Resolve(Font, "shared")
	require.NoError(t, err) // FakeFetcher.Fetch("shared") still resolves; ResolveFontPath tries fetcher first.
}

func TestResolverSetImageExtensionUpdatesCachedEntry(t *testing.T) {
	fetcher := FakeFetcher{Paths: map[string]string{"logo.png": "/staged/logo.png"}}
	r := NewResolver(fetcher, nil)

	_, err := r.Resolve(Image, "logo.png")
	require.NoError(t, err)

	r.SetImageExtension("logo.png", "png")

	resolved, err := r.Resolve(Image, "logo.png")
	require.NoError(t, err)
	assert.Equal(t, "png", resolved.Extension)
}

func TestSniffImageKindDetectsPNG(t *testing.T) {
	header := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D}
	ext, ok := SniffImageKind(header)
	require.True(t, ok)
	assert.Equal(t, "png", ext)
}

func TestSniffImageKindDetectsJPEG(t *testing.T) {
	header := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0x10, 'J', 'F', 'I', 'F', 0}
	ext, ok := SniffImageKind(header)
	require.True(t, ok)
	assert.Equal(t, "jpg", ext)
}

func TestSniffImageKindRejectsNonImage(t *testing.T) {
	_, ok := SniffImageKind([]byte("not an image at all"))
	assert.False(t, ok)
}

func TestRequireImageKindErrorsOnUnknown(t *testing.T) {
	_, err := RequireImageKind([]byte("plain text"))
	require.Error(t, err)
}
