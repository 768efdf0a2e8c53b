package asset

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave(t *testing.T) {
	dir := t.TempDir()
	h := NewHandler(dir, nil)

	img := image.NewRGBA(image.Rect(0, 0, 8, 5))
	img.Set(2, 2, color.RGBA{B: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	a, err := h.Save(&buf, "bg.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(a.ID, "asset_"))
	assert.Equal(t, "/assets/"+a.ID+".png", a.URL)
	assert.Equal(t, 8, a.Width)
	assert.Equal(t, 5, a.Height)

	f, err := os.Open(filepath.Join(dir, a.ID+".png"))
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}

func TestSaveRejectsNonImage(t *testing.T) {
	h := NewHandler(t.TempDir(), nil)
	_, err := h.Save(strings.NewReader("<svg/>"), "drawing.svg")
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}
