package compositor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/webp"

	"tryon-ar/internal/asset"
	"tryon-ar/internal/camera"
	"tryon-ar/internal/mapper"
	"tryon-ar/internal/overlay"
)

type stubLoader struct {
	img   *image.NRGBA
	err   error
	calls int
}

func (l *stubLoader) Load(ctx context.Context, ref string) (*image.NRGBA, error) {
	l.calls++
	if l.err != nil {
		return nil, &asset.LoadError{Ref: ref, Err: l.err}
	}
	return l.img, nil
}

type stubFrames struct {
	img image.Image
	err error
}

func (s stubFrames) Frame(ctx context.Context) (image.Image, error) {
	return s.img, s.err
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

var (
	red  = color.NRGBA{255, 0, 0, 255}
	blue = color.NRGBA{0, 0, 255, 255}
	gray = color.NRGBA{128, 128, 128, 255}
)

// halves returns a 20×10 opaque image, red on the left, blue on the right.
func halves() *image.NRGBA {
	img := solid(20, 10, red)
	for y := 0; y < 10; y++ {
		for x := 10; x < 20; x++ {
			img.SetNRGBA(x, y, blue)
		}
	}
	return img
}

func earringSnapshot() overlay.Snapshot {
	st := overlay.NewState(overlay.Transform{
		Position: overlay.Point{X: 50, Y: -80},
		Scale:    0.4,
		Rotation: 10,
		Opacity:  1,
	}, true)
	st.SetSymmetric(true)
	return st.Snapshot()
}

func at(img *image.NRGBA, x, y float64) color.NRGBA {
	return img.NRGBAAt(int(math.Floor(x)), int(math.Floor(y)))
}

func TestLayersForSymmetricEarrings(t *testing.T) {
	f, err := mapper.ScaleFactors(mapper.Size{Width: 640, Height: 360}, mapper.Size{Width: 1280, Height: 720})
	require.NoError(t, err)

	layers := Layers(earringSnapshot(), f, mapper.DefaultBaseWidth)
	require.Len(t, layers, 2)

	assert.False(t, layers[0].Flip)
	assert.Equal(t, 100.0, layers[0].X)
	assert.Equal(t, -160.0, layers[0].Y)
	assert.Equal(t, 10.0, layers[0].Rotation)
	assert.InDelta(t, 160.0, layers[0].Width, 1e-9)

	assert.True(t, layers[1].Flip)
	assert.Equal(t, -100.0, layers[1].X)
	assert.Equal(t, -160.0, layers[1].Y)
	assert.Equal(t, -10.0, layers[1].Rotation)
	assert.InDelta(t, 160.0, layers[1].Width, 1e-9)
	assert.Equal(t, 1.0, layers[1].Opacity)
}

func TestPlanCentersEachLayerIndependently(t *testing.T) {
	src := halves()
	layers := []Layer{
		{Placement: mapper.Placement{X: 100, Y: -160, Width: 160, Rotation: 10, Opacity: 1}},
		{Placement: mapper.Placement{X: -100, Y: -160, Width: 160, Rotation: -10, Opacity: 0.5}, Flip: true},
	}
	cmds := Plan(1280, 720, src, layers)
	require.Len(t, cmds, 2)

	x, y := cmds[0].Matrix.Apply(10, 5)
	assert.InDelta(t, 740, x, 1e-9)
	assert.InDelta(t, 200, y, 1e-9)

	x, y = cmds[1].Matrix.Apply(10, 5)
	assert.InDelta(t, 540, x, 1e-9)
	assert.InDelta(t, 200, y, 1e-9)

	// Height follows the source aspect ratio: 160 wide → 80 tall.
	x0, y0 := cmds[0].Matrix.Apply(0, 0)
	x1, y1 := cmds[0].Matrix.Apply(0, 10)
	assert.InDelta(t, 80, math.Hypot(x1-x0, y1-y0), 1e-9)

	assert.Equal(t, 1.0, cmds[0].Alpha)
	assert.Equal(t, 0.5, cmds[1].Alpha)
	assert.True(t, cmds[1].FlipHorizontal)
}

func TestPlanSkipsEmptySource(t *testing.T) {
	assert.Nil(t, Plan(10, 10, nil, []Layer{{}}))
	assert.Nil(t, Plan(10, 10, image.NewNRGBA(image.Rect(0, 0, 0, 4)), []Layer{{}}))
}

func TestComposeEarringsScenario(t *testing.T) {
	frame := solid(1280, 720, gray)
	preview := mapper.Size{Width: 640, Height: 360}

	out, err := Compose(frame, halves(), earringSnapshot(), preview, mapper.DefaultBaseWidth)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(1280, 720), out.Bounds().Size())

	layers := Layers(earringSnapshot(), mapper.Factors{X: 2, Y: 2}, mapper.DefaultBaseWidth)
	cmds := Plan(1280, 720, halves(), layers)

	// Texel (5,5) is red. The primary shows it where its matrix puts it.
	px, py := cmds[0].Matrix.Apply(5, 5)
	assert.Equal(t, red, at(out, px, py))

	// The twin is drawn from a flipped source, so the same source-space
	// position lands on the blue half.
	mx, my := cmds[1].Matrix.Apply(5, 5)
	assert.Equal(t, blue, at(out, mx, my))

	// Visually the twin mirrors the primary about the frame's vertical axis.
	assert.Equal(t, red, at(out, 1280-px, py))

	// Frame outside both overlays is untouched.
	assert.Equal(t, gray, out.NRGBAAt(5, 5))
}

func TestComposeWithoutTwinDrawsOnce(t *testing.T) {
	frame := solid(400, 300, gray)
	snap := overlay.Snapshot{Primary: overlay.Transform{Scale: 1, Opacity: 1}}

	out, err := Compose(frame, halves(), snap, mapper.Size{Width: 400, Height: 300}, 200)
	require.NoError(t, err)

	assert.Equal(t, red, out.NRGBAAt(150, 150))
	assert.Equal(t, blue, out.NRGBAAt(250, 150))
	assert.Equal(t, gray, out.NRGBAAt(50, 150))
	assert.Equal(t, gray, out.NRGBAAt(350, 150))
}

func TestComposeAppliesOpacity(t *testing.T) {
	frame := solid(100, 100, color.NRGBA{0, 0, 0, 255})
	snap := overlay.Snapshot{Primary: overlay.Transform{Scale: 1, Opacity: 0.5}}

	out, err := Compose(frame, solid(10, 10, color.NRGBA{255, 255, 255, 255}), snap, mapper.Size{Width: 100, Height: 100}, 40)
	require.NoError(t, err)

	c := out.NRGBAAt(50, 50)
	assert.InDelta(t, 128, int(c.R), 1)
	assert.Equal(t, uint8(255), c.A)
}

func TestCaptureFailsOnUnmeasuredPreview(t *testing.T) {
	loader := &stubLoader{img: halves()}
	c := New(loader, Options{})

	for _, preview := range []mapper.Size{{}, {Width: 0, Height: 360}, {Width: 640, Height: 0}} {
		_, err := c.Capture(context.Background(), stubFrames{img: solid(64, 36, gray)}, "x", earringSnapshot(), preview)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCapture)
		assert.ErrorIs(t, err, mapper.ErrUnmeasured)
		assert.NotErrorIs(t, err, ErrImageLoad)

		var ce *CaptureError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, StageMeasure, ce.Stage)
	}
	assert.Zero(t, loader.calls)
}

func TestCaptureImageLoadFailureIsTyped(t *testing.T) {
	c := New(&stubLoader{err: errors.New("403 forbidden")}, Options{})

	art, err := c.Capture(context.Background(), stubFrames{img: solid(64, 36, gray)}, "https://cdn/x.png", earringSnapshot(), mapper.Size{Width: 32, Height: 18})
	assert.Nil(t, art)
	assert.ErrorIs(t, err, ErrImageLoad)
	assert.ErrorIs(t, err, asset.ErrLoad)
	assert.NotErrorIs(t, err, ErrCapture)
}

func TestCaptureFrameFailure(t *testing.T) {
	c := New(&stubLoader{img: halves()}, Options{})

	_, err := c.Capture(context.Background(), stubFrames{err: camera.ErrNotStreaming}, "x", earringSnapshot(), mapper.Size{Width: 32, Height: 18})
	assert.ErrorIs(t, err, ErrCapture)
	assert.ErrorIs(t, err, camera.ErrNotStreaming)
}

func TestCaptureUsesRawFrameForUserFacing(t *testing.T) {
	mock := camera.NewMock(1280, 720)
	mgr := camera.NewManager(mock, 160, 90)
	_, err := mgr.Start(context.Background(), camera.FacingUser)
	require.NoError(t, err)
	defer mgr.Stop()
	require.True(t, mgr.PreviewMirrored())

	// A fully transparent overlay leaves the frame as captured.
	c := New(&stubLoader{img: image.NewNRGBA(image.Rect(0, 0, 4, 4))}, Options{Format: FormatWebP})
	art, err := c.Capture(context.Background(), mgr, "x", overlay.Snapshot{Primary: overlay.Default()}, mapper.Size{Width: 80, Height: 45})
	require.NoError(t, err)

	decoded, err := webp.Decode(bytes.NewReader(art.Data))
	require.NoError(t, err)
	want := camera.SyntheticFrame(160, 90, camera.FacingUser)
	for _, p := range []image.Point{{0, 0}, {159, 0}, {80, 45}, {3, 89}} {
		r, g, b, _ := decoded.At(p.X, p.Y).RGBA()
		w := want.NRGBAAt(p.X, p.Y)
		assert.Equal(t, [3]uint8{w.R, w.G, w.B}, [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}, "pixel %v", p)
	}

	// Raw orientation: red grows left to right.
	l, _, _, _ := decoded.At(2, 45).RGBA()
	r, _, _, _ := decoded.At(157, 45).RGBA()
	assert.Less(t, l, r)
}

func TestCaptureProducesArtifact(t *testing.T) {
	c := New(&stubLoader{img: halves()}, Options{Quality: 80})

	art, err := c.Capture(context.Background(), stubFrames{img: solid(320, 180, gray)}, "x", earringSnapshot(), mapper.Size{Width: 640, Height: 360})
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", art.ContentType)
	assert.Regexp(t, `^snapshot-[0-9a-f-]{36}\.jpg$`, art.Name)
	assert.Equal(t, 320, art.Width)
	assert.Equal(t, 180, art.Height)
	assert.Equal(t, int64(len(art.Data)), art.Size())

	cfg, err := jpeg.DecodeConfig(art.Reader())
	require.NoError(t, err)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 180, cfg.Height)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"jpeg", FormatJPEG, false},
		{"JPG", FormatJPEG, false},
		{"", FormatJPEG, false},
		{"webp", FormatWebP, false},
		{"gif", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseFormat(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEncodeWebPIsLossless(t *testing.T) {
	src := halves()
	data, err := Encode(src, FormatWebP, 0)
	require.NoError(t, err)

	img, err := webp.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	r, g, b, a := img.At(15, 3).RGBA()
	assert.Equal(t, [4]uint32{0, 0, 0xffff, 0xffff}, [4]uint32{r, g, b, a})
}
