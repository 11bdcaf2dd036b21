package renderer

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
)

// sequenceSampler returns values from a fixed list, cycling
type sequenceSampler struct {
	values []float64
	next   int
}

func (s *sequenceSampler) Get1D() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func (s *sequenceSampler) Get2D() core.Vec2 {
	return core.NewVec2(s.Get1D(), s.Get1D())
}

func newTestRaytracer(world geometry.Shape, width, height, samples int) *Raytracer {
	camera := geometry.NewCamera(geometry.DefaultCameraConfig())
	return NewRaytracer(world, camera, SamplingConfig{
		Width:           width,
		Height:          height,
		SamplesPerPixel: samples,
	})
}

// viewportUV recovers (u, v) from a default camera ray direction
func viewportUV(r core.Ray) (float64, float64) {
	viewportWidth := 16.0 / 9.0 * 2.0
	u := (r.Direction.X + viewportWidth/2) / viewportWidth
	v := (r.Direction.Y + 1) / 2
	return u, v
}

func TestSamplingConfig_Validate(t *testing.T) {
	if err := DefaultSamplingConfig().Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}

	for _, config := range []SamplingConfig{
		{Width: 0, Height: 10, SamplesPerPixel: 1},
		{Width: 10, Height: -1, SamplesPerPixel: 1},
		{Width: 10, Height: 10, SamplesPerPixel: 0},
	} {
		if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Config %+v: expected ErrInvalidConfig, got %v", config, err)
		}
	}
}

func TestSamplePixel_SingleSampleNoJitter(t *testing.T) {
	world := geometry.MustSphere(core.NewVec3(0, 0, -1), 0.5)
	rt := newTestRaytracer(world, 40, 20, 1)
	camera := geometry.NewCamera(geometry.DefaultCameraConfig())

	for _, pixel := range [][2]int{{0, 0}, {20, 10}, {13, 7}, {39, 19}} {
		i, j := pixel[0], pixel[1]
		got := rt.SamplePixel(i, j, core.ZeroSampler{})
		expected := RayColor(world, camera.GetRay(float64(i)/40, float64(j)/20))
		if got != expected {
			t.Errorf("Pixel (%d, %d): expected %v, got %v", i, j, expected, got)
		}
	}
}

func TestSamplePixel_AveragesSamples(t *testing.T) {
	calls := 0
	rt := newTestRaytracer(emptyWorld, 4, 4, 4)
	rt.SetShader(func(world geometry.Shape, r core.Ray) core.Vec3 {
		v := float64(calls)
		calls++
		return core.NewVec3(v, 2*v, 0)
	})

	got := rt.SamplePixel(1, 1, core.ZeroSampler{})
	expected := core.NewVec3(1.5, 3, 0) // mean of 0,1,2,3
	if got != expected {
		t.Errorf("Expected %v, got %v", expected, got)
	}
	if calls != 4 {
		t.Errorf("Expected 4 shading calls, got %d", calls)
	}
}

func TestSamplePixel_JitterStaysInsidePixel(t *testing.T) {
	const width, height = 16, 9
	var rays []core.Ray
	rt := newTestRaytracer(emptyWorld, width, height, 8)
	rt.SetShader(func(world geometry.Shape, r core.Ray) core.Vec3 {
		rays = append(rays, r)
		return core.Vec3{}
	})

	i, j := 5, 3
	rt.SamplePixel(i, j, core.NewSeededSampler(11))

	if len(rays) != 8 {
		t.Fatalf("Expected 8 rays, got %d", len(rays))
	}
	const eps = 1e-12
	for _, r := range rays {
		u, v := viewportUV(r)
		if u < float64(i)/width-eps || u >= float64(i+1)/width+eps {
			t.Errorf("u=%f outside pixel column %d", u, i)
		}
		if v < float64(j)/height-eps || v >= float64(j+1)/height+eps {
			t.Errorf("v=%f outside pixel row %d", v, j)
		}
	}
}

func TestSamplePixel_SamplerDrivesJitter(t *testing.T) {
	var rays []core.Ray
	rt := newTestRaytracer(emptyWorld, 10, 10, 1)
	rt.SetShader(func(world geometry.Shape, r core.Ray) core.Vec3 {
		rays = append(rays, r)
		return core.Vec3{}
	})

	rt.SamplePixel(2, 4, &sequenceSampler{values: []float64{0.5, 0.25}})

	u, v := viewportUV(rays[0])
	if math.Abs(u-0.25) > 1e-12 || math.Abs(v-0.425) > 1e-12 {
		t.Errorf("Expected (u, v) = (0.25, 0.425), got (%f, %f)", u, v)
	}
}

func TestRenderInto_ScanOrder(t *testing.T) {
	const width, height = 3, 2
	var rays []core.Ray
	rt := newTestRaytracer(emptyWorld, width, height, 1)
	rt.SetShader(func(world geometry.Shape, r core.Ray) core.Vec3 {
		rays = append(rays, r)
		return core.Vec3{}
	})

	pixelStats := NewPixelStatsGrid(width, height)
	rt.RenderInto(pixelStats, 1, core.ZeroSampler{})

	if len(rays) != width*height {
		t.Fatalf("Expected %d rays, got %d", width*height, len(rays))
	}

	// Top scanline first, columns left to right
	expected := [][2]float64{
		{0, 0.5}, {1.0 / 3, 0.5}, {2.0 / 3, 0.5},
		{0, 0}, {1.0 / 3, 0}, {2.0 / 3, 0},
	}
	for k, r := range rays {
		u, v := viewportUV(r)
		if math.Abs(u-expected[k][0]) > 1e-12 || math.Abs(v-expected[k][1]) > 1e-12 {
			t.Errorf("Ray %d: expected (u, v) = %v, got (%f, %f)", k, expected[k], u, v)
		}
	}

	for y := range pixelStats {
		for x := range pixelStats[y] {
			if pixelStats[y][x].SampleCount != 1 {
				t.Errorf("Pixel (%d, %d): expected 1 sample, got %d", x, y, pixelStats[y][x].SampleCount)
			}
		}
	}
}

func TestRenderPass_SkyGradientOrientation(t *testing.T) {
	rt := newTestRaytracer(emptyWorld, 8, 6, 2)
	img, stats := rt.RenderPass(core.NewSeededSampler(42))

	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
		t.Fatalf("Unexpected image size %v", img.Bounds())
	}

	// Sky blue has less red than white
	top := img.RGBAAt(4, 0)
	bottom := img.RGBAAt(4, 5)
	if top.R >= bottom.R {
		t.Errorf("Expected top row (%v) to be bluer than bottom row (%v)", top, bottom)
	}
	if top.B != 255 || bottom.B != 255 {
		t.Errorf("Expected full blue channel everywhere, got top=%v bottom=%v", top, bottom)
	}

	if stats.TotalPixels != 48 || stats.TotalSamples != 96 {
		t.Errorf("Unexpected stats %+v", stats)
	}
	if stats.MinSamples != 2 || stats.MaxSamplesUsed != 2 || stats.AverageSamples != 2 {
		t.Errorf("Expected 2 samples everywhere, got %+v", stats)
	}
}

func TestRenderPass_DeterministicWithSeed(t *testing.T) {
	world := geometry.MustSphere(core.NewVec3(0, 0, -1), 0.5)
	rt := newTestRaytracer(world, 12, 8, 3)

	first, _ := rt.RenderPass(core.NewSeededSampler(99))
	second, _ := rt.RenderPass(core.NewSeededSampler(99))

	for i := range first.Pix {
		if first.Pix[i] != second.Pix[i] {
			t.Fatalf("Renders with identical seeds differ at byte %d", i)
		}
	}
}

func TestRenderPass_SphereVisibleInCenter(t *testing.T) {
	world := geometry.MustSphere(core.NewVec3(0, 0, -1), 0.5)
	rt := newTestRaytracer(world, 16, 9, 1)
	img, _ := rt.RenderPass(core.ZeroSampler{})

	// Pixel (8, 4) maps to (u, v) = (0.5, 4/9): a near-frontal hit
	center := img.RGBAAt(8, 4)
	if center.B < 240 || center.R < 100 || center.R > 160 {
		t.Errorf("Expected normal-shaded sphere at image center, got %v", center)
	}

	// Corner pixel misses the sphere and shows the sky
	corner := img.RGBAAt(0, 0)
	if corner != ToRGBA(Background(geometry.NewCamera(geometry.DefaultCameraConfig()).GetRay(0, 8.0/9.0))) {
		t.Errorf("Expected sky in the top-left corner, got %v", corner)
	}
}
