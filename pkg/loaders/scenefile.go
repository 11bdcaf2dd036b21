package loaders

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-raycaster/pkg/core"
)

// ErrSyntax is wrapped by all parse errors
var ErrSyntax = errors.New("scene file syntax error")

// SphereStatement is a parsed "sphere cx cy cz radius" line
type SphereStatement struct {
	Center core.Vec3
	Radius float64
	Line   int
}

// CameraStatement is a parsed "camera ox oy oz [aspect viewportHeight focalLength]" line
type CameraStatement struct {
	Origin         core.Vec3
	AspectRatio    float64 // 0 when not given
	ViewportHeight float64 // 0 when not given
	FocalLength    float64 // 0 when not given
}

// FilmStatement is a parsed "film width height samplesPerPixel" line
type FilmStatement struct {
	Width           int
	Height          int
	SamplesPerPixel int
}

// SceneFile contains all statements of a scene description file.
//
// The format is line based; blank lines and lines starting with '#' are ignored:
//
//	camera 0 0 0 1.7778 2 1
//	film 400 225 100
//	sphere 0 0 -1 0.5
type SceneFile struct {
	Camera  *CameraStatement
	Film    *FilmStatement
	Spheres []SphereStatement
}

// ParseSceneFile parses scene statements from an io.Reader
func ParseSceneFile(reader io.Reader) (*SceneFile, error) {
	sceneFile := &SceneFile{Spheres: make([]SphereStatement, 0)}

	scanner := bufio.NewScanner(reader)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if err := sceneFile.processStatement(fields, lineNumber); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	return sceneFile, nil
}

// LoadSceneFile loads and parses a scene description file
func LoadSceneFile(filename string) (*SceneFile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	return ParseSceneFile(file)
}

func (f *SceneFile) processStatement(fields []string, line int) error {
	keyword, args := fields[0], fields[1:]

	switch keyword {
	case "sphere":
		values, err := parseFloats(args, 4, 4, line)
		if err != nil {
			return err
		}
		f.Spheres = append(f.Spheres, SphereStatement{
			Center: core.NewVec3(values[0], values[1], values[2]),
			Radius: values[3],
			Line:   line,
		})

	case "camera":
		if f.Camera != nil {
			return fmt.Errorf("line %d: duplicate camera statement: %w", line, ErrSyntax)
		}
		values, err := parseFloats(args, 3, 6, line)
		if err != nil {
			return err
		}
		if len(values) != 3 && len(values) != 6 {
			return fmt.Errorf("line %d: camera takes 3 or 6 values, got %d: %w", line, len(values), ErrSyntax)
		}
		camera := &CameraStatement{Origin: core.NewVec3(values[0], values[1], values[2])}
		if len(values) == 6 {
			for i, v := range values[3:] {
				if !(v > 0) {
					return fmt.Errorf("line %d: camera value %q must be positive: %w", line, args[3+i], ErrSyntax)
				}
			}
			camera.AspectRatio = values[3]
			camera.ViewportHeight = values[4]
			camera.FocalLength = values[5]
		}
		f.Camera = camera

	case "film":
		if f.Film != nil {
			return fmt.Errorf("line %d: duplicate film statement: %w", line, ErrSyntax)
		}
		if len(args) != 3 {
			return fmt.Errorf("line %d: film takes 3 values, got %d: %w", line, len(args), ErrSyntax)
		}
		ints := make([]int, 3)
		for i, arg := range args {
			v, err := strconv.Atoi(arg)
			if err != nil || v <= 0 {
				return fmt.Errorf("line %d: invalid film value %q: %w", line, arg, ErrSyntax)
			}
			ints[i] = v
		}
		f.Film = &FilmStatement{Width: ints[0], Height: ints[1], SamplesPerPixel: ints[2]}

	default:
		return fmt.Errorf("line %d: unknown statement %q: %w", line, keyword, ErrSyntax)
	}

	return nil
}

// parseFloats parses between minCount and maxCount finite float arguments
func parseFloats(args []string, minCount, maxCount, line int) ([]float64, error) {
	if len(args) < minCount || len(args) > maxCount {
		return nil, fmt.Errorf("line %d: expected %d-%d values, got %d: %w", line, minCount, maxCount, len(args), ErrSyntax)
	}
	values := make([]float64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("line %d: invalid number %q: %w", line, arg, ErrSyntax)
		}
		values[i] = v
	}
	return values, nil
}
