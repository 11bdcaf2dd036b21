package server

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/scene"
)

// InspectResponse describes what the ray through a pixel center hit
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance,omitempty"`
	FrontFace    bool                   `json:"frontFace,omitempty"`
	OriginInside bool                   `json:"originInside"` // Camera sits inside the hit sphere
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// InspectResult contains the hit record and the shape that produced it
type InspectResult struct {
	Hit          bool
	HitRecord    *geometry.HitRecord
	Shape        geometry.Shape
	OriginInside bool
}

// inspectPixel casts an unjittered ray through the center of pixel (x, y), with y = 0 the top row
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int) InspectResult {
	u := (float64(pixelX) + 0.5) / float64(width)
	v := (float64(height-1-pixelY) + 0.5) / float64(height)
	ray := sceneObj.Camera.GetRay(u, v)

	hit, isHit := sceneObj.Hit(ray, 0, math.Inf(1))
	if !isHit {
		return InspectResult{Hit: false}
	}

	// The scene only reports the hit record, so find the shape with the same t
	for _, shape := range sceneObj.Shapes {
		if shapeHit, ok := shape.Hit(ray, hit.T, hit.T); ok && shapeHit.T == hit.T {
			result := InspectResult{Hit: true, HitRecord: hit, Shape: shape}
			if sphere, ok := shape.(*geometry.Sphere); ok {
				result.OriginInside = sphere.Contains(ray.Origin)
			}
			return result
		}
	}

	return InspectResult{Hit: true, HitRecord: hit}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(shape geometry.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = [3]float64{geom.Center.X, geom.Center.Y, geom.Center.Z}
		properties["radius"] = geom.Radius
		return "sphere", properties
	default:
		return "unknown", properties
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		writeJSONError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	sceneObj, err := s.createScene(req.Scene)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	result := inspectPixel(sceneObj, req.Width, req.Height, pixelX, pixelY)

	response := InspectResponse{Hit: result.Hit}
	if result.Hit {
		geometryType, properties := extractGeometryInfo(result.Shape)
		response.GeometryType = geometryType
		response.Point = [3]float64{result.HitRecord.Point.X, result.HitRecord.Point.Y, result.HitRecord.Point.Z}
		response.Normal = [3]float64{result.HitRecord.Normal.X, result.HitRecord.Normal.Y, result.HitRecord.Normal.Z}
		response.Distance = result.HitRecord.T
		response.FrontFace = result.HitRecord.FrontFace
		response.OriginInside = result.OriginInside
		response.Properties = properties
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
