// ABOUTME: The six cardinal faces used when choosing a reference block for placement.
// ABOUTME: Order is fixed; callers get a copy they may reorder.

package bot

// Face is a named unit offset from a block to one of its neighbours.
type Face struct {
	Name   string
	Offset Vec3
}

// DefaultFace is tried first when no face is requested.
const DefaultFace = "down"

var canonicalFaces = [...]Face{
	{Name: "down", Offset: Vec3{X: 0, Y: -1, Z: 0}},
	{Name: "north", Offset: Vec3{X: 0, Y: 0, Z: -1}},
	{Name: "south", Offset: Vec3{X: 0, Y: 0, Z: 1}},
	{Name: "east", Offset: Vec3{X: 1, Y: 0, Z: 0}},
	{Name: "west", Offset: Vec3{X: -1, Y: 0, Z: 0}},
	{Name: "up", Offset: Vec3{X: 0, Y: 1, Z: 0}},
}

// Faces returns the canonical face list: down, north, south, east, west, up.
func Faces() []Face {
	out := make([]Face, len(canonicalFaces))
	copy(out, canonicalFaces[:])
	return out
}

// FaceByName looks up a face by its name.
func FaceByName(name string) (Face, bool) {
	for _, f := range canonicalFaces {
		if f.Name == name {
			return f, true
		}
	}
	return Face{}, false
}
