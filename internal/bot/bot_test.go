// ABOUTME: Tests for world value helpers and the canonical face table.

package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVec3(t *testing.T) {
	v := Vec3{X: 10, Y: 64, Z: -5}

	assert.Equal(t, Vec3{X: 10, Y: 63, Z: -5}, v.Add(Vec3{Y: -1}))
	assert.Equal(t, Vec3{X: -10, Y: -64, Z: 5}, v.Negate())
	assert.Equal(t, "(10, 64, -5)", v.String())
	assert.Equal(t, Vec3{X: 1, Y: 70, Z: -3}, Vec3{X: 1.7, Y: 70.2, Z: -2.5}.Floor())
	assert.Equal(t, "(1.5, 2, 3)", Vec3{X: 1.5, Y: 2, Z: 3}.String())
}

func TestFaces(t *testing.T) {
	faces := Faces()
	require.Len(t, faces, 6)

	names := make([]string, len(faces))
	for i, f := range faces {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"down", "north", "south", "east", "west", "up"}, names)
	assert.Equal(t, Vec3{Y: -1}, faces[0].Offset)
	assert.Equal(t, Vec3{Z: -1}, faces[1].Offset)
	assert.Equal(t, Vec3{Z: 1}, faces[2].Offset)
	assert.Equal(t, Vec3{X: 1}, faces[3].Offset)
	assert.Equal(t, Vec3{X: -1}, faces[4].Offset)
	assert.Equal(t, Vec3{Y: 1}, faces[5].Offset)

	t.Run("returns an independent copy", func(t *testing.T) {
		faces[0], faces[1] = faces[1], faces[0]
		assert.Equal(t, "down", Faces()[0].Name)
	})

	t.Run("lookup by name", func(t *testing.T) {
		f, ok := FaceByName("west")
		require.True(t, ok)
		assert.Equal(t, Vec3{X: -1}, f.Offset)

		_, ok = FaceByName("sideways")
		assert.False(t, ok)
	})
}

func TestBlockIsAir(t *testing.T) {
	for _, name := range []string{"air", "cave_air", "void_air"} {
		assert.True(t, (&Block{Name: name}).IsAir(), name)
	}
	assert.False(t, (&Block{Name: "stone"}).IsAir())
}

func TestParseControl(t *testing.T) {
	c, err := ParseControl("forward")
	require.NoError(t, err)
	assert.Equal(t, ControlForward, c)

	_, err = ParseControl("fly")
	assert.Error(t, err)
}
