// ABOUTME: Input shapes shared by several tool packs.

package builtins

import "github.com/dkruyt/minecraft-mcp-server/internal/bot"

const defaultSearchDistance = 16.0

type emptyInput struct{}

type coordsInput struct {
	X float64 `json:"x" jsonschema_description:"X coordinate"`
	Y float64 `json:"y" jsonschema_description:"Y coordinate"`
	Z float64 `json:"z" jsonschema_description:"Z coordinate"`
}

func (c coordsInput) vec() bot.Vec3 {
	return bot.Vec3{X: c.X, Y: c.Y, Z: c.Z}
}
