// Package builtins provides the built-in tool packs that drive the Minecraft bot.
//
// # Overview
//
// Each pack is a thin adapter: it decodes schema-validated input, calls one
// or more bot session operations, and reports the outcome. Packs receive
// only the bot capabilities they use, so tests can supply small fakes.
//
// # Tool Packs
//
// The package provides 5 packs with 15 tools:
//
// Movement Pack (builtin:movement):
//
//   - get-position: Report the bot's block position
//   - move-to-position: Pathfind to within a range of a point (default 1)
//   - look-at: Turn to face a point
//   - jump: Tap jump; the key is released 250ms later
//   - move-in-direction: Hold forward/back/left/right for a duration (default 1000ms)
//
// Inventory Pack (builtin:inventory):
//
//   - list-inventory: List every stack with its slot
//   - find-item: First item whose name contains the query
//   - equip-item: Equip the first matching item (default destination "hand")
//
// Blocks Pack (builtin:blocks):
//
//   - place-block: Place against the first usable neighbouring face
//   - dig-block: Dig a block, walking closer first when needed
//   - get-block-info: Describe the block at a position
//   - find-block: Nearest block of a named type (default 16 blocks)
//
// Entities Pack (builtin:entities):
//
//   - find-entity: Nearest player, mob, or named entity (default 16 blocks)
//
// Chat Pack (builtin:chat):
//
//   - send-chat: Send a chat message, throttled
//   - read-chat: Recent chat messages received by the bot
//
// # Registration
//
//	builtins.RegisterAll(registry, session, builtins.Options{Logger: logger})
//
// # Results and Errors
//
// Handlers return packs.Result for answers, including "not found",
// "unknown block type", and "already occupied". Engine failures are
// returned as errors and surface to the client with isError set.
//
// # Block Placement
//
// place-block tries the six faces in the order down, north, south, east,
// west, up. A requested face other than "down" is moved to the front; the
// rest keep their order. Faces whose neighbour is air or unloaded are
// skipped. When the neighbour is out of sight the bot walks within 2 blocks
// of it first. A failed attempt is logged and the next face is tried.
//
// # Version Fallback
//
// find-block resolves names through the engine's block table for the
// connected game version. When the engine has no table for that version,
// the 1.21.1 table is used and responses say so.
package builtins
