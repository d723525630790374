// ABOUTME: Inventory pack provides list, find, and equip tools.
// ABOUTME: Item names match by case-insensitive substring; the first match wins.

package builtins

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dkruyt/minecraft-mcp-server/internal/bot"
	"github.com/dkruyt/minecraft-mcp-server/internal/packs"
)

const defaultEquipDestination = "hand"

// InventoryPack creates the inventory pack.
func InventoryPack(inv bot.InventoryHolder) *packs.BuiltinPack {
	h := &inventoryHandlers{inv: inv}
	return &packs.BuiltinPack{
		ID: "builtin:inventory",
		Tools: []*packs.BuiltinTool{
			{
				Definition: packs.Define[emptyInput]("list-inventory", "List all items in the bot's inventory"),
				Handler:    h.ListInventory,
			},
			{
				Definition: packs.Define[findItemInput]("find-item", "Find a specific item in the bot's inventory"),
				Handler:    h.FindItem,
			},
			{
				Definition: packs.Define[equipItemInput]("equip-item", "Equip a specific item"),
				Handler:    h.EquipItem,
			},
		},
	}
}

type inventoryHandlers struct {
	inv bot.InventoryHolder
}

type findItemInput struct {
	NameOrType string `json:"nameOrType" jsonschema_description:"Name or type of item to find"`
}

type equipItemInput struct {
	ItemName    string  `json:"itemName" jsonschema_description:"Name of the item to equip"`
	Destination *string `json:"destination,omitempty" jsonschema_description:"Where to equip the item (default: 'hand')"`
}

func (h *inventoryHandlers) ListInventory(ctx context.Context, input json.RawMessage) (*packs.Result, error) {
	items, err := h.inv.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	if len(items) == 0 {
		return packs.Done("Inventory is empty"), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d items in inventory:\n", len(items))
	for _, item := range items {
		fmt.Fprintf(&sb, "\n- %s (x%d) in slot %d", item.Name, item.Count, item.Slot)
	}
	return packs.Done(sb.String()), nil
}

func (h *inventoryHandlers) FindItem(ctx context.Context, input json.RawMessage) (*packs.Result, error) {
	var in findItemInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	item, err := h.match(ctx, in.NameOrType)
	if err != nil {
		return nil, fmt.Errorf("failed to find item: %w", err)
	}
	if item == nil {
		return packs.NotFound(fmt.Sprintf("Couldn't find any item matching '%s' in inventory", in.NameOrType)), nil
	}
	return packs.Done(fmt.Sprintf("Found %d %s in inventory (slot %d)", item.Count, item.Name, item.Slot)), nil
}

func (h *inventoryHandlers) EquipItem(ctx context.Context, input json.RawMessage) (*packs.Result, error) {
	var in equipItemInput
	if err := json.Unmarshal(input, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	destination := defaultEquipDestination
	if in.Destination != nil && *in.Destination != "" {
		destination = *in.Destination
	}

	item, err := h.match(ctx, in.ItemName)
	if err != nil {
		return nil, fmt.Errorf("failed to equip item: %w", err)
	}
	if item == nil {
		return packs.NotFound(fmt.Sprintf("Couldn't find any item matching '%s' in inventory", in.ItemName)), nil
	}

	if err := h.inv.Equip(ctx, *item, destination); err != nil {
		return nil, fmt.Errorf("failed to equip %s: %w", item.Name, err)
	}
	return packs.Done(fmt.Sprintf("Equipped %s to %s", item.Name, destination)), nil
}

// match returns the first inventory item whose name contains query, ignoring case.
func (h *inventoryHandlers) match(ctx context.Context, query string) (*bot.Item, error) {
	items, err := h.inv.Items(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	for i := range items {
		if strings.Contains(strings.ToLower(items[i].Name), q) {
			return &items[i], nil
		}
	}
	return nil, nil
}
