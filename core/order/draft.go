// Package order models the dinner order draft assembled over a voice
// conversation.
//
// The draft is the single shared piece of mutable state in the module. Every
// mutation goes through one of the setters below, each of which re-establishes
// the draft's invariants locally: quantities never go negative, no item key
// outside the fixed catalog is ever stored, and the champagne menu always
// forces the grand serving style.
package order

import (
	"strings"
	"sync"

	"github.com/jinzhu/copier"
)

// Menu identifies one of the fixed dinner menus.
type Menu string

const (
	MenuValentine Menu = "VALENTINE"
	MenuFrench    Menu = "FRENCH"
	MenuEnglish   Menu = "ENGLISH"
	MenuChampagne Menu = "CHAMPAGNE"
)

// ParseMenu normalizes a raw menu name. It reports false for anything outside
// the fixed menu set, including the empty string.
func ParseMenu(raw string) (Menu, bool) {
	switch Menu(strings.ToUpper(strings.TrimSpace(raw))) {
	case MenuValentine:
		return MenuValentine, true
	case MenuFrench:
		return MenuFrench, true
	case MenuEnglish:
		return MenuEnglish, true
	case MenuChampagne:
		return MenuChampagne, true
	}
	return "", false
}

// Style identifies a serving style.
type Style string

const (
	StyleSimple Style = "SIMPLE"
	StyleGrand  Style = "GRAND"
)

// ParseStyle normalizes a raw style name. Unknown styles report false.
func ParseStyle(raw string) (Style, bool) {
	switch Style(strings.ToUpper(strings.TrimSpace(raw))) {
	case StyleSimple:
		return StyleSimple, true
	case StyleGrand:
		return StyleGrand, true
	}
	return "", false
}

// ItemKey identifies an orderable item from the fixed catalog.
type ItemKey string

const (
	ItemWine        ItemKey = "wine"
	ItemSteak       ItemKey = "steak"
	ItemCoffeeCup   ItemKey = "coffee_cup"
	ItemCoffeePot   ItemKey = "coffee_pot"
	ItemSalad       ItemKey = "salad"
	ItemEggScramble ItemKey = "eggscramble"
	ItemBacon       ItemKey = "bacon"
	ItemBread       ItemKey = "bread"
	ItemBaguette    ItemKey = "baguette"
	ItemChampagne   ItemKey = "champagne"
)

var catalog = []ItemKey{
	ItemWine, ItemSteak, ItemCoffeeCup, ItemCoffeePot, ItemSalad,
	ItemEggScramble, ItemBacon, ItemBread, ItemBaguette, ItemChampagne,
}

// Catalog returns the closed set of valid item keys.
func Catalog() []ItemKey {
	keys := make([]ItemKey, len(catalog))
	copy(keys, catalog)
	return keys
}

// starterSets holds the default item composition applied when a menu is
// chosen manually.
var starterSets = map[Menu]map[ItemKey]int{
	MenuValentine: {ItemWine: 1, ItemSteak: 1},
	MenuFrench:    {ItemCoffeeCup: 1, ItemWine: 1, ItemSalad: 1, ItemSteak: 1},
	MenuEnglish:   {ItemEggScramble: 1, ItemBacon: 1, ItemBread: 1, ItemSteak: 1},
	MenuChampagne: {ItemChampagne: 1, ItemBaguette: 4, ItemCoffeePot: 1, ItemWine: 1, ItemSteak: 1},
}

// Draft is the canonical mutable order state for one ordering session.
type Draft struct {
	mu sync.RWMutex

	menu            Menu
	style           Style
	simpleAvailable bool

	items map[ItemKey]int

	deliveryAddress string
	cardNumber      string
}

// NewDraft creates an empty draft with every catalog item present at zero.
func NewDraft() *Draft {
	items := make(map[ItemKey]int, len(catalog))
	for _, key := range catalog {
		items[key] = 0
	}

	return &Draft{
		simpleAvailable: true,
		items:           items,
	}
}

// SelectMenu is the single entry point for changing the menu. Manual menu-card
// selection applies the menu's starter set; selection through a service delta
// or a page-load restore does not touch existing quantities.
//
// An empty menu is a no-op so that restoring an unselected form cannot clear
// the draft.
func (d *Draft) SelectMenu(menu Menu, applyDefaults bool) {
	if menu == "" {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.menu = menu

	d.style = StyleSimple
	d.simpleAvailable = true
	if menu == MenuChampagne {
		d.style = StyleGrand
		d.simpleAvailable = false
	}

	if applyDefaults {
		for _, key := range catalog {
			d.items[key] = 0
		}
		for key, quantity := range starterSets[menu] {
			d.items[key] = quantity
		}
	}
}

// SetStyle updates the serving style. Unknown styles and styles currently
// unavailable for the selected menu are ignored.
func (d *Draft) SetStyle(style Style) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch style {
	case StyleGrand:
		d.style = StyleGrand
	case StyleSimple:
		if d.simpleAvailable {
			d.style = StyleSimple
		}
	}
}

// SetItemQuantity updates a single item quantity. Keys outside the catalog
// are ignored and negative quantities are stored as zero.
func (d *Draft) SetItemQuantity(key ItemKey, quantity int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.items[key]; !ok {
		return
	}
	if quantity < 0 {
		quantity = 0
	}
	d.items[key] = quantity
}

// SetDeliveryAddress stores the delivery address verbatim.
func (d *Draft) SetDeliveryAddress(address string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.deliveryAddress = address
}

// SetCardNumber stores the card number verbatim.
func (d *Draft) SetCardNumber(cardNumber string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cardNumber = cardNumber
}

// Snapshot is a point-in-time copy of the draft for rendering.
type Snapshot struct {
	Menu            Menu
	Style           Style
	SimpleAvailable bool
	Items           map[ItemKey]int
	DeliveryAddress string
	CardNumber      string
}

// Snapshot returns a deep copy of the draft state.
func (d *Draft) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var items map[ItemKey]int
	copier.Copy(&items, d.items)

	return Snapshot{
		Menu:            d.menu,
		Style:           d.style,
		SimpleAvailable: d.simpleAvailable,
		Items:           items,
		DeliveryAddress: d.deliveryAddress,
		CardNumber:      d.cardNumber,
	}
}
