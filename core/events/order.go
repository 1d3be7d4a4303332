package events

import "github.com/mrdaebak/dinner-core/core/order"

// KindOrderResolved identifies a resolved conversation round.
const KindOrderResolved Kind = "order.resolved"

// OrderResolved carries the draft state after a resolved turn's delta has
// been fully applied.
type OrderResolved struct {
	Base
	Message string
	Order   order.Snapshot
}

// NewOrderResolved creates an order resolved event.
func NewOrderResolved(message string, snapshot order.Snapshot) OrderResolved {
	return OrderResolved{Base: NewBase(KindOrderResolved), Message: message, Order: snapshot}
}

// KindMenuSelected identifies a menu change on the draft.
const KindMenuSelected Kind = "order.menu_selected"

// MenuSelected marks a menu change, either from a manual card click
// (DefaultsApplied true) or a page-load restore (DefaultsApplied false).
type MenuSelected struct {
	Base
	Menu            order.Menu
	DefaultsApplied bool
}

// NewMenuSelected creates a menu selected event.
func NewMenuSelected(menu order.Menu, defaultsApplied bool) MenuSelected {
	return MenuSelected{Base: NewBase(KindMenuSelected), Menu: menu, DefaultsApplied: defaultsApplied}
}
