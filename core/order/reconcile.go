package order

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Delta is the partial order description returned by the interpretation
// service on a resolved turn. It is consumed exactly once by ApplyDelta and
// then discarded.
//
// Items is kept loosely typed because the service may report quantities as
// numbers or strings; coercion happens during reconciliation.
type Delta struct {
	Menu            string
	Style           string
	Items           map[string]any
	DeliveryAddress string
	CardNumber      string
}

// ApplyDelta merges a resolved-turn delta into the draft.
//
// The application order matters: the menu first (so style availability is
// re-derived before an explicit style lands), then style, then items, then
// the delivery fields. A menu arriving through a delta never applies the
// starter set; the service is expected to send the full intended item map
// alongside a menu change. Malformed fields degrade to safe defaults instead
// of failing the turn, so ApplyDelta never returns an error.
func ApplyDelta(draft *Draft, delta Delta) {
	if delta.Menu != "" {
		if menu, ok := ParseMenu(delta.Menu); ok {
			draft.SelectMenu(menu, false)
		}
	}

	if delta.Style != "" {
		if style, ok := ParseStyle(delta.Style); ok {
			draft.SetStyle(style)
		}
	}

	for _, key := range catalog {
		raw, ok := delta.Items[string(key)]
		if !ok {
			continue
		}
		draft.SetItemQuantity(key, coerceQuantity(raw))
	}

	draft.SetDeliveryAddress(delta.DeliveryAddress)
	draft.SetCardNumber(delta.CardNumber)
}

// coerceQuantity turns a loosely typed service quantity into a non-negative
// integer, degrading to zero on anything unparsable or negative.
func coerceQuantity(raw any) int {
	quantity := 0
	switch value := raw.(type) {
	case int:
		quantity = value
	case int64:
		quantity = int(value)
	case float64:
		quantity = int(value)
	case json.Number:
		parsed, err := value.Int64()
		if err != nil {
			return 0
		}
		quantity = int(parsed)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0
		}
		quantity = parsed
	default:
		return 0
	}

	if quantity < 0 {
		return 0
	}
	return quantity
}
