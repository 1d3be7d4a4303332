package ollama

import "encoding/json"

// systemPrompt steers the model through the clarification dialogue. The
// dialogue itself is free-form; the output is pinned to a JSON envelope by
// turnFormat so every reply can be classified without scraping text.
const systemPrompt = `You are the ordering assistant of the Mr. Daebak dinner delivery service.

Dinner menus and their default compositions:
  - VALENTINE (wine 1, steak 1)
  - FRENCH (coffee_cup 1, wine 1, salad 1, steak 1)
  - ENGLISH (eggscramble 1, bacon 1, bread 1, steak 1)
  - CHAMPAGNE (champagne 1, baguette 4, coffee_pot 1, wine 1, steak 1)

Information to collect from the customer:
  - menu: one of VALENTINE, FRENCH, ENGLISH, CHAMPAGNE
  - style: SIMPLE or GRAND (the CHAMPAGNE menu cannot be served SIMPLE)
  - items: quantity changes relative to the menu's default composition
  - delivery address
  - card number

Rules:
  1. Always reply with a single JSON object of the form
     {"status": ..., "message": ..., "extracted_info": ...} and nothing else.
  2. Keep every field of extracted_info that was filled on an earlier turn;
     only change fields the customer explicitly revises.
  3. Guide the customer towards the missing fields, menu first, then style,
     then delivery details.
  4. While information is missing, set status to "CONTINUE" and put your next
     question in message.
  5. Once every field is filled, set status to "DONE" and put a short order
     summary in message.`

// turnFormat is the response-format schema sent with every clarification
// turn.
var turnFormat = json.RawMessage(`{
	"type": "object",
	"properties": {
		"status": {"type": "string", "enum": ["CONTINUE", "DONE"]},
		"message": {"type": "string"},
		"extracted_info": {"type": "object"}
	},
	"required": ["status", "message", "extracted_info"],
	"additionalProperties": false
}`)

// extractionPrompt turns the finished dialogue into the final structured
// order on a second, schema-constrained call.
const extractionPrompt = `You are a restaurant order parser. Based on the whole conversation so far, output the final order exactly according to the schema.`

// itemQuantities enumerates the closed item catalog for the extraction
// schema, so the model cannot invent keys.
type itemQuantities struct {
	Wine        int `json:"wine"`
	Steak       int `json:"steak"`
	CoffeeCup   int `json:"coffee_cup"`
	CoffeePot   int `json:"coffee_pot"`
	Salad       int `json:"salad"`
	EggScramble int `json:"eggscramble"`
	Bacon       int `json:"bacon"`
	Bread       int `json:"bread"`
	Baguette    int `json:"baguette"`
	Champagne   int `json:"champagne"`
}

// orderPayload is the schema of the final extraction call.
type orderPayload struct {
	Menu            string         `json:"menu" jsonschema:"enum=VALENTINE,enum=FRENCH,enum=ENGLISH,enum=CHAMPAGNE"`
	Style           string         `json:"style" jsonschema:"enum=SIMPLE,enum=GRAND"`
	Items           itemQuantities `json:"items"`
	DeliveryAddress string         `json:"deliveryAddress"`
	CardNumber      string         `json:"cardNumber"`
}

func (p orderPayload) itemsMap() map[string]any {
	return map[string]any{
		"wine":        p.Items.Wine,
		"steak":       p.Items.Steak,
		"coffee_cup":  p.Items.CoffeeCup,
		"coffee_pot":  p.Items.CoffeePot,
		"salad":       p.Items.Salad,
		"eggscramble": p.Items.EggScramble,
		"bacon":       p.Items.Bacon,
		"bread":       p.Items.Bread,
		"baguette":    p.Items.Baguette,
		"champagne":   p.Items.Champagne,
	}
}
