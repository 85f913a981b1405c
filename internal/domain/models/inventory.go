package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Known conditions accepted by the backend. The console treats condition as opaque text.
const (
	ConditionNew    = "NEW"
	ConditionOpened = "OPENED"
	ConditionUsed   = "USED"
)

// RecordID is the server-assigned identifier of an inventory item. The backend emits it as a
// JSON number; it is kept as text because the console only echoes it back in URLs.
type RecordID string

// UnmarshalJSON accepts numbers, strings and null.
func (id *RecordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode record id: %w", err)
		}
		*id = RecordID(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("decode record id: %w", err)
		}
		*id = RecordID(n.String())
		return nil
	}
}

// InventoryRecord is the resource exchanged with the backend. Quantity and RestockLevel are nil
// when the operator typed something that is not an integer; they serialize as null.
type InventoryRecord struct {
	ID           RecordID `json:"id,omitempty" bson:"id,omitempty"`
	Name         string   `json:"inventory_name" bson:"inventory_name"`
	Category     string   `json:"category" bson:"category"`
	Quantity     *int     `json:"quantity" bson:"quantity"`
	Condition    string   `json:"condition" bson:"condition"`
	RestockLevel *int     `json:"restock_level" bson:"restock_level"`
}

// Payload returns the request body form of the record: identical data, no id.
func (r InventoryRecord) Payload() InventoryRecord {
	r.ID = ""
	return r
}

// FormFields is the text content of the six visible form inputs.
type FormFields struct {
	ID           string `json:"inventory_id" form:"inventory_id"`
	Name         string `json:"inventory_name" form:"inventory_name"`
	Category     string `json:"inventory_category" form:"inventory_category"`
	Quantity     string `json:"inventory_quantity" form:"inventory_quantity"`
	Condition    string `json:"inventory_condition" form:"inventory_condition"`
	RestockLevel string `json:"inventory_restock_level" form:"inventory_restock_level"`
}

// Record coerces the field text into an InventoryRecord.
func (f FormFields) Record() InventoryRecord {
	return InventoryRecord{
		ID:           RecordID(f.ID),
		Name:         f.Name,
		Category:     f.Category,
		Quantity:     CoerceInt(f.Quantity),
		Condition:    f.Condition,
		RestockLevel: CoerceInt(f.RestockLevel),
	}
}

// FieldsFromRecord renders a record back into form text.
func FieldsFromRecord(r InventoryRecord) FormFields {
	return FormFields{
		ID:           string(r.ID),
		Name:         r.Name,
		Category:     r.Category,
		Quantity:     FormatInt(r.Quantity),
		Condition:    r.Condition,
		RestockLevel: FormatInt(r.RestockLevel),
	}
}

// CoerceInt parses a decimal integer. Anything else is "not a number" and yields nil.
func CoerceInt(text string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return nil
	}
	return &v
}

// FormatInt renders an optional integer, nil as empty text.
func FormatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// IntPtr is a convenience for building records in code.
func IntPtr(v int) *int {
	return &v
}
