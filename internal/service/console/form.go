package console

import "github.com/mamadbah2/inventory-console/internal/domain/models"

// FormState is the single editable record shown on the console.
type FormState struct {
	fields models.FormFields
}

// Fields returns the raw field text.
func (f *FormState) Fields() models.FormFields {
	return f.fields
}

// Set replaces the field text with what the operator typed.
func (f *FormState) Set(fields models.FormFields) {
	f.fields = fields
}

// Read coerces the field text into a record.
func (f *FormState) Read() models.InventoryRecord {
	return f.fields.Record()
}

// Write overwrites every field, identifier included, from record.
func (f *FormState) Write(record models.InventoryRecord) {
	f.fields = models.FieldsFromRecord(record)
}

// Clear empties the data fields and keeps the identifier.
func (f *FormState) Clear() {
	f.fields = models.FormFields{ID: f.fields.ID}
}

// Reset empties every field.
func (f *FormState) Reset() {
	f.fields = models.FormFields{}
}
