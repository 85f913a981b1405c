package console_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/inventory-console/internal/domain/models"
	"github.com/mamadbah2/inventory-console/internal/service/console"
	"github.com/mamadbah2/inventory-console/pkg/clients/inventory"
)

var (
	typed = models.FormFields{ID: "7", Name: "Typed", Category: "Cat", Quantity: "1", Condition: "NEW", RestockLevel: "2"}
	apple = models.InventoryRecord{ID: "7", Name: "Apple", Category: "Fruits", Quantity: models.IntPtr(20), Condition: "NEW", RestockLevel: models.IntPtr(100)}
	pear  = models.InventoryRecord{ID: "8", Name: "Pear", Category: "Fruits", Quantity: models.IntPtr(5), Condition: "USED", RestockLevel: models.IntPtr(10)}

	notFound   = &inventory.APIError{StatusCode: 404, Message: "Item with id '7' was not found."}
	unreadable = &inventory.APIError{StatusCode: 500}
	transport  = errors.New("dial tcp: connection refused")
)

func stateWith(fields models.FormFields, results ...models.InventoryRecord) *console.State {
	state := &console.State{Results: results}
	state.Form.Set(fields)
	state.Notifier.Show("stale")
	return state
}

func TestReconcile(t *testing.T) {
	dataCleared := models.FormFields{ID: "7"}

	tests := []struct {
		name        string
		outcome     console.Outcome
		wantForm    models.FormFields
		wantMessage string
		wantResults []models.InventoryRecord
	}{
		{
			name:        "create success writes response",
			outcome:     console.Outcome{Operation: models.OperationCreate, Response: &inventory.Response{Record: &apple}},
			wantForm:    models.FieldsFromRecord(apple),
			wantMessage: console.MessageSuccess,
			wantResults: []models.InventoryRecord{pear},
		},
		{
			name:        "create failure leaves form",
			outcome:     console.Outcome{Operation: models.OperationCreate, Err: &inventory.APIError{StatusCode: 400, Message: "Invalid Inventory: missing category"}},
			wantForm:    typed,
			wantMessage: "Invalid Inventory: missing category",
			wantResults: []models.InventoryRecord{pear},
		},
		{
			name:        "update failure leaves form",
			outcome:     console.Outcome{Operation: models.OperationUpdate, Err: notFound},
			wantForm:    typed,
			wantMessage: notFound.Message,
			wantResults: []models.InventoryRecord{pear},
		},
		{
			name:        "retrieve success writes response",
			outcome:     console.Outcome{Operation: models.OperationRetrieve, Response: &inventory.Response{Record: &apple}},
			wantForm:    models.FieldsFromRecord(apple),
			wantMessage: console.MessageSuccess,
			wantResults: []models.InventoryRecord{pear},
		},
		{
			name:        "retrieve failure clears data fields",
			outcome:     console.Outcome{Operation: models.OperationRetrieve, Err: notFound},
			wantForm:    dataCleared,
			wantMessage: notFound.Message,
			wantResults: []models.InventoryRecord{pear},
		},
		{
			name:        "delete success clears data fields",
			outcome:     console.Outcome{Operation: models.OperationDelete, Response: &inventory.Response{StatusCode: 204}},
			wantForm:    dataCleared,
			wantMessage: console.MessageDeleted,
			wantResults: []models.InventoryRecord{pear},
		},
		{
			name:        "delete failure ignores server message",
			outcome:     console.Outcome{Operation: models.OperationDelete, Err: notFound},
			wantForm:    typed,
			wantMessage: console.MessageServerError,
			wantResults: []models.InventoryRecord{pear},
		},
		{
			name:        "restock success writes response",
			outcome:     console.Outcome{Operation: models.OperationRestock, Response: &inventory.Response{Record: &pear}},
			wantForm:    models.FieldsFromRecord(pear),
			wantMessage: console.MessageSuccess,
			wantResults: []models.InventoryRecord{pear},
		},
		{
			name:        "restock failure clears data fields",
			outcome:     console.Outcome{Operation: models.OperationRestock, Err: &inventory.APIError{StatusCode: 400, Message: "No need to restock"}},
			wantForm:    dataCleared,
			wantMessage: "No need to restock",
			wantResults: []models.InventoryRecord{pear},
		},
		{
			name:        "search success replaces results and writes first",
			outcome:     console.Outcome{Operation: models.OperationSearch, Response: &inventory.Response{Records: []models.InventoryRecord{apple, pear}}},
			wantForm:    models.FieldsFromRecord(apple),
			wantMessage: console.MessageSuccess,
			wantResults: []models.InventoryRecord{apple, pear},
		},
		{
			name:        "search with no results leaves form",
			outcome:     console.Outcome{Operation: models.OperationSearch, Response: &inventory.Response{Records: []models.InventoryRecord{}}},
			wantForm:    typed,
			wantMessage: console.MessageSuccess,
			wantResults: []models.InventoryRecord{},
		},
		{
			name:        "search failure keeps stale table",
			outcome:     console.Outcome{Operation: models.OperationSearch, Err: &inventory.APIError{StatusCode: 400, Message: "bad filter"}},
			wantForm:    typed,
			wantMessage: "bad filter",
			wantResults: []models.InventoryRecord{pear},
		},
		{
			name:        "undecodable error degrades to generic text",
			outcome:     console.Outcome{Operation: models.OperationUpdate, Err: unreadable},
			wantForm:    typed,
			wantMessage: console.MessageServerError,
			wantResults: []models.InventoryRecord{pear},
		},
		{
			name:        "transport error degrades to generic text",
			outcome:     console.Outcome{Operation: models.OperationRetrieve, Err: transport},
			wantForm:    dataCleared,
			wantMessage: console.MessageServerError,
			wantResults: []models.InventoryRecord{pear},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			state := stateWith(typed, pear)

			// Act
			console.Reconcile(state, tt.outcome)

			// Assert
			assert.Equal(t, tt.wantForm, state.Form.Fields())
			assert.Equal(t, tt.wantMessage, state.Notifier.Message())
			assert.Equal(t, tt.wantResults, state.Results)
		})
	}
}

func TestFormState(t *testing.T) {
	var form console.FormState
	form.Set(typed)

	assert.Equal(t, models.IntPtr(1), form.Read().Quantity)

	form.Clear()
	assert.Equal(t, models.FormFields{ID: "7"}, form.Fields())

	form.Write(pear)
	assert.Equal(t, models.FieldsFromRecord(pear), form.Fields())

	form.Reset()
	assert.Equal(t, models.FormFields{}, form.Fields())
}

func TestProjectTable(t *testing.T) {
	t.Run("One row per record in order", func(t *testing.T) {
		table := console.ProjectTable([]models.InventoryRecord{apple, pear})

		assert.Equal(t, console.TableHeaders, table.Headers)
		assert.Equal(t, []console.Row{
			{Index: 0, Cells: []string{"7", "Apple", "Fruits", "20", "NEW", "100"}},
			{Index: 1, Cells: []string{"8", "Pear", "Fruits", "5", "USED", "10"}},
		}, table.Rows)
		assert.Len(t, table.Values(), 3)
	})

	t.Run("Empty set renders headers only", func(t *testing.T) {
		table := console.ProjectTable(nil)

		assert.Empty(t, table.Rows)
		assert.Equal(t, [][]string{console.TableHeaders}, table.Values())
	})
}
