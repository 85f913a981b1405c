package console

import (
	"github.com/mamadbah2/inventory-console/internal/domain/models"
	"github.com/mamadbah2/inventory-console/pkg/clients/inventory"
)

// State is everything the console shows. It is only touched from the owner goroutine.
type State struct {
	Form     FormState
	Notifier Notifier
	Results  []models.InventoryRecord
}

// Outcome is the completion of one gateway call: either Response or Err is set.
type Outcome struct {
	Operation models.Operation
	Response  *inventory.Response
	Err       error
}

// Succeeded reports whether the call completed with a 2xx answer.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// FailureMessage is the text shown for a failed call. Delete never parses the server message.
func (o Outcome) FailureMessage() string {
	if o.Err == nil {
		return ""
	}
	if o.Operation == models.OperationDelete {
		return MessageServerError
	}
	if apiErr, ok := inventory.AsAPIError(o.Err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return MessageServerError
}

// Reconcile applies a completed call to the console state.
func Reconcile(state *State, outcome Outcome) {
	if !outcome.Succeeded() {
		switch outcome.Operation {
		case models.OperationRetrieve, models.OperationRestock:
			state.Form.Clear()
		}
		state.Notifier.Show(outcome.FailureMessage())
		return
	}

	switch outcome.Operation {
	case models.OperationCreate, models.OperationUpdate, models.OperationRetrieve, models.OperationRestock:
		if outcome.Response != nil && outcome.Response.Record != nil {
			state.Form.Write(*outcome.Response.Record)
		}
		state.Notifier.Show(MessageSuccess)
	case models.OperationDelete:
		state.Form.Clear()
		state.Notifier.Show(MessageDeleted)
	case models.OperationSearch:
		results := []models.InventoryRecord{}
		if outcome.Response != nil {
			results = append(results, outcome.Response.Records...)
		}
		state.Results = results
		if len(results) > 0 {
			state.Form.Write(results[0])
		}
		state.Notifier.Show(MessageSuccess)
	}
}
