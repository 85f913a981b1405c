package models

import (
	"errors"
	"strings"
)

// ErrUnsupportedOperation indicates the operator asked for an action the console does not know.
var ErrUnsupportedOperation = errors.New("unsupported operation")

// Operation enumerates operator actions available on the console.
type Operation string

const (
	OperationCreate   Operation = "create"
	OperationUpdate   Operation = "update"
	OperationRetrieve Operation = "retrieve"
	OperationDelete   Operation = "delete"
	OperationRestock  Operation = "restock"
	OperationSearch   Operation = "search"

	// Local actions never reach the backend.
	OperationClear  Operation = "clear"
	OperationExport Operation = "export"
)

// RemoteOperations lists the operations issued against the inventory backend.
var RemoteOperations = []Operation{
	OperationCreate,
	OperationUpdate,
	OperationRetrieve,
	OperationDelete,
	OperationRestock,
	OperationSearch,
}

// IsRemote reports whether the operation issues a backend request.
func (o Operation) IsRemote() bool {
	for _, op := range RemoteOperations {
		if op == o {
			return true
		}
	}
	return false
}

// ParseOperation derives an Operation from an action name such as "search" or "/restock".
func ParseOperation(name string) (Operation, error) {
	normalized := strings.TrimPrefix(strings.TrimSpace(strings.ToLower(name)), "/")

	switch Operation(normalized) {
	case OperationCreate, OperationUpdate, OperationRetrieve, OperationDelete,
		OperationRestock, OperationSearch, OperationClear, OperationExport:
		return Operation(normalized), nil
	default:
		return "", ErrUnsupportedOperation
	}
}
