package models

import (
	"net/http"
	"net/url"
)

// CollectionPath is the inventory collection endpoint.
const CollectionPath = "/api/inventory"

// Request is the transport-neutral description of one backend call.
type Request struct {
	Operation Operation
	Method    string
	Path      string
	Query     string
	Body      *InventoryRecord
}

// URL joins path and query.
func (r Request) URL() string {
	if r.Query == "" {
		return r.Path
	}
	return r.Path + "?" + r.Query
}

// ItemPath is the endpoint of a single record.
func ItemPath(id string) string {
	return CollectionPath + "/" + url.PathEscape(id)
}

// BuildRequest maps an operation and the current form to the request it issues. Local
// operations return ErrUnsupportedOperation.
func BuildRequest(op Operation, fields FormFields, escapeQuery bool) (Request, error) {
	switch op {
	case OperationCreate:
		body := fields.Record().Payload()
		return Request{Operation: op, Method: http.MethodPost, Path: CollectionPath, Body: &body}, nil
	case OperationUpdate:
		body := fields.Record().Payload()
		return Request{Operation: op, Method: http.MethodPut, Path: ItemPath(fields.ID), Body: &body}, nil
	case OperationRetrieve:
		return Request{Operation: op, Method: http.MethodGet, Path: ItemPath(fields.ID)}, nil
	case OperationDelete:
		return Request{Operation: op, Method: http.MethodDelete, Path: ItemPath(fields.ID)}, nil
	case OperationRestock:
		return Request{Operation: op, Method: http.MethodPut, Path: ItemPath(fields.ID) + "/restock"}, nil
	case OperationSearch:
		query := NewSearchFilter(fields).Encode(escapeQuery)
		return Request{Operation: op, Method: http.MethodGet, Path: CollectionPath, Query: query}, nil
	default:
		return Request{}, ErrUnsupportedOperation
	}
}
