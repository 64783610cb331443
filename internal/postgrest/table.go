package postgrest

import (
	"context"

	json "github.com/json-iterator/go"
	apierr "github.com/saforex/saforex-go/internal/errors"
)

// Table is a typed handle on one remote table.
type Table[T any] struct {
	client *Client
	name   string
}

// NewTable binds a row type to a table name on the given client.
func NewTable[T any](client *Client, name string) *Table[T] {
	return &Table[T]{client: client, name: name}
}

// Name returns the remote table name.
func (t *Table[T]) Name() string {
	return t.name
}

// Select reads rows matching the query.
func (t *Table[T]) Select(ctx context.Context, q Query) ([]T, error) {
	req := t.client.request(ctx)
	for key, vals := range q.params() {
		req.SetQueryParam(key, vals[0])
	}

	resp, err := req.Get("/" + t.name)
	if cerr := checkResponse(resp, err); cerr != nil {
		return nil, cerr
	}

	var rows []T
	if uerr := json.Unmarshal(resp.Body(), &rows); uerr != nil {
		return nil, apierr.Remote(resp.StatusCode(), "malformed row payload")
	}
	return rows, nil
}

// Insert creates a row and returns the server-assigned representation.
func (t *Table[T]) Insert(ctx context.Context, row any) (T, error) {
	var zero T

	resp, err := t.client.request(ctx).
		SetHeader("Prefer", "return=representation").
		SetHeader("Content-Type", "application/json").
		SetBody(row).
		Post("/" + t.name)
	if cerr := checkResponse(resp, err); cerr != nil {
		return zero, cerr
	}

	return decodeSingle[T](resp.Body(), t.name)
}

// Update patches the row with the given id and returns the updated row.
func (t *Table[T]) Update(ctx context.Context, id string, patch map[string]any) (T, error) {
	var zero T

	resp, err := t.client.request(ctx).
		SetHeader("Prefer", "return=representation").
		SetHeader("Content-Type", "application/json").
		SetQueryParam("id", "eq."+id).
		SetBody(patch).
		Patch("/" + t.name)
	if cerr := checkResponse(resp, err); cerr != nil {
		return zero, cerr
	}

	return decodeSingle[T](resp.Body(), t.name)
}

// Delete removes the row with the given id.
func (t *Table[T]) Delete(ctx context.Context, id string) error {
	resp, err := t.client.request(ctx).
		SetQueryParam("id", "eq."+id).
		Delete("/" + t.name)
	return checkResponse(resp, err)
}

// decodeSingle unpacks the single-element array the API returns for writes.
func decodeSingle[T any](body []byte, table string) (T, error) {
	var zero T
	var rows []T
	if err := json.Unmarshal(body, &rows); err != nil {
		// Some write paths return a bare object.
		var one T
		if oerr := json.Unmarshal(body, &one); oerr == nil {
			return one, nil
		}
		return zero, apierr.Remote(0, "malformed row payload")
	}
	if len(rows) == 0 {
		return zero, apierr.NotFound(table + " row")
	}
	return rows[0], nil
}
