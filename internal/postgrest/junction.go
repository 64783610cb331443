package postgrest

import (
	"context"

	json "github.com/json-iterator/go"
	apierr "github.com/saforex/saforex-go/internal/errors"
)

// Junction is a handle on a two-column like table, keyed by
// (entity id, user id). The remote schema is expected to enforce a
// uniqueness constraint over the pair; concurrent inserts race and the
// loser gets a Conflict.
type Junction struct {
	client    *Client
	name      string
	entityCol string
	userCol   string
}

// NewJunction binds a junction table with its entity and user columns.
func NewJunction(client *Client, name, entityCol, userCol string) *Junction {
	return &Junction{client: client, name: name, entityCol: entityCol, userCol: userCol}
}

// Exists reports whether a row for (entityID, userID) is present.
func (j *Junction) Exists(ctx context.Context, entityID, userID string) (bool, error) {
	resp, err := j.client.request(ctx).
		SetQueryParam("select", j.entityCol).
		SetQueryParam(j.entityCol, "eq."+entityID).
		SetQueryParam(j.userCol, "eq."+userID).
		SetQueryParam("limit", "1").
		Get("/" + j.name)
	if cerr := checkResponse(resp, err); cerr != nil {
		return false, cerr
	}

	var rows []map[string]any
	if uerr := json.Unmarshal(resp.Body(), &rows); uerr != nil {
		return false, apierr.Remote(resp.StatusCode(), "malformed row payload")
	}
	return len(rows) > 0, nil
}

// Add inserts the (entityID, userID) row.
func (j *Junction) Add(ctx context.Context, entityID, userID string) error {
	resp, err := j.client.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{
			j.entityCol: entityID,
			j.userCol:   userID,
		}).
		Post("/" + j.name)
	return checkResponse(resp, err)
}

// Remove deletes the (entityID, userID) row.
func (j *Junction) Remove(ctx context.Context, entityID, userID string) error {
	resp, err := j.client.request(ctx).
		SetQueryParam(j.entityCol, "eq."+entityID).
		SetQueryParam(j.userCol, "eq."+userID).
		Delete("/" + j.name)
	return checkResponse(resp, err)
}
