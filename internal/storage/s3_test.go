package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func TestPublicURL(t *testing.T) {
	s := &S3Store{baseURL: "https://platform.example.com/storage/v1/object/public"}

	url := s.PublicURL("signal_images", "1740830400000.png")
	assert.Equal(t,
		"https://platform.example.com/storage/v1/object/public/signal_images/1740830400000.png",
		url)
}

func TestIsDuplicate(t *testing.T) {
	precondition := &smithy.GenericAPIError{
		Code:    "PreconditionFailed",
		Message: "At least one of the pre-conditions you specified did not hold",
	}
	assert.True(t, isDuplicate(precondition))
	assert.True(t, isDuplicate(fmt.Errorf("operation error S3: PutObject: %w", precondition)))

	denied := &smithy.GenericAPIError{Code: "AccessDenied"}
	assert.False(t, isDuplicate(denied))
	assert.False(t, isDuplicate(errors.New("dial tcp: connection refused")))
	assert.False(t, isDuplicate(nil))
}
