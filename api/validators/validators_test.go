package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastcommand/finance-backend/pkg/config"
	dbtypes "github.com/fastcommand/finance-backend/pkg/db/types"
	pkgerrors "github.com/fastcommand/finance-backend/pkg/errors"
)

type samplePayload struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Aicha"}`))

	var payload samplePayload
	require.NoError(t, DecodeJSONBody(req, &payload))
	assert.Equal(t, "Aicha", payload.Name)
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Aicha","shoe_size":44}`))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestDecodeJSONBodyReportsFieldsByJSONName(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"not-an-email"}`))

	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)

	details, ok := appErr.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, "must be a valid email", details["email"])
}

func TestParseQueryIntBounds(t *testing.T) {
	req := httptest.NewRequest("GET", "/?limit=250", nil)
	_, err := ParseQueryInt(req, "limit", 25, 1, 100)
	require.Error(t, err)

	req = httptest.NewRequest("GET", "/", nil)
	value, err := ParseQueryInt(req, "limit", 25, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 25, value)

	req = httptest.NewRequest("GET", "/?limit=abc", nil)
	_, err = ParseQueryInt(req, "limit", 25, 1, 100)
	require.Error(t, err)
}

func TestParseQueryDate(t *testing.T) {
	req := httptest.NewRequest("GET", "/?from=2025-06-01", nil)
	value, err := ParseQueryDate(req, "from")
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, 2025, value.Year())

	req = httptest.NewRequest("GET", "/", nil)
	value, err = ParseQueryDate(req, "from")
	require.NoError(t, err)
	assert.Nil(t, value)

	req = httptest.NewRequest("GET", "/?from=06-01-2025", nil)
	_, err = ParseQueryDate(req, "from")
	require.Error(t, err)
}

func TestValidateAttachments(t *testing.T) {
	cfg := config.AttachmentsConfig{MaxPerEntry: 2, MaxSizeMB: 1}

	ok := dbtypes.Attachments{{Name: "receipt.pdf", URL: "https://files/receipt.pdf", Size: 1024}}
	require.NoError(t, ValidateAttachments(ok, cfg))

	tooMany := dbtypes.Attachments{{Name: "a", URL: "u"}, {Name: "b", URL: "u"}, {Name: "c", URL: "u"}}
	err := ValidateAttachments(tooMany, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most 2")

	missingURL := dbtypes.Attachments{{Name: "a"}}
	err = ValidateAttachments(missingURL, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attachments[0]")

	huge := dbtypes.Attachments{{Name: "a", URL: "u", Size: 2 * 1024 * 1024}}
	err = ValidateAttachments(huge, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1MB")
}
