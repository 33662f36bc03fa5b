package db

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaEmbedded(t *testing.T) {
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS profiles")
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS tailoring_history")
}

func TestDecodeProfile_FillsLists(t *testing.T) {
	profile, err := decodeProfile([]byte(`{"contact_info": {"name": "Ada Lovelace", "email": "ada@example.com"}}`))
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", profile.ContactInfo.Name)
	assert.NotNil(t, profile.Experience)
	assert.NotNil(t, profile.Education)
	assert.NotNil(t, profile.Skills)

	data, err := json.Marshal(profile)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "null")
}

func TestDecodeProfile_Invalid(t *testing.T) {
	_, err := decodeProfile([]byte(`[1, 2]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode stored profile")
}

func TestCheckUserKey(t *testing.T) {
	assert.NoError(t, checkUserKey("user-123"))
	for _, key := range []string{"", "   "} {
		err := checkUserKey(key)
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "user key"))
	}
}
