package ids

import (
	"sort"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"
)

const testULID = "01HYX3KQW7ERTV9XNBM2P8QJZF"

func TestNewULIDReturnsValid(t *testing.T) {
	value, err := NewULID()

	require.NoError(t, err)
	require.NoError(t, ValidateULID(value))
}

func TestNewULIDIsMonotonic(t *testing.T) {
	values := make([]string, 0, 50)
	for i := 0; i < 50; i++ {
		value, err := NewULID()
		require.NoError(t, err)
		values = append(values, value)
	}

	require.True(t, sort.StringsAreSorted(values))
}

func TestIsULIDAndValidateULID(t *testing.T) {
	require.True(t, IsULID(testULID))
	require.True(t, IsULID(" "+testULID+" "))
	require.NoError(t, ValidateULID(testULID))

	require.False(t, IsULID("not-a-ulid"))
	require.False(t, IsULID("64f1a2b3c4d5e6f708192a3b"))
	require.ErrorIs(t, ValidateULID("not-a-ulid"), ErrInvalidULID)
}

func TestNormalizeULID(t *testing.T) {
	value, err := NormalizeULID(" 01hyx3kqw7ertv9xnbm2p8qjzf ")
	require.NoError(t, err)
	require.Equal(t, testULID, value)

	_, err = NormalizeULID("nope")
	require.ErrorIs(t, err, ErrInvalidULID)
}

func TestParseUUIDRoundTrip(t *testing.T) {
	const value = "4b0c2e1a-8d5f-4f6b-9a8e-2c1d0e9f7a6b"

	parsed, err := ParseUUID(value)
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	require.Equal(t, value, UUIDToString(parsed))

	_, err = ParseUUID("not-a-uuid")
	require.ErrorIs(t, err, ErrInvalidUUID)
}

func TestUUIDToStringInvalid(t *testing.T) {
	require.Empty(t, UUIDToString(pgtype.UUID{}))
}
