package execution

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContractID_String(t *testing.T) {
	require.Equal(t, "contract#7", ContractID(7).String())
}

func TestStatus_String(t *testing.T) {
	require.Equal(t, "Ok", StatusOk.String())
	require.Equal(t, "BadInput", StatusBadInput.String())
	require.Equal(t, "BadContract", StatusBadContract.String())
	require.Equal(t, "BadCommand", StatusBadCommand.String())
	require.Equal(t, "NotAuthorized", StatusNotAuthorized.String())
	require.Equal(t, "Status(42)", Status(42).String())
}

func TestStatus_Accepted(t *testing.T) {
	require.True(t, StatusOk.Accepted())
	require.False(t, StatusBadInput.Accepted())
	require.False(t, StatusNotAuthorized.Accepted())
}
