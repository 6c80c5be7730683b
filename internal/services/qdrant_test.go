package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/require"
)

func TestChunkPointIDKeepsFullUUID(t *testing.T) {
	id := newChunkPointID()

	// A numeric id would mean the UUID was truncated to 32 bits.
	u, ok := id.GetPointIdOptions().(*qdrant.PointId_Uuid)
	require.True(t, ok)

	_, err := uuid.Parse(u.Uuid)
	require.NoError(t, err)
}
