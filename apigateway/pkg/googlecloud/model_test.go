package googlecloud

import (
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/datastore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskEntity_Indexing(t *testing.T) {
	props, err := datastore.SaveStruct(&TaskEntity{
		Title:       strings.Repeat("t", 2000),
		Description: strings.Repeat("d", 2000),
		Priority:    "Low",
		Status:      "In Progress",
		CreatedAt:   time.Date(2026, time.October, 19, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	noIndex := make(map[string]bool, len(props))
	for _, p := range props {
		noIndex[p.Name] = p.NoIndex
	}
	assert.True(t, noIndex["title"])
	assert.True(t, noIndex["description"])
	assert.False(t, noIndex["created_at"])
}
