package search

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeWildcard(t *testing.T) {
	assert.Equal(t, "plain", escapeWildcard("plain"))
	assert.Equal(t, `a\*b\?c\\d`, escapeWildcard(`a*b?c\d`))
}

func TestKeywordQuery(t *testing.T) {
	src, err := keywordQuery("Fo*").Source()
	require.NoError(t, err)

	boolQuery := src.(map[string]interface{})["bool"].(map[string]interface{})
	assert.Equal(t, "1", fmt.Sprint(boolQuery["minimum_should_match"]))

	body, err := json.Marshal(src)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"title_lc"`)
	assert.Contains(t, string(body), `"description_lc"`)
	assert.Contains(t, string(body), `*fo\\**`)
}

func TestElasticIndex(t *testing.T) {
	url := os.Getenv("ELASTIC_URL")
	if url == "" {
		t.Skip("ELASTIC_URL not set")
	}
	ctx := context.Background()

	idx, err := NewElasticIndex(ctx, url, "tasks_test")
	require.NoError(t, err)
	defer idx.Close()

	task := &domain.Task{ID: "es-1", Title: "Foobar", Description: "weekly sync"}
	require.NoError(t, idx.Index(ctx, task))
	defer idx.Remove(ctx, task.ID)

	ids, err := idx.SearchIDs(ctx, "OOB")
	require.NoError(t, err)
	assert.Contains(t, ids, "es-1")

	ids, err = idx.SearchIDs(ctx, "f*r")
	require.NoError(t, err)
	assert.NotContains(t, ids, "es-1")
}
