// Package search answers keyword queries from an Elasticsearch index kept in
// step with the task store.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/locvowork/task_management_sample/apigateway/internal/domain"
	"github.com/olivere/elastic/v7"
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"title":          {"type": "text"},
			"description":    {"type": "text"},
			"title_lc":       {"type": "keyword"},
			"description_lc": {"type": "keyword"}
		}
	}
}`

// maxHits bounds a single keyword query; pagination is out of scope.
const maxHits = 10000

type taskDocument struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	TitleLC       string `json:"title_lc"`
	DescriptionLC string `json:"description_lc"`
}

// ElasticIndex maintains task documents in one Elasticsearch index.
type ElasticIndex struct {
	client *elastic.Client
	index  string
}

// NewElasticIndex connects to url and creates index when it is missing.
func NewElasticIndex(ctx context.Context, url, index string) (*ElasticIndex, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetSniff(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create elastic client: %w", err)
	}

	exists, err := client.IndexExists(index).Do(ctx)
	if err != nil {
		client.Stop()
		return nil, fmt.Errorf("failed to check index %s: %w", index, err)
	}
	if !exists {
		if _, err := client.CreateIndex(index).BodyString(indexMapping).Do(ctx); err != nil {
			client.Stop()
			return nil, fmt.Errorf("failed to create index %s: %w", index, err)
		}
	}
	return &ElasticIndex{client: client, index: index}, nil
}

// Index upserts the searchable fields of t.
func (e *ElasticIndex) Index(ctx context.Context, t *domain.Task) error {
	doc := taskDocument{
		Title:         t.Title,
		Description:   t.Description,
		TitleLC:       strings.ToLower(t.Title),
		DescriptionLC: strings.ToLower(t.Description),
	}
	_, err := e.client.Index().
		Index(e.index).
		Id(t.ID).
		BodyJson(doc).
		Refresh("wait_for").
		Do(ctx)
	return err
}

// Remove deletes the document of id. Unknown ids are ignored.
func (e *ElasticIndex) Remove(ctx context.Context, id string) error {
	_, err := e.client.Delete().
		Index(e.index).
		Id(id).
		Refresh("wait_for").
		Do(ctx)
	if elastic.IsNotFound(err) {
		return nil
	}
	return err
}

// SearchIDs returns ids of documents whose title or description contains
// keyword, ignoring case.
func (e *ElasticIndex) SearchIDs(ctx context.Context, keyword string) ([]string, error) {
	res, err := e.client.Search().
		Index(e.index).
		Query(keywordQuery(keyword)).
		FetchSource(false).
		Size(maxHits).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		ids = append(ids, hit.Id)
	}
	return ids, nil
}

// Close stops the client's background goroutines.
func (e *ElasticIndex) Close() error {
	e.client.Stop()
	return nil
}

func keywordQuery(keyword string) *elastic.BoolQuery {
	pattern := "*" + escapeWildcard(strings.ToLower(keyword)) + "*"
	return elastic.NewBoolQuery().
		Should(
			elastic.NewWildcardQuery("title_lc", pattern),
			elastic.NewWildcardQuery("description_lc", pattern),
		).
		MinimumNumberShouldMatch(1)
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func escapeWildcard(s string) string {
	return wildcardEscaper.Replace(s)
}
