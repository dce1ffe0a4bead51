package search

import (
	"encoding/json"

	"github.com/meilisearch/meilisearch-go"

	"realty-cms/internal/models"
)

// Client mirrors the property collection into a Meilisearch index for
// free-text search. Indexing is best-effort and strictly additive: the
// filter layer never depends on it.
type Client struct {
	client *meilisearch.Client
	index  string
}

func NewClient(host, apiKey string) *Client {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	return &Client{
		client: client,
		index:  "properties",
	}
}

// InitIndex creates and configures the properties index.
func (c *Client) InitIndex() error {
	_, err := c.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        c.index,
		PrimaryKey: "id",
	})
	// Ignore error if index already exists
	if err != nil && err.Error() != "index already exists" {
		return err
	}

	_, err = c.client.Index(c.index).UpdateSearchableAttributes(&[]string{
		"title",
		"location",
		"description",
		"propertyType",
	})
	if err != nil {
		return err
	}

	_, err = c.client.Index(c.index).UpdateFilterableAttributes(&[]string{
		"id",
		"category",
		"propertyType",
		"featured",
	})
	if err != nil {
		return err
	}

	_, err = c.client.Index(c.index).UpdateSortableAttributes(&[]string{
		"createdAt",
		"featuredOrder",
	})
	return err
}

// IndexProperty upserts a single property document.
func (c *Client) IndexProperty(p *models.Property) error {
	_, err := c.client.Index(c.index).AddDocuments([]models.Property{*p})
	return err
}

// IndexProperties upserts multiple property documents.
func (c *Client) IndexProperties(properties []models.Property) error {
	if len(properties) == 0 {
		return nil
	}
	_, err := c.client.Index(c.index).AddDocuments(properties)
	return err
}

// RemoveProperty deletes a property document by id.
func (c *Client) RemoveProperty(id string) error {
	_, err := c.client.Index(c.index).DeleteDocument(id)
	return err
}

// Search runs a free-text query and maps the hits back to properties.
func (c *Client) Search(query string, limit int64) ([]models.Property, error) {
	if limit == 0 {
		limit = 20
	}

	searchRes, err := c.client.Index(c.index).Search(query, &meilisearch.SearchRequest{
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	var properties []models.Property
	for _, hit := range searchRes.Hits {
		hitJSON, err := json.Marshal(hit)
		if err != nil {
			continue
		}

		var property models.Property
		if err := json.Unmarshal(hitJSON, &property); err != nil {
			continue
		}

		properties = append(properties, property)
	}

	return properties, nil
}
