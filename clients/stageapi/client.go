// Package stageapi is the typed client for the crowdstage backend REST API.
// The backend is an external collaborator; this package only encodes its
// wire contract and returns domain models.
package stageapi

import (
	"github.com/crowdstage/live/clients"
)

type Client struct {
	*clients.BaseClient
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseClient: clients.NewBaseClient(baseURL),
	}
}
