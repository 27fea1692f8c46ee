package grafana

import (
	"context"
	"errors"
	"net/http"
)

// Folders lists all dashboard folders. The root folder is not included.
func (c *Client) Folders(ctx context.Context) ([]Folder, error) {
	var folders []Folder
	if err := c.do(ctx, http.MethodGet, "/api/folders", nil, nil, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

// CreateFolder creates a folder with the given title and returns it.
func (c *Client) CreateFolder(ctx context.Context, title string) (Folder, error) {
	if title == "" {
		return Folder{}, errors.New("folder title is required")
	}

	body := struct {
		Title string `json:"title"`
	}{Title: title}

	var folder Folder
	if err := c.do(ctx, http.MethodPost, "/api/folders", nil, body, &folder); err != nil {
		return Folder{}, err
	}
	if folder.ID == 0 {
		return Folder{}, errors.New("grafana returned a folder without id")
	}
	return folder, nil
}
