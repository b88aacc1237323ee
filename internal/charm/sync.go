// ABOUTME: Push and pull of local templates and the sender profile through Charm KV
// ABOUTME: Newer updated_at wins when both sides hold the same template
package charm

import (
	"fmt"
	"log"
	"strings"

	"github.com/harper/letterkit/internal/models"
)

// LocalStore is the local side of a sync
type LocalStore interface {
	ListTemplates() ([]models.Template, error)
	GetTemplate(id string) (*models.Template, error)
	PutTemplate(t *models.Template) error
	GetSenderProfile() (*models.SenderProfile, error)
	SaveSenderProfile(p *models.SenderProfile) error
}

// SyncResult counts what moved in each direction
type SyncResult struct {
	Pushed  int  `json:"pushed"`
	Pulled  int  `json:"pulled"`
	Profile bool `json:"profile"`
}

// PushTemplates writes every local template and the profile to the KV store
func (c *Client) PushTemplates(local LocalStore) (*SyncResult, error) {
	templates, err := local.ListTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to list local templates: %w", err)
	}

	result := &SyncResult{}
	for i := range templates {
		if err := c.PutTemplate(&templates[i]); err != nil {
			return result, err
		}
		result.Pushed++
	}

	profile, err := local.GetSenderProfile()
	if err != nil {
		return result, fmt.Errorf("failed to read local profile: %w", err)
	}
	if profile != nil {
		if err := c.putJSON(ProfileKey(), profile); err != nil {
			return result, err
		}
		result.Profile = true
	}

	c.mu.Lock()
	c.syncIfEnabled()
	c.mu.Unlock()
	return result, nil
}

// PullTemplates copies remote templates that are missing locally or newer than
// the local copy, and the remote profile when it is newer.
func (c *Client) PullTemplates(local LocalStore) (*SyncResult, error) {
	if c.config.AutoSync {
		if err := c.Sync(); err != nil {
			log.Printf("Warning: charm sync before pull failed: %v", err)
		}
	}

	keys, err := c.ListKeys(TemplatePrefix)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{}
	for _, key := range keys {
		var remote models.Template
		if err := c.getJSON(key, &remote); err != nil {
			log.Printf("Warning: skipping unreadable remote template %s: %v", key, err)
			continue
		}
		if remote.ID == "" {
			remote.ID = strings.TrimPrefix(key, TemplatePrefix)
		}

		if existing, err := local.GetTemplate(remote.ID); err == nil && !remote.UpdatedAt.After(existing.UpdatedAt) {
			continue
		}
		if err := local.PutTemplate(&remote); err != nil {
			return result, fmt.Errorf("failed to store template %s: %w", remote.ID, err)
		}
		result.Pulled++
	}

	var remoteProfile models.SenderProfile
	if err := c.getJSON(ProfileKey(), &remoteProfile); err == nil {
		current, err := local.GetSenderProfile()
		if err != nil {
			return result, fmt.Errorf("failed to read local profile: %w", err)
		}
		if current == nil || remoteProfile.LastUpdated.After(current.LastUpdated) {
			if err := local.SaveSenderProfile(&remoteProfile); err != nil {
				return result, fmt.Errorf("failed to store profile: %w", err)
			}
			result.Profile = true
		}
	}

	return result, nil
}

// SyncTemplates pulls then pushes so both sides end with the newest copies
func (c *Client) SyncTemplates(local LocalStore) (*SyncResult, error) {
	pulled, err := c.PullTemplates(local)
	if err != nil {
		return pulled, err
	}
	pushed, err := c.PushTemplates(local)
	if err != nil {
		return pushed, err
	}
	return &SyncResult{Pushed: pushed.Pushed, Pulled: pulled.Pulled, Profile: pulled.Profile || pushed.Profile}, nil
}
