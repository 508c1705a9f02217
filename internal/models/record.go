// Package models defines the typed documents the tracker keeps in the remote
// store and the local queue. JSON tags follow the historical document schema
// and must stay wire-compatible with existing data.
package models

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// Location is a GPS fix captured at sowing time. Acc is the reported
// accuracy in meters.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
	Acc float64 `json:"acc"`
}

// SowingRecord is one planting event.
//
// Photo holds the legacy inline base64 payload; PhotoURL the resolved blob
// reference. A record with Photo set and PhotoURL unset is pending migration.
// OwnerID is nil for orphan records (logged before the user had an account).
type SowingRecord struct {
	ID           string     `json:"id"`
	SpeciesID    string     `json:"speciesId"`
	TeamID       string     `json:"teamId"`
	CampaignID   string     `json:"campaignId"`
	Location     *Location  `json:"location,omitempty"`
	HoleCount    int        `json:"holeCount"`
	SeedsPerHole int        `json:"seedsPerHole"`
	Notes        string     `json:"notes,omitempty"`
	Photo        *string    `json:"photo,omitempty"`
	PhotoURL     *string    `json:"photoUrl,omitempty"`
	OwnerID      *string    `json:"ownerId,omitempty"`
	Synced       bool       `json:"synced"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Orphan reports whether the record has no owner yet.
func (r *SowingRecord) Orphan() bool {
	return r.OwnerID == nil || *r.OwnerID == ""
}

// PendingMigration reports whether the record still carries only the inline
// photo payload.
func (r *SowingRecord) PendingMigration() bool {
	return r.Photo != nil && *r.Photo != "" && (r.PhotoURL == nil || *r.PhotoURL == "")
}

// DecodeInlinePhoto decodes the inline base64 photo encoding. Data-URL
// prefixes ("data:image/jpeg;base64,...") produced by older clients are
// tolerated and stripped.
func DecodeInlinePhoto(payload string) ([]byte, error) {
	if idx := strings.Index(payload, "base64,"); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+len("base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode inline photo: %w", err)
	}
	return data, nil
}
