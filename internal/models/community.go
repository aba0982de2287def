package models

import (
	"strconv"
)

// Community defaults applied when fields are absent
const (
	DefaultCommunityColor       = "#FF4500"
	DefaultCommunityCategory    = "general"
	DefaultCommunityMemberCount = 1
)

// Community represents a community. Key is the presentation id "community_{Id}".
type Community struct {
	ID          int64  `json:"Id"`
	Key         string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MemberCount int    `json:"memberCount"`
	Color       string `json:"color"`
	Category    string `json:"category"`
	PostCount   int    `json:"postCount"`
}

// CommunityKey derives the presentation id of a community
func CommunityKey(id int64) string {
	return "community_" + strconv.FormatInt(id, 10)
}

// CommunityInput is the payload for creating a community
type CommunityInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	MemberCount int    `json:"memberCount,omitempty"`
	Color       string `json:"color,omitempty"`
	Category    string `json:"category,omitempty"`
}

// CommunityUpdate is a sparse community update; nil fields are left untouched
type CommunityUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	MemberCount *int    `json:"memberCount,omitempty"`
	Color       *string `json:"color,omitempty"`
	Category    *string `json:"category,omitempty"`
	PostCount   *int    `json:"postCount,omitempty"`
}

// CommunitySearchResult pairs a matched community with its match context
type CommunitySearchResult struct {
	Community *Community `json:"community"`
	Snippet   string     `json:"snippet"`
}
