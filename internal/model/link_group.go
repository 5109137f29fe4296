package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	DefaultBackgroundColor = "#ffffff"
	DefaultTextColor       = "#000000"
	DefaultButtonColor     = "#3b82f6"
)

type LinkGroup struct {
	ID           int64      `json:"id" db:"id"`
	GroupName    string     `json:"groupName" db:"group_name"`
	Description  string     `json:"description" db:"description"`
	ProfileImage string     `json:"profileImage" db:"profile_image"`
	GroupURL     string     `json:"groupUrl" db:"group_url"`
	Links        GroupLinks `json:"links" db:"links"`
	Theme        Theme      `json:"theme" db:"theme"`
	Views        int64      `json:"views" db:"views"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

type GroupLink struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Order int    `json:"order"`
}

// GroupLinks is stored as a single JSONB column.
type GroupLinks []GroupLink

func (l GroupLinks) Value() (driver.Value, error) {
	if l == nil {
		l = GroupLinks{}
	}
	return json.Marshal(l)
}

func (l *GroupLinks) Scan(src any) error {
	return scanJSON(src, l)
}

type Theme struct {
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	ButtonColor     string `json:"buttonColor"`
}

// WithDefaults fills every empty colour.
func (t Theme) WithDefaults() Theme {
	if t.BackgroundColor == "" {
		t.BackgroundColor = DefaultBackgroundColor
	}
	if t.TextColor == "" {
		t.TextColor = DefaultTextColor
	}
	if t.ButtonColor == "" {
		t.ButtonColor = DefaultButtonColor
	}
	return t
}

func (t Theme) Value() (driver.Value, error) {
	return json.Marshal(t)
}

func (t *Theme) Scan(src any) error {
	return scanJSON(src, t)
}

func scanJSON(src any, dest any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported JSON column type %T", src)
	}
}

// GroupLinkInput describes a link entry in a request. ID is kept when the
// client sends back an existing entry and generated otherwise.
type GroupLinkInput struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Order *int   `json:"order"`
}

type CreateLinkGroupRequest struct {
	GroupName    string           `json:"groupName"`
	Description  string           `json:"description"`
	ProfileImage string           `json:"profileImage"`
	Links        []GroupLinkInput `json:"links"`
	Theme        *Theme           `json:"theme"`
	CustomURL    string           `json:"customUrl"`
}

// UpdateLinkGroupRequest is a partial update: nil fields are left untouched.
type UpdateLinkGroupRequest struct {
	GroupName    *string           `json:"groupName"`
	Description  *string           `json:"description"`
	ProfileImage *string           `json:"profileImage"`
	Links        *[]GroupLinkInput `json:"links"`
	Theme        *Theme            `json:"theme"`
	CustomURL    *string           `json:"customUrl"`
}

// LinkGroupResponse adds the public page address to a group.
type LinkGroupResponse struct {
	LinkGroup
	PageURL string `json:"pageUrl"`
}

type AddGroupLinkRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}
