package domain

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

const DefaultWebsiteTitle = "Untitled Website"

// Website is the persisted page of a user. Content and LayoutJSON are stored in
// json columns so the bytes written are returned unchanged.
type Website struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID     string    `json:"userId" gorm:"type:uuid;index;not null"`
	Slug       string    `json:"slug" gorm:"uniqueIndex;not null"`
	Title      string    `json:"title" gorm:"not null"`
	LayoutJSON JSONBlob  `json:"layoutJson" gorm:"column:layout_json;type:json;not null"`
	Content    JSONBlob  `json:"content" gorm:"type:json;not null"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// SaveWebsiteRequest replaces the title, layout and content of an owned website.
type SaveWebsiteRequest struct {
	UserID    string
	WebsiteID string
	Title     string
	Layout    JSONBlob
	Content   JSONBlob
}

// WebsiteResponse is the public view of a website.
type WebsiteResponse struct {
	ID         string    `json:"id"`
	Slug       string    `json:"slug"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	LayoutJSON JSONBlob  `json:"layoutJson"`
	Content    JSONBlob  `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// JSONBlob is an opaque JSON document stored verbatim.
type JSONBlob []byte

var (
	EmptyJSONObject = JSONBlob("{}")
	EmptyJSONArray  = JSONBlob("[]")
)

func (j JSONBlob) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSONBlob) UnmarshalJSON(data []byte) error {
	if j == nil {
		return errors.New("domain.JSONBlob: UnmarshalJSON on nil pointer")
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSONBlob) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSONBlob) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append(JSONBlob(nil), v...)
	case string:
		*j = JSONBlob(v)
	default:
		return fmt.Errorf("domain.JSONBlob: unsupported scan type %T", value)
	}
	return nil
}

func (JSONBlob) GormDataType() string {
	return "json"
}
