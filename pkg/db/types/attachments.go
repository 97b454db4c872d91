package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Attachment describes a file referenced by a ledger entry. The blob itself
// lives in external storage; only the descriptor is persisted here.
type Attachment struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Mime string `json:"mime"`
	URL  string `json:"url,omitempty"`
}

// Attachments is a JSONB-backed list of attachment descriptors.
type Attachments []Attachment

// Value implements driver.Valuer.
func (a Attachments) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal attachments: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (a *Attachments) Scan(src any) error {
	if src == nil {
		*a = nil
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported attachments source type %T", src)
	}

	if len(raw) == 0 {
		*a = nil
		return nil
	}

	var decoded []Attachment
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("unmarshal attachments: %w", err)
	}
	*a = decoded
	return nil
}

// GormDataType tells GORM which column type to use.
func (Attachments) GormDataType() string {
	return "jsonb"
}
