package utils

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// URLsToString converts []string to JSON string (safe for DB)
func URLsToString(urls []string) string {
	if len(urls) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(urls)
	return string(data)
}

// StringToURLs converts DB string back to []string
func StringToURLs(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "[]" || s == "null" {
		return []string{}
	}
	var urls []string
	if err := json.Unmarshal([]byte(s), &urls); err != nil {
		// Fallback: treat as comma-separated if invalid JSON
		urls = []string{}
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				urls = append(urls, part)
			}
		}
		return urls
	}
	if urls == nil {
		return []string{}
	}
	return urls
}

// URLList is a JSON array column: jsonb on PostgreSQL, text elsewhere.
// A nil list is stored and rendered as [].
type URLList []string

func (l URLList) Value() (driver.Value, error) {
	return URLsToString(l), nil
}

func (l *URLList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = URLList{}
	case []byte:
		*l = StringToURLs(string(v))
	case string:
		*l = StringToURLs(v)
	default:
		return fmt.Errorf("URLList.Scan: unsupported type %T", src)
	}
	return nil
}

func (URLList) GormDataType() string {
	return "json"
}

func (URLList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "jsonb"
	default:
		return "text"
	}
}

func (l URLList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}
