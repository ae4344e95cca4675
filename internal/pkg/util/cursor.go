package util

import (
	"encoding/base64"

	"github.com/goccy/go-json"
)

// ActivityCursor 行为流水的翻页游标，按 id 倒序
type ActivityCursor struct {
	LastID uint64 `json:"id"`
}

// EncodeCursor 将游标编码为 Base64 字符串
func EncodeCursor(c *ActivityCursor) string {
	if c == nil || c.LastID == 0 {
		return ""
	}
	b, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeCursor 解码前端传来的游标，空串返回 nil
func DecodeCursor(cursor string) (*ActivityCursor, error) {
	if cursor == "" {
		return nil, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, err
	}
	var c ActivityCursor
	if err = json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
