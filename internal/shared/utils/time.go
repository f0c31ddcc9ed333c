package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Các layout được chấp nhận khi client gửi thời gian.
// Layout không có timezone được hiểu là UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseUTC parse chuỗi thời gian và chuẩn hóa về UTC
func ParseUTC(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q: expected RFC3339 or YYYY-MM-DD", s)
}

// UTCTime là time.Time dùng trong request DTO, luôn ở UTC
type UTCTime struct {
	time.Time
}

func NewUTCTime(t time.Time) UTCTime {
	return UTCTime{Time: t.UTC()}
}

func (t *UTCTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseUTC(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t UTCTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.UTC().Format(time.RFC3339))
}
