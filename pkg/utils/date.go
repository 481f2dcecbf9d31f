package utils

import (
	"fmt"
	"strings"
	"time"
)

// Formatos aceitos para datas de pedidos
var timestampLayouts = []string{
	time.RFC3339,
	time.DateTime,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

func ParseDate(dateStr string) (*time.Time, error) {
	var date time.Time

	if dateStr != "" {
		incomingDate, err := time.Parse(time.DateOnly, dateStr)
		if err != nil {
			return nil, err
		}

		date = incomingDate
	}

	return &date, nil
}

// ParseOptionalDate retorna nil quando a data não foi informada
func ParseOptionalDate(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}
	return ParseDate(dateStr)
}

// ParseTimestamp tenta os formatos conhecidos, na ordem, até um funcionar
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}
