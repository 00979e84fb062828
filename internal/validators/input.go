package validators

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/phone"
)

const (
	MaxNameLength  = 200
	MaxNotesLength = 1000
	MaxTagsCount   = 10
	MaxTagLength   = 50

	minPhoneDigits = 10
	maxPhoneDigits = 13
)

var DefaultTags = []string{"Novo"}

var dateFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(T\d{2}:\d{2}(:\d{2})?)?`)

// StringLength accepts empty values; the limit counts characters.
func StringLength(value string, max int, field string) error {
	if utf8.RuneCountInString(value) > max {
		return httperr.Validation(fmt.Sprintf("%s excede o limite de %d caracteres", field, max))
	}
	return nil
}

// Phone accepts an empty value and returns the digits otherwise.
func Phone(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	digits := phone.Digits(raw)
	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return "", httperr.Validation("Telefone deve ter entre 10 e 13 dígitos")
	}
	return digits, nil
}

func Date(value string) error {
	if value == "" {
		return nil
	}
	if !dateFormat.MatchString(value) {
		return httperr.Validation("Formato de data inválido. Use YYYY-MM-DD ou YYYY-MM-DDTHH:MM")
	}
	return nil
}

// Tags validates a decoded JSON value. Absent tags fall back to DefaultTags,
// non-string entries are skipped and long tags are truncated.
func Tags(raw any) ([]string, error) {
	if raw == nil {
		return append([]string(nil), DefaultTags...), nil
	}

	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case []string:
		for _, s := range v {
			items = append(items, s)
		}
	default:
		return nil, httperr.Validation("Tags deve ser um array")
	}

	if len(items) > MaxTagsCount {
		return nil, httperr.Validation(fmt.Sprintf("Máximo de %d tags permitidas", MaxTagsCount))
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		s = truncate(strings.TrimSpace(s), MaxTagLength)
		if s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

// Sanitize removes null bytes and surrounding whitespace.
func Sanitize(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "\x00", ""))
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
