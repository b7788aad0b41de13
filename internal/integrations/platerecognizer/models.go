package platerecognizer

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Image изображение номера для распознавания
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Result ответ сервиса распознавания, передается клиенту как есть
type Result struct {
	StatusCode  int
	ContentType string
	Headers     map[string]string // cache-control, etag
	Body        []byte
}

// recognition поддерживаемые формы ответа: {"plate": ...} или {"results": [{"plate": ...}]}
type recognition struct {
	Plate   string `json:"plate"`
	Results []struct {
		Plate string `json:"plate"`
	} `json:"results"`
}

// Plate извлекает распознанный номер из тела ответа
func (r *Result) Plate() (string, error) {
	var rec recognition
	if err := json.Unmarshal(r.Body, &rec); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoPlate, err)
	}
	if p := strings.TrimSpace(rec.Plate); p != "" {
		return p, nil
	}
	for _, res := range rec.Results {
		if p := strings.TrimSpace(res.Plate); p != "" {
			return p, nil
		}
	}
	return "", ErrNoPlate
}
