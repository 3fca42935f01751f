package http

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"
)

// Response describes an HTTP response that has already been received.
type Response struct {
	StatusCode int               `json:"statusCode" yaml:"statusCode"`
	Headers    map[string]string `json:"headers" yaml:"headers"`
	Body       string            `json:"body" yaml:"body"`
	TimingMs   int64             `json:"timingMs" yaml:"timingMs"`
}

var (
	errMissingField = errors.New("response description requires statusCode, headers, body and timingMs")
	errNullHeader   = errors.New("response header values must be strings")
)

// UnmarshalJSON requires every field to be present so that a truncated
// description is rejected instead of silently zero-filled.
func (r *Response) UnmarshalJSON(data []byte) error {
	var wire struct {
		StatusCode *int                `json:"statusCode"`
		Headers    *map[string]*string `json:"headers"`
		Body       *string             `json:"body"`
		TimingMs   *int64              `json:"timingMs"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.StatusCode == nil || wire.Headers == nil || wire.Body == nil || wire.TimingMs == nil {
		return errMissingField
	}
	headers := make(map[string]string, len(*wire.Headers))
	for k, v := range *wire.Headers {
		if v == nil {
			return errNullHeader
		}
		headers[k] = *v
	}
	*r = Response{
		StatusCode: *wire.StatusCode,
		Headers:    headers,
		Body:       *wire.Body,
		TimingMs:   *wire.TimingMs,
	}
	return nil
}

// LookupHeader finds a header by case-insensitive name. An exact match wins;
// otherwise the first matching name in sorted order is used so that lookups
// are deterministic when several spellings are present.
func (r *Response) LookupHeader(key string) (string, bool) {
	if v, ok := r.Headers[key]; ok {
		return v, true
	}
	names := make([]string, 0, len(r.Headers))
	for k := range r.Headers {
		if strings.EqualFold(k, key) {
			names = append(names, k)
		}
	}
	if len(names) == 0 {
		return "", false
	}
	sort.Strings(names)
	return r.Headers[names[0]], true
}

func (r *Response) Header(key string) string {
	v, _ := r.LookupHeader(key)
	return v
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

func (r *Response) IsJSON() bool {
	ct := r.ContentType()
	return strings.Contains(ct, "application/json")
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500
}

func (r *Response) Duration() time.Duration {
	return time.Duration(r.TimingMs) * time.Millisecond
}
