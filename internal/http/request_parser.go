// Package http exposes the expense collection as a JSON API.
//
// This file parses request bodies. Both JSON and form-encoded bodies are
// accepted so the API can be driven from plain HTML forms as well as
// programmatic clients.

package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"expbook/internal/core"
	"expbook/internal/middleware/trace"
	"expbook/internal/services"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// RequestBodyParser handles different content types for request body parsing.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads the body once and keeps it for parsing.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	trimmed := bytes.TrimSpace(p.body)
	if len(trimmed) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if trimmed[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		p.jsonData = make(map[string]any)
		if err := dec.Decode(&p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(trimmed))
	return p.err
}

// Get returns a sanitized string value from the parsed data.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		// JSON numbers may use exponents (1e2); expand them to plain
		// decimal text so amount parsing sees "100".
		if d, err := decimal.NewFromString(val.String()); err == nil {
			return d.String()
		}
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// parseExpenseInput reads the four editable fields. Amount text that does
// not parse is reported with core.ErrInvalidAmount.
func parseExpenseInput(w http.ResponseWriter, r *http.Request) (services.ExpenseInput, error) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		return services.ExpenseInput{}, fmt.Errorf("malformed body: %w", err)
	}

	raw := p.Get("amount")
	amount, err := core.ParseAmount(raw)
	if err != nil {
		return services.ExpenseInput{}, fmt.Errorf("%w %q", err, raw)
	}

	return services.ExpenseInput{
		Name:    p.Get("name"),
		Amount:  amount,
		Date:    p.Get("date"),
		Comment: p.Get("comment"),
	}, nil
}

// pathID returns the selected expense id, or "" when none was given.
func pathID(r *http.Request) string {
	return strings.TrimSpace(r.PathValue("id"))
}

func requestID(r *http.Request) string {
	return trace.FromRequest(r)
}
