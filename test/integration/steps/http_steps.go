package steps

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
)

func (t *TestContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	t.accessToken = "" // unauthenticated from here on
	return nil
}

func (t *TestContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

func (t *TestContext) iSendARequestTo(method, path string) error {
	return t.executeRequest(method, t.replacePlaceholders(path), nil)
}

func (t *TestContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(t.replacePlaceholders(body.Content))
	}
	return t.executeRequest(method, t.replacePlaceholders(path), payload)
}

func (t *TestContext) iSendRequestsToWithBody(count int, method, path string, body *godog.DocString) error {
	for i := 0; i < count; i++ {
		if err := t.iSendARequestToWithBody(method, path, body); err != nil {
			return err
		}
	}
	return nil
}

func (t *TestContext) replacePlaceholders(content string) string {
	content = strings.ReplaceAll(content, "{{expense_id}}", t.lastExpenseID.String())
	content = strings.ReplaceAll(content, "{{access_token}}", t.accessToken)
	if t.current != nil {
		content = strings.ReplaceAll(content, "{{refresh_token}}", t.current.refreshToken)
		content = strings.ReplaceAll(content, "{{user_id}}", t.current.userID.String())
	}
	return content
}

func (t *TestContext) executeRequest(method, path string, payload []byte) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, t.app.server.URL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.app.server.Client().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{
		status: resp.StatusCode,
		header: resp.Header,
		raw:    raw,
	}

	body, err := decodeJSON(raw)
	if err != nil {
		t.response.body = string(raw)
		return nil
	}
	t.response.body = body

	// Remember the last expense the API returned so later steps can address it.
	if m, ok := body.(map[string]any); ok {
		if _, isExpense := m["transaction_date"]; isExpense {
			if id, err := uuid.Parse(fmt.Sprint(m["id"])); err == nil {
				t.lastExpenseID = id
			}
		}
	}
	return nil
}

// decodeJSON keeps numbers as written so "100.00" is not collapsed to 100.
func decodeJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func (t *TestContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %s)", expectedStatus, t.response.status, t.response.raw)
	}
	return nil
}

func (t *TestContext) theResponseShouldBeJSON() error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if _, ok := t.response.body.(map[string]any); !ok {
		return fmt.Errorf("response is not JSON: %s", t.response.raw)
	}
	return nil
}

func (t *TestContext) theResponseShouldContain(field string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	if _, exists := body[field]; !exists {
		return fmt.Errorf("response does not contain field '%s': %s", field, t.response.raw)
	}
	return nil
}

func (t *TestContext) theResponseFieldShouldBe(field, expectedValue string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}

	value := getFieldValue(body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %s", field, t.response.raw)
	}

	expectedValue = t.replacePlaceholders(expectedValue)
	if actual := fmt.Sprintf("%v", value); actual != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actual)
	}
	return nil
}

func (t *TestContext) theResponseFieldShouldExist(field string) error {
	body, err := t.jsonBody()
	if err != nil {
		return err
	}
	if getFieldValue(body, field) == nil {
		return fmt.Errorf("field '%s' not found in response: %s", field, t.response.raw)
	}
	return nil
}

func (t *TestContext) theResponseHeaderShouldBe(name, expected string) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if actual := t.response.header.Get(name); actual != expected {
		return fmt.Errorf("header '%s' expected '%s', got '%s'", name, expected, actual)
	}
	return nil
}

func (t *TestContext) theResponseShouldMatchJSON(content *godog.DocString) error {
	if t.response == nil {
		return errors.New("no response received")
	}

	expected, err := decodeJSON([]byte(content.Content))
	if err != nil {
		return fmt.Errorf("invalid expected json: %w", err)
	}
	if !reflect.DeepEqual(expected, t.response.body) {
		return fmt.Errorf("response mismatch\nexpected: %s\nactual:   %s", strings.TrimSpace(content.Content), t.response.raw)
	}
	return nil
}

func (t *TestContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	return t.assertCount(quantity, table, nil)
}

func (t *TestContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(t.replacePlaceholders(content.Content)), &criteria); err != nil {
		return err
	}
	return t.assertCount(quantity, table, criteria)
}

func (t *TestContext) assertCount(quantity int, table string, criteria map[string]any) error {
	count, err := t.app.db.Count(table, criteria)
	if err != nil {
		return err
	}
	if count != int64(quantity) {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}

func (t *TestContext) jsonBody() (map[string]any, error) {
	if t.response == nil {
		return nil, errors.New("no response received")
	}
	body, ok := t.response.body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is not a JSON object: %s", t.response.raw)
	}
	return body, nil
}

// getFieldValue walks a dot separated path; numeric segments index arrays.
func getFieldValue(object any, dotSeparatedField string) any {
	var field any = object
	for _, segment := range strings.Split(dotSeparatedField, ".") {
		if field == nil {
			return nil
		}
		if i, err := strconv.Atoi(segment); err == nil {
			arr, ok := field.([]any)
			if !ok || i >= len(arr) {
				return nil
			}
			field = arr[i]
			continue
		}
		m, ok := field.(map[string]any)
		if !ok {
			return nil
		}
		field = m[segment]
	}
	return field
}
