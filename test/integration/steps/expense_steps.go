package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
)

func (t *TestContext) iAmRegisteredAs(username string) error {
	if err := t.aUserIsRegistered(username); err != nil {
		return err
	}
	return t.iAmLoggedInAs(username)
}

func (t *TestContext) aUserIsRegistered(username string) error {
	payload, _ := json.Marshal(map[string]string{
		"username":   username,
		"email":      username + "@example.com",
		"password":   testPassword,
		"password2":  testPassword,
		"first_name": "Test",
		"last_name":  "User",
	})

	saved := t.accessToken
	t.accessToken = ""
	err := t.executeRequest(http.MethodPost, "/api/v1/auth/register", payload)
	t.accessToken = saved
	if err != nil {
		return err
	}
	if t.response.status != http.StatusCreated {
		return fmt.Errorf("failed to register %q: %d %s", username, t.response.status, t.response.raw)
	}

	body, _ := t.jsonBody()
	userID, err := uuid.Parse(fmt.Sprint(getFieldValue(body, "user.id")))
	if err != nil {
		return fmt.Errorf("register response without user id: %s", t.response.raw)
	}

	t.users[username] = &session{
		userID:       userID,
		accessToken:  fmt.Sprint(body["access_token"]),
		refreshToken: fmt.Sprint(body["refresh_token"]),
	}
	return nil
}

func (t *TestContext) iAmLoggedInAs(username string) error {
	s, ok := t.users[username]
	if !ok {
		return fmt.Errorf("user %q is not registered in this scenario", username)
	}
	t.current = s
	t.accessToken = s.accessToken
	return nil
}

// hasTheFollowingExpenses creates the rows of the table through the API as that user.
func (t *TestContext) hasTheFollowingExpenses(username string, table *godog.Table) error {
	s, ok := t.users[username]
	if !ok {
		return fmt.Errorf("user %q is not registered in this scenario", username)
	}
	if len(table.Rows) < 2 {
		return fmt.Errorf("expense table needs a header and at least one row")
	}

	columns := make([]string, len(table.Rows[0].Cells))
	for i, cell := range table.Rows[0].Cells {
		columns[i] = cell.Value
	}

	saved := t.accessToken
	t.accessToken = s.accessToken
	defer func() { t.accessToken = saved }()

	for _, row := range table.Rows[1:] {
		fields := make(map[string]string, len(columns))
		for i, cell := range row.Cells {
			fields[columns[i]] = cell.Value
		}

		payload, _ := json.Marshal(map[string]any{
			"amount":           json.Number(fields["amount"]),
			"category":         fields["category"],
			"transaction_date": fields["transaction_date"],
		})
		if err := t.executeRequest(http.MethodPost, "/api/v1/expenses", payload); err != nil {
			return err
		}
		if t.response.status != http.StatusCreated {
			return fmt.Errorf("failed to create expense %v: %d %s", fields, t.response.status, t.response.raw)
		}
	}
	return nil
}

func (t *TestContext) welcomeEmailsShouldHaveBeenSent(count int) error {
	t.app.injector.EmailWorker.ProcessNow(context.Background())

	sent := t.app.sender.Sent()[t.sentBaseline:]
	if len(sent) != count {
		return fmt.Errorf("expected %d emails, got %d", count, len(sent))
	}
	for _, e := range sent {
		if e.Subject == "" || e.HTML == "" {
			return fmt.Errorf("email to %s has no rendered content", e.To)
		}
	}
	return nil
}
