package employees

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"accounting-platform/plugins/projectmgmt-service/logging"
	"accounting-platform/plugins/projectmgmt-service/models"

	"github.com/sony/gobreaker"
)

// Employee carries the directory fields this plugin consumes.
type Employee struct {
	EmployeeID string `json:"employeeId"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
}

// Directory resolves employee references against the host's employee
// management service.
type Directory interface {
	GetEmployee(ctx context.Context, employeeID string) (*Employee, error)
}

// NewHTTPClient returns the shared client for calls to other services.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: 5 * time.Second}
}

// HTTPDirectory is the production Directory: one GET per lookup, wrapped in a
// circuit breaker so a dead directory service fails fast.
type HTTPDirectory struct {
	BaseURL    string
	HTTPClient *http.Client
	Breaker    *gobreaker.CircuitBreaker
}

func NewHTTPDirectory(baseURL string, httpClient *http.Client) *HTTPDirectory {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "EmployeesServiceCB",
		MaxRequests: 1,
		Timeout:     2 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	return &HTTPDirectory{
		BaseURL:    baseURL,
		HTTPClient: httpClient,
		Breaker:    breaker,
	}
}

func (d *HTTPDirectory) GetEmployee(ctx context.Context, employeeID string) (*Employee, error) {
	result, err := d.Breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/employees/%s", d.BaseURL, employeeID), nil)
		if err != nil {
			return nil, err
		}

		resp, err := d.HTTPClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, models.NewError("employee not found: %s", employeeID)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("employees service returned status %d", resp.StatusCode)
		}

		var employee Employee
		if err := json.NewDecoder(resp.Body).Decode(&employee); err != nil {
			return nil, fmt.Errorf("failed to decode employee: %v", err)
		}
		return &employee, nil
	})
	if err != nil {
		var domainErr *models.ProjectManagementError
		if errors.As(err, &domainErr) {
			return nil, domainErr
		}
		return nil, models.WrapError("failed to look up employee "+employeeID, err)
	}

	return result.(*Employee), nil
}
