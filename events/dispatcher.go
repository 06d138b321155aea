package events

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"accounting-platform/plugins/projectmgmt-service/logging"

	"github.com/sony/gobreaker"
)

// Dispatcher logs every event and forwards it to the notifications service as
// a best-effort POST. Delivery is at-most-once: a failed send is logged and
// dropped, never surfaced to the mutation that produced the event.
type Dispatcher struct {
	NotificationsURL string
	HTTPClient       *http.Client
	Breaker          *gobreaker.CircuitBreaker
}

func NewDispatcher(notificationsURL string, httpClient *http.Client) *Dispatcher {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "NotificationsServiceCB",
		MaxRequests: 1,
		Timeout:     2 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	return &Dispatcher{
		NotificationsURL: notificationsURL,
		HTTPClient:       httpClient,
		Breaker:          breaker,
	}
}

type notificationRequest struct {
	EventID    string    `json:"eventId"`
	Kind       string    `json:"kind"`
	ProjectID  string    `json:"projectId"`
	EmployeeID string    `json:"employeeId,omitempty"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurredAt"`
}

func (d *Dispatcher) Publish(event Event) {
	logging.Logger.Infof("Event ID: DOMAIN_EVENT, Description: %s [%s %s]", event.Message(), event.Kind, event.EventID)

	if d.NotificationsURL == "" {
		return
	}

	payload, err := json.Marshal(notificationRequest{
		EventID:    event.EventID,
		Kind:       string(event.Kind),
		ProjectID:  event.ProjectID(),
		EmployeeID: event.EmployeeID(),
		Message:    event.Message(),
		OccurredAt: event.OccurredAt,
	})
	if err != nil {
		logging.Logger.Warnf("Event ID: NOTIFICATION_MARSHAL_FAILED, Description: Failed to marshal notification for event %s: %v", event.EventID, err)
		return
	}

	_, err = d.Breaker.Execute(func() (interface{}, error) {
		resp, err := d.HTTPClient.Post(d.NotificationsURL+"/notifications", "application/json", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, fmt.Errorf("notifications service returned status %d", resp.StatusCode)
		}
		return nil, nil
	})
	if err != nil {
		logging.Logger.Warnf("Event ID: NOTIFICATION_SEND_FAILED, Description: Failed to deliver notification for event %s: %v", event.EventID, err)
	}
}
