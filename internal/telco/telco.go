// Package telco implements the call-center backends behind the MCP
// tools: customer lookup, location, billing history, and the service
// ticket operations.
//
// Backend failures here are domain errors (wrong password, unknown
// customer, missing ticket fields), not protocol errors. They are
// reported as *DomainError so the dispatcher can translate them.
package telco

import (
	"regexp"
	"time"
)

// DomainError is a business-rule failure reported by a backend. Reason
// is the human-readable cause; Extra carries additional payload fields
// (such as missingFields) that belong in the wire response.
type DomainError struct {
	Reason string
	Extra  map[string]any
}

func (e *DomainError) Error() string { return e.Reason }

// Payload renders the error as the wire failure object:
// {"success": false, "error": <reason>, ...extra}.
func (e *DomainError) Payload() map[string]any {
	p := map[string]any{
		"success": false,
		"error":   e.Reason,
	}
	for k, v := range e.Extra {
		p[k] = v
	}
	return p
}

func domainErr(reason string) *DomainError {
	return &DomainError{Reason: reason}
}

// Service binds the backends to their stores. Tool handlers are
// methods on Service; each returns the success data payload or a
// *DomainError.
type Service struct {
	customers *CustomerStore
	tickets   TicketRepo
	now       func() time.Time
}

// NewService creates a Service over the given stores.
func NewService(customers *CustomerStore, tickets TicketRepo) *Service {
	return &Service{
		customers: customers,
		tickets:   tickets,
		now:       time.Now,
	}
}

// rfc3339Millis matches the timestamp shape the wire contract uses.
const rfc3339Millis = "2006-01-02T15:04:05.000Z"

var (
	phonePattern    = regexp.MustCompile(`^\+1-\d{3}-\d{4}$`)
	passwordPattern = regexp.MustCompile(`^\d{4}$`)
)

func validPhoneNumber(phone string) bool { return phonePattern.MatchString(phone) }
func validPassword(password string) bool { return passwordPattern.MatchString(password) }
