package telco

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"
)

// TicketCustomer is the customer block embedded in a ticket.
type TicketCustomer struct {
	CustomerID     string `json:"customerId"`
	Name           string `json:"name"`
	PhoneNumber    string `json:"phoneNumber"`
	Email          string `json:"email"`
	AccountNumber  string `json:"accountNumber"`
	ServiceAddress string `json:"serviceAddress"`
	ServiceType    string `json:"serviceType"`
}

// ProblemDescription holds the short and long problem statements.
type ProblemDescription struct {
	Short string `json:"short"`
	Long  string `json:"long"`
}

// Timestamps tracks the ticket lifecycle. Unset stages are null on the
// wire, matching the upstream ticketing contract.
type Timestamps struct {
	Created       string  `json:"created"`
	FirstResponse *string `json:"firstResponse"`
	Assigned      *string `json:"assigned"`
	InProgress    *string `json:"inProgress"`
	Resolved      *string `json:"resolved"`
	Closed        *string `json:"closed"`
}

// SLA carries the service-level targets for a ticket. Deadline fields
// are set on freshly created tickets; the *Met/actual fields appear on
// historical tickets.
type SLA struct {
	ResponseTime         string `json:"responseTime"`
	ResolutionTime       string `json:"resolutionTime"`
	ResponseDeadline     string `json:"responseDeadline,omitempty"`
	ResolutionDeadline   string `json:"resolutionDeadline,omitempty"`
	ResponseTimeMet      *bool  `json:"responseTimeMet,omitempty"`
	ResolutionTimeMet    *bool  `json:"resolutionTimeMet,omitempty"`
	ActualResponseTime   string `json:"actualResponseTime,omitempty"`
	ActualResolutionTime string `json:"actualResolutionTime,omitempty"`
}

// Technician is an assigned technician record.
type Technician struct {
	TechnicianID      string `json:"technicianId"`
	Name              string `json:"name"`
	Role              string `json:"role"`
	PhoneNumber       string `json:"phoneNumber"`
	AssignedDate      string `json:"assignedDate,omitempty"`
	PrimaryTechnician bool   `json:"primaryTechnician"`
}

// TechnicianNote is a work note left on a ticket.
type TechnicianNote struct {
	NoteID         string `json:"noteId"`
	TechnicianID   string `json:"technicianId"`
	TechnicianName string `json:"technicianName"`
	Timestamp      string `json:"timestamp"`
	NoteType       string `json:"noteType"`
	Content        string `json:"content"`
}

// ResolutionDetails describes how a ticket was (or is being) resolved.
type ResolutionDetails struct {
	RootCause            string `json:"rootCause"`
	ActionTaken          string `json:"actionTaken"`
	Verified             bool   `json:"verified"`
	VerificationMethod   string `json:"verificationMethod"`
	CustomerSatisfaction string `json:"customerSatisfaction"`
	FollowUpRequired     bool   `json:"followUpRequired"`
}

// InternalComment is a staff-only comment on a ticket.
type InternalComment struct {
	CommentID string `json:"commentId"`
	Author    string `json:"author"`
	Timestamp string `json:"timestamp"`
	Content   string `json:"content"`
}

// Attachment is a file attached to a ticket.
type Attachment struct {
	AttachmentID string `json:"attachmentId"`
	FileName     string `json:"fileName"`
	FileType     string `json:"fileType"`
	UploadedBy   string `json:"uploadedBy"`
	UploadedDate string `json:"uploadedDate"`
	FileSize     string `json:"fileSize"`
}

// Notifications records the customer notification sent on ticket
// creation.
type Notifications struct {
	CustomerNotificationSent bool   `json:"customerNotificationSent"`
	NotificationMethod       string `json:"notificationMethod"`
	NotificationTimestamp    string `json:"notificationTimestamp"`
	Message                  string `json:"message"`
}

// Ticket is a complete service ticket record.
type Ticket struct {
	TicketID            string             `json:"ticketId"`
	Status              string             `json:"status"`
	Priority            string             `json:"priority"`
	Category            string             `json:"category"`
	Subcategory         string             `json:"subcategory"`
	Customer            TicketCustomer     `json:"customer"`
	ProblemDescription  ProblemDescription `json:"problemDescription"`
	Timestamps          Timestamps         `json:"timestamps"`
	SLA                 SLA                `json:"sla"`
	AssignedTechnicians []Technician       `json:"assignedTechnicians"`
	TechnicianNotes     []TechnicianNote   `json:"technicianNotes"`
	Channel             string             `json:"channel,omitempty"`
	CreatedBy           string             `json:"createdBy,omitempty"`
	Notifications       *Notifications     `json:"notifications,omitempty"`
	ResolutionDetails   *ResolutionDetails `json:"resolutionDetails,omitempty"`
	RelatedTickets      []string           `json:"relatedTickets,omitempty"`
	InternalComments    []InternalComment  `json:"internalComments,omitempty"`
	Attachments         []Attachment       `json:"attachments,omitempty"`
}

// TicketRequest is the input for CreateServiceTicket. Only the four
// required fields must be present; the rest are derived when absent.
type TicketRequest struct {
	CustomerName     string `json:"customerName"`
	CustomerPhone    string `json:"customerPhone"`
	CustomerEmail    string `json:"customerEmail,omitempty"`
	AccountNumber    string `json:"accountNumber,omitempty"`
	ServiceAddress   string `json:"serviceAddress,omitempty"`
	ShortDescription string `json:"shortDescription"`
	LongDescription  string `json:"longDescription"`
	Category         string `json:"category,omitempty"`
	Priority         string `json:"priority,omitempty"`
}

// TicketCreation is the success payload of CreateServiceTicket.
type TicketCreation struct {
	Success         bool    `json:"success"`
	Message         string  `json:"message"`
	Timestamp       string  `json:"timestamp"`
	Ticket          *Ticket `json:"ticket"`
	CustomerMessage string  `json:"customerMessage"`
}

// TicketDetails is the success payload of GetTicketDetails.
type TicketDetails struct {
	Success   bool    `json:"success"`
	Timestamp string  `json:"timestamp"`
	Ticket    *Ticket `json:"ticket"`
}

var (
	criticalPattern = regexp.MustCompile(`no service|complete outage|emergency|business down|cannot work`)
	highPattern     = regexp.MustCompile(`outage|not working|no internet|no connection|urgent`)
	lowPattern      = regexp.MustCompile(`billing|question|inquiry|slow|intermittent`)
)

type categoryRule struct {
	pattern *regexp.Regexp
	main    string
	sub     string
}

// Evaluated in order; first match wins.
var categoryRules = []categoryRule{
	{regexp.MustCompile(`internet|connection|connectivity|wifi|wireless|online`), "Connectivity", "Internet Issues"},
	{regexp.MustCompile(`phone|call|landline|dial tone|voice`), "Voice Services", "Phone Issues"},
	{regexp.MustCompile(`router|modem|equipment|device|hardware`), "Equipment", "Device Malfunction"},
	{regexp.MustCompile(`bill|billing|charge|payment|invoice`), "Billing", "Account Issues"},
	{regexp.MustCompile(`tv|television|cable|channel|streaming`), "TV Services", "Service Issues"},
	{regexp.MustCompile(`speed|slow|performance|bandwidth`), "Performance", "Speed Issues"},
}

// slaTarget is the response/resolution budget for a priority.
type slaTarget struct {
	responseMinutes int
	resolutionHours int
}

var slaTargets = map[string]slaTarget{
	"Critical": {15, 2},
	"High":     {30, 4},
	"Medium":   {60, 24},
	"Low":      {120, 48},
}

// technicianPool holds the auto-assignment candidates per category.
var technicianPool = map[string][]Technician{
	"Connectivity": {
		{TechnicianID: "TECH-1001", Name: "Alex Johnson", Role: "Network Technician Level 2", PhoneNumber: "+1-555-0301"},
		{TechnicianID: "TECH-1002", Name: "Maria Garcia", Role: "Network Technician Level 2", PhoneNumber: "+1-555-0302"},
	},
	"Voice Services": {
		{TechnicianID: "TECH-2001", Name: "David Kim", Role: "Voice Services Specialist", PhoneNumber: "+1-555-0401"},
		{TechnicianID: "TECH-2002", Name: "Lisa Anderson", Role: "Voice Services Specialist", PhoneNumber: "+1-555-0402"},
	},
	"Equipment": {
		{TechnicianID: "TECH-3001", Name: "Carlos Rodriguez", Role: "Field Technician Level 1", PhoneNumber: "+1-555-0501"},
		{TechnicianID: "TECH-3002", Name: "Emily White", Role: "Field Technician Level 1", PhoneNumber: "+1-555-0502"},
	},
	"Billing": {
		{TechnicianID: "TECH-4001", Name: "Sharon Davis", Role: "Billing Specialist", PhoneNumber: "+1-555-0601"},
		{TechnicianID: "TECH-4002", Name: "Mohammed Hassan", Role: "Billing Specialist", PhoneNumber: "+1-555-0602"},
	},
	"TV Services": {
		{TechnicianID: "TECH-5001", Name: "Jennifer Lee", Role: "TV Services Technician", PhoneNumber: "+1-555-0701"},
	},
	"Performance": {
		{TechnicianID: "TECH-1001", Name: "Alex Johnson", Role: "Network Technician Level 2", PhoneNumber: "+1-555-0301"},
	},
	"General": {
		{TechnicianID: "TECH-6001", Name: "Robert Taylor", Role: "Customer Support Specialist", PhoneNumber: "+1-555-0801"},
	},
}

// CreateServiceTicket validates the request, derives priority,
// category, SLA deadlines and a technician assignment, appends the new
// ticket to the repository and returns the creation payload.
func (s *Service) CreateServiceTicket(req TicketRequest) (*TicketCreation, *DomainError) {
	now := s.now().UTC()

	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"customerName", req.CustomerName},
		{"customerPhone", req.CustomerPhone},
		{"shortDescription", req.ShortDescription},
		{"longDescription", req.LongDescription},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, &DomainError{
			Reason: "Missing required fields",
			Extra: map[string]any{
				"missingFields": missing,
				"timestamp":     now.Format(rfc3339Millis),
			},
		}
	}

	priority := req.Priority
	if priority == "" {
		priority = determinePriority(req.ShortDescription, req.LongDescription)
	}

	catMain, catSub := req.Category, "Customer Inquiry"
	if catMain == "" {
		catMain, catSub = categorizeIssue(req.ShortDescription, req.LongDescription)
	}

	ticketID := generateTicketID(now)
	created := now.Format(rfc3339Millis)
	sla := calculateSLA(priority, now)
	tech := autoAssignTechnician(catMain, created)
	customer := enrichCustomerData(req)

	ticket := &Ticket{
		TicketID:           ticketID,
		Status:             "In-Review",
		Priority:           priority,
		Category:           catMain,
		Subcategory:        catSub,
		Customer:           customer,
		ProblemDescription: ProblemDescription{Short: req.ShortDescription, Long: req.LongDescription},
		Timestamps: Timestamps{
			Created:  created,
			Assigned: &created,
		},
		SLA:                 sla,
		AssignedTechnicians: []Technician{tech},
		TechnicianNotes:     []TechnicianNote{},
		Channel:             "AI Agent",
		CreatedBy:           "Customer Service Representative",
		Notifications: &Notifications{
			CustomerNotificationSent: true,
			NotificationMethod:       "SMS",
			NotificationTimestamp:    created,
			Message:                  fmt.Sprintf("Your service ticket %s has been created. We'll contact you within %s.", ticketID, sla.ResponseTime),
		},
	}

	if err := s.tickets.Put(ticket); err != nil {
		return nil, &DomainError{Reason: fmt.Sprintf("Failed to store ticket: %v", err)}
	}

	return &TicketCreation{
		Success:   true,
		Message:   "Service ticket created successfully",
		Timestamp: created,
		Ticket:    ticket,
		CustomerMessage: fmt.Sprintf(
			"Thank you for contacting us. Your service ticket number is %s. We will respond within %s. You will receive updates via %s at %s.",
			ticketID, sla.ResponseTime, ticket.Notifications.NotificationMethod, req.CustomerPhone),
	}, nil
}

// GetTicketDetails returns the full record for a ticket ID.
func (s *Service) GetTicketDetails(ticketID string) (*TicketDetails, *DomainError) {
	ticket, ok, err := s.tickets.Get(ticketID)
	if err != nil {
		return nil, &DomainError{Reason: fmt.Sprintf("Failed to load ticket: %v", err)}
	}
	if !ok {
		return nil, &DomainError{
			Reason: "Ticket not found",
			Extra: map[string]any{
				"message":   fmt.Sprintf("No ticket found with ID: %s", ticketID),
				"timestamp": s.now().UTC().Format(rfc3339Millis),
			},
		}
	}

	return &TicketDetails{
		Success:   true,
		Timestamp: s.now().UTC().Format(rfc3339Millis),
		Ticket:    ticket,
	}, nil
}

func generateTicketID(now time.Time) string {
	return fmt.Sprintf("TKT-%d-%06d", now.Year(), rand.IntN(900000)+100000)
}

func determinePriority(shortDesc, longDesc string) string {
	text := strings.ToLower(shortDesc + " " + longDesc)
	switch {
	case criticalPattern.MatchString(text):
		return "Critical"
	case highPattern.MatchString(text):
		return "High"
	case lowPattern.MatchString(text):
		return "Low"
	default:
		return "Medium"
	}
}

func categorizeIssue(shortDesc, longDesc string) (main, sub string) {
	text := strings.ToLower(shortDesc + " " + longDesc)
	for _, rule := range categoryRules {
		if rule.pattern.MatchString(text) {
			return rule.main, rule.sub
		}
	}
	return "General", "Customer Inquiry"
}

func calculateSLA(priority string, now time.Time) SLA {
	target, ok := slaTargets[priority]
	if !ok {
		target = slaTargets["Medium"]
	}
	return SLA{
		ResponseTime:       fmt.Sprintf("%d minutes", target.responseMinutes),
		ResolutionTime:     fmt.Sprintf("%d hours", target.resolutionHours),
		ResponseDeadline:   now.Add(time.Duration(target.responseMinutes) * time.Minute).Format(rfc3339Millis),
		ResolutionDeadline: now.Add(time.Duration(target.resolutionHours) * time.Hour).Format(rfc3339Millis),
	}
}

func autoAssignTechnician(category, assignedDate string) Technician {
	pool, ok := technicianPool[category]
	if !ok {
		pool = technicianPool["General"]
	}
	tech := pool[rand.IntN(len(pool))]
	tech.AssignedDate = assignedDate
	tech.PrimaryTechnician = true
	return tech
}

// enrichCustomerData simulates a customer-database lookup for fields
// the caller did not supply.
func enrichCustomerData(req TicketRequest) TicketCustomer {
	email := req.CustomerEmail
	if email == "" {
		email = strings.ToLower(strings.Join(strings.Fields(req.CustomerName), ".")) + "@email.com"
	}
	account := req.AccountNumber
	if account == "" {
		account = fmt.Sprintf("ACC-%06d", rand.IntN(900000)+100000)
	}
	address := req.ServiceAddress
	if address == "" {
		address = "Address on file"
	}
	return TicketCustomer{
		CustomerID:     fmt.Sprintf("CUST-%06d", rand.IntN(900000)+100000),
		Name:           req.CustomerName,
		PhoneNumber:    req.CustomerPhone,
		Email:          email,
		AccountNumber:  account,
		ServiceAddress: address,
		ServiceType:    "Fiber 300Mbps",
	}
}
