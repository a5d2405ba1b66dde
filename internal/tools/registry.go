// Package tools holds the tool descriptor registry and the dispatcher
// that validates and routes tools/call invocations to the telco
// backends.
package tools

import (
	"context"
	"fmt"

	"telco-callcenter-mcp/internal/schema"
	"telco-callcenter-mcp/internal/telco"
)

// Handler executes one tool against its backend. A nil *DomainError
// means success; the returned value is the data payload to serialize.
type Handler func(ctx context.Context, args map[string]any) (any, *telco.DomainError)

// Descriptor describes one tool: wire metadata, schemas, and the bound
// handler. Descriptors are registered once at startup and immutable
// afterwards.
type Descriptor struct {
	Name         string         `json:"name"`
	Title        string         `json:"title,omitempty"`
	Description  string         `json:"description"`
	InputSchema  *schema.Schema `json:"inputSchema"`
	OutputSchema *schema.Schema `json:"outputSchema,omitempty"`

	handler   Handler
	validator *schema.Validator
}

// Registry is the static tool table. List order is registration order.
// Safe for unsynchronized concurrent reads after NewRegistry returns.
type Registry struct {
	order  []*Descriptor
	byName map[string]*Descriptor
}

// NewRegistry builds the tool table over the given service and
// compiles every input schema. A schema compile error is returned so
// the caller can treat it as fatal at startup.
func NewRegistry(svc *telco.Service) (*Registry, error) {
	r := &Registry{byName: make(map[string]*Descriptor)}
	for _, d := range descriptors(svc) {
		if _, exists := r.byName[d.Name]; exists {
			return nil, fmt.Errorf("duplicate tool name %q", d.Name)
		}
		v, err := schema.Compile(d.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("tool %s: %w", d.Name, err)
		}
		d.validator = v
		r.order = append(r.order, d)
		r.byName[d.Name] = d
	}
	return r, nil
}

// List returns all descriptors in registration order. The slice is a
// copy; callers cannot reorder the registry through it.
func (r *Registry) List() []*Descriptor {
	out := make([]*Descriptor, len(r.order))
	copy(out, r.order)
	return out
}

// Get returns the descriptor for a tool name.
func (r *Registry) Get(name string) (*Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

func getString(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

const phoneDescription = "Customer phone number in format +1-XXX-XXXX"

func phoneProperty() *schema.Schema {
	return &schema.Schema{
		Type:        "string",
		Description: phoneDescription,
		Pattern:     `^\+1-\d{3}-\d{4}$`,
	}
}

func descriptors(svc *telco.Service) []*Descriptor {
	return []*Descriptor{
		{
			Name:        "get_customer_info",
			Title:       "Get Customer Information",
			Description: "Retrieves comprehensive customer information including name, phone lines, device details (IMEI), and billing address. Requires customer phone number and 4-digit password for authentication.",
			InputSchema: &schema.Schema{
				Type: "object",
				Properties: map[string]*schema.Schema{
					"phoneNumber": phoneProperty(),
					"password": {
						Type:        "string",
						Description: "4-digit security password",
						Pattern:     `^\d{4}$`,
						MinLength:   schema.IntPtr(4),
						MaxLength:   schema.IntPtr(4),
					},
				},
				Required: []string{"phoneNumber", "password"},
			},
			OutputSchema: &schema.Schema{
				Type: "object",
				Properties: map[string]*schema.Schema{
					"name":               {Type: "string"},
					"customerId":         {Type: "string"},
					"accountStatus":      {Type: "string"},
					"numberOfPhoneLines": {Type: "number"},
					"phoneLines": {
						Type: "array",
						Items: &schema.Schema{
							Type: "object",
							Properties: map[string]*schema.Schema{
								"lineNumber":  {Type: "number"},
								"phoneNumber": {Type: "string"},
								"phoneType":   {Type: "string"},
								"imei":        {Type: "string"},
								"plan":        {Type: "string"},
								"status":      {Type: "string"},
							},
						},
					},
					"billingAddress": {
						Type: "object",
						Properties: map[string]*schema.Schema{
							"street":  {Type: "string"},
							"city":    {Type: "string"},
							"state":   {Type: "string"},
							"zipCode": {Type: "string"},
							"country": {Type: "string"},
						},
					},
				},
				Required: []string{"name", "customerId", "accountStatus", "numberOfPhoneLines", "phoneLines", "billingAddress"},
			},
			handler: func(_ context.Context, args map[string]any) (any, *telco.DomainError) {
				return svc.GetCustomerInfo(getString(args, "phoneNumber"), getString(args, "password"))
			},
		},
		{
			Name:        "get_location_info",
			Title:       "Get Customer Location",
			Description: "Identifies the location where the customer is calling from, including city, state, latitude, and longitude coordinates.",
			InputSchema: &schema.Schema{
				Type: "object",
				Properties: map[string]*schema.Schema{
					"phoneNumber": phoneProperty(),
				},
				Required: []string{"phoneNumber"},
			},
			OutputSchema: &schema.Schema{
				Type: "object",
				Properties: map[string]*schema.Schema{
					"phoneNumber": {Type: "string"},
					"city":        {Type: "string"},
					"state":       {Type: "string"},
					"latitude":    {Type: "number"},
					"longitude":   {Type: "number"},
					"lastUpdated": {Type: "string", Format: "date-time"},
				},
				Required: []string{"phoneNumber", "city", "state", "latitude", "longitude", "lastUpdated"},
			},
			handler: func(_ context.Context, args map[string]any) (any, *telco.DomainError) {
				return svc.GetLocationInfo(getString(args, "phoneNumber"))
			},
		},
		{
			Name:        "get_billing_history",
			Title:       "Get Billing History",
			Description: "Retrieves complete billing history including invoices, payment records, credits, and account balance summary.",
			InputSchema: &schema.Schema{
				Type: "object",
				Properties: map[string]*schema.Schema{
					"phoneNumber": phoneProperty(),
				},
				Required: []string{"phoneNumber"},
			},
			OutputSchema: &schema.Schema{
				Type: "object",
				Properties: map[string]*schema.Schema{
					"phoneNumber":  {Type: "string"},
					"customerName": {Type: "string"},
					"summary": {
						Type: "object",
						Properties: map[string]*schema.Schema{
							"totalPaid":      {Type: "number"},
							"totalPending":   {Type: "number"},
							"totalCredits":   {Type: "number"},
							"accountBalance": {Type: "number"},
						},
						Required: []string{"totalPaid", "totalPending", "totalCredits", "accountBalance"},
					},
					"billingHistory": {
						Type: "array",
						Items: &schema.Schema{
							Type: "object",
							Properties: map[string]*schema.Schema{
								"invoiceId":     {Type: "string"},
								"billingDate":   {Type: "string", Format: "date"},
								"dueDate":       {Type: "string", Format: "date"},
								"amount":        {Type: "number"},
								"status":        {Type: "string"},
								"paymentDate":   {Type: "string", Format: "date"},
								"paymentMethod": {Type: "string"},
							},
						},
					},
					"credits": {
						Type: "array",
						Items: &schema.Schema{
							Type: "object",
							Properties: map[string]*schema.Schema{
								"creditId":    {Type: "string"},
								"amount":      {Type: "number"},
								"reason":      {Type: "string"},
								"appliedDate": {Type: "string", Format: "date"},
								"status":      {Type: "string"},
							},
						},
					},
				},
				Required: []string{"phoneNumber", "customerName", "summary", "billingHistory", "credits"},
			},
			handler: func(_ context.Context, args map[string]any) (any, *telco.DomainError) {
				return svc.GetBillingHistory(getString(args, "phoneNumber"))
			},
		},
		{
			Name:        "create_service_ticket",
			Title:       "Create Service Ticket",
			Description: "Create a new service ticket in the customer support system. Priority, category, SLA deadlines and a technician assignment are derived automatically when not supplied.",
			InputSchema: &schema.Schema{
				Type: "object",
				Properties: map[string]*schema.Schema{
					"customerName":     {Type: "string", Description: "Customer's full name"},
					"customerPhone":    {Type: "string", Description: "Customer's phone number"},
					"customerEmail":    {Type: "string", Description: "Customer's email address"},
					"accountNumber":    {Type: "string", Description: "Customer's account number"},
					"serviceAddress":   {Type: "string", Description: "Service location address"},
					"shortDescription": {Type: "string", Description: "Brief problem summary"},
					"longDescription":  {Type: "string", Description: "Detailed problem description"},
					"category":         {Type: "string", Description: "Problem category"},
					"priority":         {Type: "string", Description: "Ticket priority (Low, Medium, High, Critical)"},
				},
				Required: []string{"customerName", "customerPhone", "shortDescription", "longDescription"},
			},
			OutputSchema: &schema.Schema{
				Type: "object",
				Properties: map[string]*schema.Schema{
					"success":         {Type: "boolean"},
					"message":         {Type: "string"},
					"timestamp":       {Type: "string", Format: "date-time"},
					"ticket":          {Type: "object"},
					"customerMessage": {Type: "string"},
				},
				Required: []string{"success", "ticket"},
			},
			handler: func(_ context.Context, args map[string]any) (any, *telco.DomainError) {
				return svc.CreateServiceTicket(telco.TicketRequest{
					CustomerName:     getString(args, "customerName"),
					CustomerPhone:    getString(args, "customerPhone"),
					CustomerEmail:    getString(args, "customerEmail"),
					AccountNumber:    getString(args, "accountNumber"),
					ServiceAddress:   getString(args, "serviceAddress"),
					ShortDescription: getString(args, "shortDescription"),
					LongDescription:  getString(args, "longDescription"),
					Category:         getString(args, "category"),
					Priority:         getString(args, "priority"),
				})
			},
		},
		{
			Name:        "get_ticket_details",
			Title:       "Get Ticket Details",
			Description: "Retrieve details of a customer support ticket by its ID, including technician notes, SLA status and resolution details.",
			InputSchema: &schema.Schema{
				Type: "object",
				Properties: map[string]*schema.Schema{
					"ticketId": {Type: "string", Description: "The unique identifier of the support ticket"},
				},
				Required: []string{"ticketId"},
			},
			OutputSchema: &schema.Schema{
				Type: "object",
				Properties: map[string]*schema.Schema{
					"success":   {Type: "boolean"},
					"timestamp": {Type: "string", Format: "date-time"},
					"ticket":    {Type: "object"},
				},
				Required: []string{"success", "ticket"},
			},
			handler: func(_ context.Context, args map[string]any) (any, *telco.DomainError) {
				return svc.GetTicketDetails(getString(args, "ticketId"))
			},
		},
		{
			Name:        "search_tickets",
			Title:       "Search Similar Tickets",
			Description: "Retrieve resolved support tickets similar to a natural language problem description, ranked by semantic similarity, with root cause analysis records.",
			InputSchema: &schema.Schema{
				Type: "object",
				Properties: map[string]*schema.Schema{
					"searchQuery": {Type: "string", Description: "The natural language query to search for support tickets"},
					"topK":        {Type: "integer", Description: "Number of similar tickets to return (default 5)"},
				},
				Required: []string{"searchQuery"},
			},
			OutputSchema: &schema.Schema{
				Type: "object",
				Properties: map[string]*schema.Schema{
					"searchQuery":     {Type: "string"},
					"totalResults":    {Type: "number"},
					"searchTimestamp": {Type: "string", Format: "date-time"},
					"results":         {Type: "array"},
				},
				Required: []string{"searchQuery", "totalResults", "results"},
			},
			handler: func(_ context.Context, args map[string]any) (any, *telco.DomainError) {
				topK := 0
				if n, ok := args["topK"].(float64); ok {
					topK = int(n)
				}
				return svc.SearchTickets(getString(args, "searchQuery"), topK)
			},
		},
	}
}
