package telco

import "sync"

// TicketRepo is the capability contract the service needs from a
// ticket store: lookup by ID and append. Implementations must be safe
// for concurrent use.
type TicketRepo interface {
	Get(ticketID string) (*Ticket, bool, error)
	Put(ticket *Ticket) error
}

// MemoryTicketRepo is the in-memory fixture-backed repository.
type MemoryTicketRepo struct {
	mu      sync.RWMutex
	tickets map[string]*Ticket
}

// NewMemoryTicketRepo creates a repository seeded with the reference
// tickets.
func NewMemoryTicketRepo() *MemoryTicketRepo {
	repo := &MemoryTicketRepo{tickets: make(map[string]*Ticket)}
	for _, t := range SeedTickets() {
		repo.tickets[t.TicketID] = t
	}
	return repo
}

// Get returns the ticket for an ID.
func (r *MemoryTicketRepo) Get(ticketID string) (*Ticket, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tickets[ticketID]
	return t, ok, nil
}

// Put stores a ticket under its ID.
func (r *MemoryTicketRepo) Put(ticket *Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets[ticket.TicketID] = ticket
	return nil
}

func boolPtr(b bool) *bool { return &b }

// SeedTickets returns the reference ticket fixtures every repository
// variant starts with.
func SeedTickets() []*Ticket {
	return []*Ticket{
		{
			TicketID:    "TKT-2024-006789",
			Status:      "Completed",
			Priority:    "High",
			Category:    "Connectivity",
			Subcategory: "Internet Outage",
			Customer: TicketCustomer{
				CustomerID:     "CUST-445821",
				Name:           "Jennifer Williams",
				PhoneNumber:    "+1-555-0142",
				Email:          "jennifer.williams@email.com",
				AccountNumber:  "ACC-998877",
				ServiceAddress: "1245 Maple Street, Springfield, IL 62701",
				ServiceType:    "Fiber 500Mbps",
			},
			ProblemDescription: ProblemDescription{
				Short: "Complete internet outage since morning",
				Long:  "Customer reports no internet connectivity since 7:00 AM today. All indicator lights on ONT are green except for the 'Internet' light which is red. Customer has tried power cycling the equipment twice with no improvement. Home office worker - business critical.",
			},
			Timestamps: Timestamps{
				Created:       "2024-12-20T07:15:32Z",
				FirstResponse: strPtr("2024-12-20T07:28:10Z"),
				Assigned:      strPtr("2024-12-20T07:45:00Z"),
				InProgress:    strPtr("2024-12-20T08:30:15Z"),
				Resolved:      strPtr("2024-12-20T10:15:40Z"),
				Closed:        strPtr("2024-12-20T10:45:00Z"),
			},
			SLA: SLA{
				ResponseTime:         "15 minutes",
				ResolutionTime:       "4 hours",
				ResponseTimeMet:      boolPtr(true),
				ResolutionTimeMet:    boolPtr(true),
				ActualResponseTime:   "12 minutes",
				ActualResolutionTime: "3 hours",
			},
			AssignedTechnicians: []Technician{
				{TechnicianID: "TECH-1547", Name: "Michael Torres", Role: "Field Technician Level 2", PhoneNumber: "+1-555-0198", AssignedDate: "2024-12-20T07:45:00Z", PrimaryTechnician: true},
				{TechnicianID: "TECH-2103", Name: "Amy Chen", Role: "Network Engineer", PhoneNumber: "+1-555-0203", AssignedDate: "2024-12-20T09:10:00Z", PrimaryTechnician: false},
			},
			TechnicianNotes: []TechnicianNote{
				{NoteID: "NOTE-001", TechnicianID: "TECH-1547", TechnicianName: "Michael Torres", Timestamp: "2024-12-20T08:35:22Z", NoteType: "Initial Assessment", Content: "Arrived on site at 08:30. Confirmed ONT status lights - Internet LED solid red, all others green. Checked physical connections - all secure. Performed ONT reboot - no change. Signal levels from fiber appear normal. Suspect issue upstream of ONT. Escalating to network operations."},
				{NoteID: "NOTE-002", TechnicianID: "TECH-2103", TechnicianName: "Amy Chen", Timestamp: "2024-12-20T09:15:47Z", NoteType: "Network Diagnosis", Content: "Reviewed network topology and monitoring systems. Identified fiber cut on trunk line serving this sector (Maple Street area). Caused by construction crew at 6:45 AM. Repair crew dispatched. ETA 30 minutes. Approximately 47 customers affected in this area. Customer notification sent."},
				{NoteID: "NOTE-003", TechnicianID: "TECH-1547", TechnicianName: "Michael Torres", Timestamp: "2024-12-20T10:05:18Z", NoteType: "Work in Progress", Content: "Fiber splice repair completed by emergency crew. Testing connectivity... ONT Internet light now green. Running speed test from customer's laptop: Download 487 Mbps, Upload 512 Mbps. Performance within spec. Monitoring for stability - 5 minutes elapsed, connection stable."},
				{NoteID: "NOTE-004", TechnicianID: "TECH-1547", TechnicianName: "Michael Torres", Timestamp: "2024-12-20T10:18:33Z", NoteType: "Resolution", Content: "Issue resolved. Connection stable for 15 minutes. All customer devices reconnected successfully (3 laptops, 2 phones, 1 tablet, smart TV). Explained root cause to customer. Apologized for inconvenience. Customer satisfied with resolution. Provided direct contact number for follow-up if needed within 24 hours. Ticket ready for closure."},
			},
			ResolutionDetails: &ResolutionDetails{
				RootCause:            "Fiber optic cable severed by third-party construction crew on trunk line",
				ActionTaken:          "Emergency fiber splice repair performed by network infrastructure team",
				Verified:             true,
				VerificationMethod:   "On-site speed test and 15-minute stability monitoring",
				CustomerSatisfaction: "Satisfied",
				FollowUpRequired:     false,
			},
			RelatedTickets: []string{"TKT-2024-006790", "TKT-2024-006791", "TKT-2024-006792"},
			InternalComments: []InternalComment{
				{CommentID: "CMT-001", Author: "Supervisor - Rachel Anderson", Timestamp: "2024-12-20T09:30:00Z", Content: "Mass outage event. Customer communication template activated. Prioritizing business customers for updates."},
			},
			Attachments: []Attachment{
				{AttachmentID: "ATT-001", FileName: "ont_status_photo.jpg", FileType: "image/jpeg", UploadedBy: "TECH-1547", UploadedDate: "2024-12-20T08:37:15Z", FileSize: "2.4 MB"},
				{AttachmentID: "ATT-002", FileName: "speed_test_results.pdf", FileType: "application/pdf", UploadedBy: "TECH-1547", UploadedDate: "2024-12-20T10:07:30Z", FileSize: "156 KB"},
			},
		},
		{
			TicketID:    "TKT-2024-007234",
			Status:      "Fix Being Applied",
			Priority:    "Medium",
			Category:    "Equipment",
			Subcategory: "Router Malfunction",
			Customer: TicketCustomer{
				CustomerID:     "CUST-332156",
				Name:           "Robert Chen",
				PhoneNumber:    "+1-555-0189",
				Email:          "r.chen@email.com",
				AccountNumber:  "ACC-776543",
				ServiceAddress: "892 Oak Avenue, Portland, OR 97201",
				ServiceType:    "Cable 200Mbps",
			},
			ProblemDescription: ProblemDescription{
				Short: "Router keeps rebooting randomly",
				Long:  "Customer reports WiFi router restarts on its own 3-4 times daily. Pattern noticed over past week. Each reboot causes 5-minute service interruption. Customer working from home - causing significant disruption to video calls.",
			},
			Timestamps: Timestamps{
				Created:       "2024-12-19T14:22:18Z",
				FirstResponse: strPtr("2024-12-19T14:35:45Z"),
				Assigned:      strPtr("2024-12-19T15:10:00Z"),
				InProgress:    strPtr("2024-12-19T16:20:30Z"),
			},
			SLA: SLA{
				ResponseTime:         "30 minutes",
				ResolutionTime:       "24 hours",
				ResponseTimeMet:      boolPtr(true),
				ActualResponseTime:   "13 minutes",
				ActualResolutionTime: "In Progress",
			},
			AssignedTechnicians: []Technician{
				{TechnicianID: "TECH-1892", Name: "Kevin Walsh", Role: "Field Technician Level 1", PhoneNumber: "+1-555-0221", AssignedDate: "2024-12-19T15:10:00Z", PrimaryTechnician: true},
			},
			TechnicianNotes: []TechnicianNote{
				{NoteID: "NOTE-001", TechnicianID: "TECH-1892", TechnicianName: "Kevin Walsh", Timestamp: "2024-12-19T16:25:40Z", NoteType: "Initial Assessment", Content: "Contacted customer via phone for remote troubleshooting. Reviewed router logs - detected overheating events correlating with reboot timestamps. Router model WR-3200 (known issue with this batch). Ambient temperature normal. Checked for firmware updates - customer on latest version. Recommended router replacement. Scheduling on-site visit for tomorrow."},
				{NoteID: "NOTE-002", TechnicianID: "TECH-1892", TechnicianName: "Kevin Walsh", Timestamp: "2024-12-20T09:45:12Z", NoteType: "Work in Progress", Content: "On-site visit in progress. Confirmed router running hot (measured 68°C vs normal 45°C). Ventilation appears adequate. Device manufacturing defect suspected. Installing replacement router model WR-3500 (upgraded model). Transferring configuration settings. Testing in progress."},
			},
			ResolutionDetails: &ResolutionDetails{
				RootCause:            "Hardware defect in router causing overheating and automatic safety reboots",
				ActionTaken:          "Router replacement with upgraded model in progress",
				Verified:             false,
				VerificationMethod:   "24-hour monitoring period required",
				CustomerSatisfaction: "Pending",
				FollowUpRequired:     true,
			},
			InternalComments: []InternalComment{
				{CommentID: "CMT-001", Author: "Equipment Manager - Tom Russell", Timestamp: "2024-12-19T17:00:00Z", Content: "WR-3200 batch 2024-Q2 has elevated defect rate. Consider proactive replacement campaign for remaining deployed units."},
			},
			Attachments: []Attachment{},
		},
		{
			TicketID:    "TKT-2024-008101",
			Status:      "Issue Identified",
			Priority:    "Low",
			Category:    "Billing",
			Subcategory: "Charge Dispute",
			Customer: TicketCustomer{
				CustomerID:     "CUST-221847",
				Name:           "Sandra Martinez",
				PhoneNumber:    "+1-555-0167",
				Email:          "sandra.m@email.com",
				AccountNumber:  "ACC-445122",
				ServiceAddress: "567 Pine Road, Austin, TX 78701",
				ServiceType:    "DSL 50Mbps",
			},
			ProblemDescription: ProblemDescription{
				Short: "Unexpected equipment charge on bill",
				Long:  "Customer questions $89.99 equipment charge on December bill. States she returned old modem to retail location on Nov 15 as instructed during service upgrade. Has receipt showing return was processed.",
			},
			Timestamps: Timestamps{
				Created:       "2024-12-18T11:40:22Z",
				FirstResponse: strPtr("2024-12-18T12:05:33Z"),
				Assigned:      strPtr("2024-12-18T13:20:00Z"),
				InProgress:    strPtr("2024-12-18T14:15:45Z"),
			},
			SLA: SLA{
				ResponseTime:         "2 hours",
				ResolutionTime:       "48 hours",
				ResponseTimeMet:      boolPtr(true),
				ActualResponseTime:   "25 minutes",
				ActualResolutionTime: "In Progress",
			},
			AssignedTechnicians: []Technician{
				{TechnicianID: "TECH-3401", Name: "Patricia Lewis", Role: "Billing Specialist", PhoneNumber: "+1-555-0245", AssignedDate: "2024-12-18T13:20:00Z", PrimaryTechnician: true},
			},
			TechnicianNotes: []TechnicianNote{
				{NoteID: "NOTE-001", TechnicianID: "TECH-3401", TechnicianName: "Patricia Lewis", Timestamp: "2024-12-18T14:20:18Z", NoteType: "Investigation", Content: "Reviewed customer account and return records. Customer returned modem model DM-150 (Serial: DM150-88234) to Austin Central retail location on 11/15/2024 at 2:34 PM. Return receipt confirmed. However, equipment return was not properly logged in billing system - clerk error suspected. Charge applied automatically after 30-day unreturned equipment period. Customer complaint valid."},
				{NoteID: "NOTE-002", TechnicianID: "TECH-3401", TechnicianName: "Patricia Lewis", Timestamp: "2024-12-19T10:10:55Z", NoteType: "Action Plan", Content: "Initiating credit reversal for $89.99 equipment charge. Processing refund to customer account - will appear on next billing cycle (Jan statement). Sending confirmation email to customer. Flagging retail location for staff retraining on proper return processing procedures. Adding note to prevent future auto-charges for this equipment serial number."},
			},
			ResolutionDetails: &ResolutionDetails{
				RootCause:            "Equipment return not properly recorded in billing system due to retail location clerk error",
				ActionTaken:          "Credit reversal initiated; staff retraining scheduled for retail location",
				Verified:             true,
				VerificationMethod:   "Return receipt validation and system audit",
				CustomerSatisfaction: "Pending",
				FollowUpRequired:     true,
			},
			InternalComments: []InternalComment{
				{CommentID: "CMT-001", Author: "Retail Operations Manager - James Porter", Timestamp: "2024-12-19T11:00:00Z", Content: "Austin Central location has had 3 similar incidents this month. Scheduling mandatory refresher training for all staff on return processing. Implementing double-check procedure."},
			},
			Attachments: []Attachment{
				{AttachmentID: "ATT-001", FileName: "return_receipt_11-15-2024.pdf", FileType: "application/pdf", UploadedBy: "Customer", UploadedDate: "2024-12-18T11:42:00Z", FileSize: "245 KB"},
			},
		},
	}
}
