package telco

import (
	"path/filepath"
	"testing"
)

func TestSQLiteTicketRepo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickets.db")

	repo, err := OpenSQLiteTicketRepo(path)
	if err != nil {
		t.Fatalf("OpenSQLiteTicketRepo() error: %v", err)
	}
	defer repo.Close()

	t.Run("seeded tickets are present", func(t *testing.T) {
		for _, id := range []string{"TKT-2024-006789", "TKT-2024-007234", "TKT-2024-008101"} {
			ticket, ok, err := repo.Get(id)
			if err != nil {
				t.Fatalf("Get(%s) error: %v", id, err)
			}
			if !ok {
				t.Fatalf("Get(%s) not found", id)
			}
			if ticket.TicketID != id {
				t.Errorf("TicketID = %q, want %q", ticket.TicketID, id)
			}
		}
	})

	t.Run("unknown id is a miss, not an error", func(t *testing.T) {
		_, ok, err := repo.Get("TKT-0000-000000")
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if ok {
			t.Error("expected miss for unknown id")
		}
	})

	t.Run("created tickets round-trip", func(t *testing.T) {
		created := &Ticket{
			TicketID: "TKT-2025-123456",
			Status:   "In-Review",
			Priority: "High",
			Customer: TicketCustomer{Name: "Jane Doe", PhoneNumber: "+1-555-0123"},
			ProblemDescription: ProblemDescription{
				Short: "No internet",
				Long:  "Internet down since morning",
			},
			SLA: SLA{ResponseTime: "30 minutes", ResolutionTime: "4 hours"},
		}
		if err := repo.Put(created); err != nil {
			t.Fatalf("Put() error: %v", err)
		}

		got, ok, err := repo.Get(created.TicketID)
		if err != nil || !ok {
			t.Fatalf("Get() after Put: ok=%v err=%v", ok, err)
		}
		if got.Customer.Name != "Jane Doe" || got.SLA.ResponseTime != "30 minutes" {
			t.Errorf("round-tripped ticket = %+v", got)
		}
	})

	t.Run("reopen does not duplicate seeds", func(t *testing.T) {
		repo.Close()
		reopened, err := OpenSQLiteTicketRepo(path)
		if err != nil {
			t.Fatalf("reopen error: %v", err)
		}
		defer reopened.Close()

		ticket, ok, err := reopened.Get("TKT-2025-123456")
		if err != nil || !ok {
			t.Fatalf("Get() after reopen: ok=%v err=%v", ok, err)
		}
		if ticket.Priority != "High" {
			t.Errorf("Priority = %q, want High", ticket.Priority)
		}
	})
}
