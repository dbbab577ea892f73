package demo

import "testing"

// Fallback payloads must stay internally consistent: officers named on demo
// complaints and work orders must exist in the demo directory and team list.
func TestOfficerNamesResolveToDemoUsers(t *testing.T) {
	officials := map[string]bool{}
	for _, u := range Users() {
		if u.Role == "official" {
			officials[u.Name] = true
		}
	}

	for _, c := range append(MyComplaints(), AllComplaints()...) {
		if c.OfficerName == "" {
			continue
		}
		if !officials[c.OfficerName] {
			t.Errorf("complaint %s references unknown officer %q", c.ComplaintNumber, c.OfficerName)
		}
	}
	if !officials[SubmittedComplaint().OfficerName] {
		t.Errorf("placeholder complaint references unknown officer %q", SubmittedComplaint().OfficerName)
	}
}

func TestWorkOrdersReferenceKnownTeamsAndComplaints(t *testing.T) {
	teams := map[string]bool{}
	for _, tm := range Teams() {
		teams[tm.ID] = true
	}
	complaints := map[string]bool{}
	for _, c := range AllComplaints() {
		complaints[c.ID] = true
	}

	for _, wo := range WorkOrders() {
		if !teams[wo.TeamID] {
			t.Errorf("work order %s references unknown team %q", wo.ID, wo.TeamID)
		}
		if !complaints[wo.ComplaintID] {
			t.Errorf("work order %s references unknown complaint %q", wo.ID, wo.ComplaintID)
		}
	}
}

func TestDetectionIsDeterministicApartFromID(t *testing.T) {
	a, b := Detection(), Detection()
	a.DetectionID, b.DetectionID = "", ""
	if a != b {
		t.Fatalf("fallback detection content must be stable: %#v vs %#v", a, b)
	}
	if Detection().DetectionID == "" {
		t.Fatal("fallback detection must carry an id")
	}
}

func TestStatsAddUp(t *testing.T) {
	s := Stats()
	if s.Pending+s.InProgress+s.Resolved != s.Total {
		t.Fatalf("stat counters must add up to total: %+v", s)
	}
	if len(Trends()) != 7 {
		t.Fatalf("expected a full week of trend data, got %d days", len(Trends()))
	}
}
