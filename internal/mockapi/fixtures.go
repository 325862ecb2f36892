package mockapi

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/propdesk/propdesk/internal/domain"
)

// SeedProperties appends properties to the /properties listing.
func (s *Server) SeedProperties(props ...domain.Property) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.properties = append(s.properties, props...)
}

// SeedOffPlan appends properties to the /off-plan listing.
func (s *Server) SeedOffPlan(props ...domain.Property) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.offPlan = append(s.offPlan, props...)
}

// SeedDrafts stores drafts as given, ids included.
func (s *Server) SeedDrafts(drafts ...domain.Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range drafts {
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		if _, ok := s.drafts[d.ID]; !ok {
			s.draftOrder = append(s.draftOrder, d.ID)
		}
		s.drafts[d.ID] = d
	}
}

// SeedPasswords stores vault entries.
func (s *Server) SeedPasswords(entries ...domain.PasswordEntry) {
	for _, e := range entries {
		s.passwords.add(e)
	}
}

// SeedWatermarks stores watermarks.
func (s *Server) SeedWatermarks(marks ...domain.Watermark) {
	for _, m := range marks {
		s.watermarks.add(m)
	}
}

// Draft returns a stored draft.
func (s *Server) Draft(id string) (domain.Draft, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[id]
	return d, ok
}

// Properties returns a copy of the /properties data.
func (s *Server) Properties() []domain.Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Property, len(s.properties))
	copy(out, s.properties)
	return out
}

var (
	fixtureLocations = []string{"Dubai Marina", "Palm Jumeirah", "Downtown", "Business Bay", "JVC", "Arabian Ranches"}
	residentialTypes = []string{"Villa", "Apartment", "Townhouse", "Penthouse"}
	commercialTypes  = []string{"Office", "Retail", "Warehouse"}
	fixtureStatuses  = []string{domain.StatusAvailable, domain.StatusAvailable, domain.StatusReserved, domain.StatusSold, domain.StatusRented}
	fixtureAgents    = []string{"agent-1", "agent-2", "agent-3", "agent-4"}
)

// Fixtures generates n pseudo-random properties. The same seed always
// yields the same data.
func Fixtures(n int, seed int64) []domain.Property {
	rng := rand.New(rand.NewSource(seed))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	out := make([]domain.Property, n)
	for i := range out {
		category := domain.CategoryResidential
		types := residentialTypes
		if rng.Intn(4) == 0 {
			category = domain.CategoryCommercial
			types = commercialTypes
		}
		purpose := domain.PurposeSale
		price := float64(200+rng.Intn(4800)) * 1000
		if rng.Intn(3) == 0 {
			purpose = domain.PurposeRent
			price = float64(30+rng.Intn(270)) * 1000
		}
		ptype := types[rng.Intn(len(types))]
		loc := fixtureLocations[rng.Intn(len(fixtureLocations))]
		created := base.Add(time.Duration(i) * 6 * time.Hour)

		out[i] = domain.Property{
			ID:           uuidFromRand(rng),
			Reference:    fmt.Sprintf("PD-%05d", i+1),
			Title:        fmt.Sprintf("%s in %s", ptype, loc),
			Category:     category,
			Purpose:      purpose,
			PropertyType: ptype,
			Location:     loc,
			Price:        price,
			Area:         float64(50 + rng.Intn(950)),
			Status:       fixtureStatuses[rng.Intn(len(fixtureStatuses))],
			PermitNumber: fmt.Sprintf("%010d", rng.Int63n(1e10)),
			AgentID:      fixtureAgents[rng.Intn(len(fixtureAgents))],
			CreatedAt:    created.Format(time.RFC3339),
			UpdatedAt:    created.Add(time.Duration(rng.Intn(72)) * time.Hour).Format(time.RFC3339),
		}
	}
	return out
}

func uuidFromRand(rng *rand.Rand) string {
	var b [16]byte
	rng.Read(b[:])
	id, _ := uuid.FromBytes(b[:])
	// stamp version 4 / RFC 4122 variant bits
	id[6] = (id[6] & 0x0f) | 0x40
	id[8] = (id[8] & 0x3f) | 0x80
	return id.String()
}

// Seed fills the server with a demo dataset derived from seed.
func (s *Server) Seed(seed int64) {
	props := Fixtures(60, seed)
	s.SeedProperties(props...)
	s.SeedOffPlan(offPlanFixtures(Fixtures(15, seed+1))...)
	s.SeedDrafts(domain.Draft{
		ID:        "draft-demo",
		Data:      map[string]any{"propertyTitle": "Unfinished listing", "location": "JVC"},
		UpdatedAt: s.timestamp(),
	})
	s.SeedPasswords(domain.PasswordEntry{Title: "Listing portal", Username: "ops@propdesk.example", Password: "changeme", URL: "https://portal.example"})
	s.SeedWatermarks(domain.Watermark{Name: "Brand logo", ImageURL: "/static/logo.png", Position: "bottom-right", Opacity: 0.4})
}

func offPlanFixtures(props []domain.Property) []domain.Property {
	for i := range props {
		props[i].Reference = fmt.Sprintf("OP-%05d", i+1)
		props[i].Purpose = domain.PurposeSale
		props[i].Title = "Off-plan " + props[i].Title
	}
	return props
}
