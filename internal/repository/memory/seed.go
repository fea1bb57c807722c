package memory

import (
	"time"

	"github.com/kirinyoku/courtgo/internal/domain"
	"github.com/shopspring/decimal"
)

type Seed struct {
	Courts   []domain.Court
	Users    []domain.User
	Sessions []domain.Session
}

// DefaultSeed builds the demo catalog and the three open sessions every process
// starts with. Session times are relative to now.
func DefaultSeed(now time.Time) Seed {
	courts := []domain.Court{
		{
			ID:          "court1",
			Name:        "Center Court",
			Description: "Our premier court with stadium seating",
			ImageURL:    "/images/courts/center-court.jpg",
			HourlyRate:  decimal.NewFromInt(40),
			IsIndoor:    false,
			Surface:     "Hard",
			Location:    "Main Facility",
		},
		{
			ID:          "court2",
			Name:        "Indoor Court 1",
			Description: "Climate controlled indoor court",
			ImageURL:    "/images/courts/indoor-court.jpg",
			HourlyRate:  decimal.NewFromInt(35),
			IsIndoor:    true,
			Surface:     "Hard",
			Location:    "Main Facility",
		},
		{
			ID:          "court3",
			Name:        "Clay Court",
			Description: "Professional clay surface",
			ImageURL:    "/images/courts/clay-court.jpg",
			HourlyRate:  decimal.NewFromInt(45),
			IsIndoor:    false,
			Surface:     "Clay",
			Location:    "East Wing",
		},
	}

	users := []domain.User{
		{ID: "user1", Name: "John Doe", Email: "john@example.com", Image: "/images/avatars/john.jpg"},
		{ID: "user2", Name: "Jane Smith", Email: "jane@example.com", Image: "/images/avatars/jane.jpg"},
		{ID: "user3", Name: "Bob Wilson", Email: "bob@example.com", Image: "/images/avatars/bob.jpg"},
	}

	now = now.UTC().Truncate(time.Second)
	day := 24 * time.Hour

	sessions := []domain.Session{
		{
			ID:          "session1",
			CourtID:     "court1",
			Court:       &courts[0],
			CreatorID:   "user1",
			Creator:     &users[0],
			StartTime:   now.Add(day),
			EndTime:     now.Add(day + 2*time.Hour),
			TotalCost:   decimal.NewFromInt(80),
			MaxPlayers:  4,
			Description: "Casual doubles game, all skill levels welcome!",
			Status:      domain.SessionOpen,
			Participants: []domain.Participant{
				{ID: "participant1", UserID: "user1", UserName: "John Doe", HasPaid: true},
			},
		},
		{
			ID:          "session2",
			CourtID:     "court2",
			Court:       &courts[1],
			CreatorID:   "user2",
			Creator:     &users[1],
			StartTime:   now.Add(2 * day),
			EndTime:     now.Add(2*day + 90*time.Minute),
			TotalCost:   decimal.RequireFromString("52.5"),
			MaxPlayers:  2,
			Description: "Singles practice match, intermediate level",
			Status:      domain.SessionOpen,
			Participants: []domain.Participant{
				{ID: "participant2", UserID: "user2", UserName: "Jane Smith", HasPaid: true},
			},
		},
		{
			ID:          "session3",
			CourtID:     "court3",
			Court:       &courts[2],
			CreatorID:   "user3",
			Creator:     &users[2],
			StartTime:   now.Add(3 * day),
			EndTime:     now.Add(3*day + 2*time.Hour),
			TotalCost:   decimal.NewFromInt(90),
			MaxPlayers:  4,
			Description: "Clay court experience, doubles game",
			Status:      domain.SessionOpen,
			Participants: []domain.Participant{
				{ID: "participant3", UserID: "user3", UserName: "Bob Wilson", HasPaid: true},
				{ID: "participant4", UserID: "user1", UserName: "John Doe", HasPaid: true},
			},
		},
	}

	return Seed{Courts: courts, Users: users, Sessions: sessions}
}
