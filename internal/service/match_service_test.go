package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quickcourt/internal/models"
	"quickcourt/internal/repository/postgres"
)

type fakeMatchRepo struct {
	matches      map[string]*models.Match
	participants map[string]bool
	seq          int
}

func (r *fakeMatchRepo) FindByID(_ context.Context, id string) (*models.Match, error) {
	m, ok := r.matches[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMatchRepo) ListOpen(_ context.Context) ([]models.Match, error) {
	var out []models.Match
	for _, m := range r.matches {
		if m.Status == models.MatchOpen {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) ListByCreator(_ context.Context, creatorID string) ([]models.Match, error) {
	var out []models.Match
	for _, m := range r.matches {
		if m.CreatorID == creatorID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) Create(_ context.Context, match *models.Match) error {
	r.seq++
	if match.ID == "" {
		match.ID = "match-" + string(rune('a'+r.seq))
	}
	copied := *match
	r.matches[match.ID] = &copied
	return nil
}

func (r *fakeMatchRepo) Update(_ context.Context, match *models.Match) error {
	copied := *match
	r.matches[match.ID] = &copied
	return nil
}

func (r *fakeMatchRepo) AddParticipant(_ context.Context, p *models.MatchParticipant) error {
	key := p.MatchID + "/" + p.UserID
	if r.participants[key] {
		return postgres.ErrDuplicate
	}
	r.participants[key] = true
	return nil
}

func newMatchFixture() (*MatchService, *fakeMatchRepo) {
	courts := &fakeCourtRepo{courts: map[string]*models.Court{
		"court-1": {BaseModel: models.BaseModel{ID: "court-1"}, FacilityID: "fac-1", Name: "Court 1", SportType: models.SportFootball, PricePerHour: 30},
	}}
	matches := &fakeMatchRepo{
		matches:      make(map[string]*models.Match),
		participants: make(map[string]bool),
	}
	return NewMatchService(matches, courts, zap.NewNop()), matches
}

func TestMatchLifecycle(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	creator := testUser("creator", models.RoleUser)

	newMatch := func(maxPlayers int) *models.Match {
		return &models.Match{
			CourtID:    "court-1",
			Date:       date,
			StartTime:  "18:00",
			EndTime:    "19:00",
			MaxPlayers: maxPlayers,
		}
	}

	t.Run("create opens the match with the creator counted", func(t *testing.T) {
		svc, _ := newMatchFixture()
		m := newMatch(4)
		require.NoError(t, svc.CreateMatch(ctx, creator, m))
		assert.Equal(t, models.MatchOpen, m.Status)
		assert.Equal(t, 1, m.CurrentPlayers)
		assert.Equal(t, "creator", m.CreatorID)
	})

	t.Run("join fills up and closes the match", func(t *testing.T) {
		svc, _ := newMatchFixture()
		m := newMatch(3)
		require.NoError(t, svc.CreateMatch(ctx, creator, m))

		joined, err := svc.JoinMatch(ctx, testUser("p2", models.RoleUser), m.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, joined.CurrentPlayers)
		assert.Equal(t, models.MatchOpen, joined.Status)

		full, err := svc.JoinMatch(ctx, testUser("p3", models.RoleUser), m.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, full.CurrentPlayers)
		assert.Equal(t, models.MatchFull, full.Status)

		_, err = svc.JoinMatch(ctx, testUser("p4", models.RoleUser), m.ID)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("creator cannot join twice", func(t *testing.T) {
		svc, repo := newMatchFixture()
		m := newMatch(4)
		require.NoError(t, svc.CreateMatch(ctx, creator, m))
		_, err := svc.JoinMatch(ctx, creator, m.ID)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Equal(t, 1, repo.matches[m.ID].CurrentPlayers)
	})

	t.Run("a player cannot join the same match twice", func(t *testing.T) {
		svc, repo := newMatchFixture()
		m := newMatch(4)
		require.NoError(t, svc.CreateMatch(ctx, creator, m))

		player := testUser("p2", models.RoleUser)
		_, err := svc.JoinMatch(ctx, player, m.ID)
		require.NoError(t, err)

		_, err = svc.JoinMatch(ctx, player, m.ID)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Equal(t, 2, repo.matches[m.ID].CurrentPlayers)
	})

	t.Run("only the creator or an admin cancels", func(t *testing.T) {
		svc, _ := newMatchFixture()
		m := newMatch(4)
		require.NoError(t, svc.CreateMatch(ctx, creator, m))

		assert.ErrorIs(t, svc.CancelMatch(ctx, testUser("p2", models.RoleUser), m.ID), ErrForbidden)
		assert.NoError(t, svc.CancelMatch(ctx, testUser("root", models.RoleAdmin), m.ID))
	})

	t.Run("cancelled matches leave the open listing", func(t *testing.T) {
		svc, _ := newMatchFixture()
		m := newMatch(4)
		require.NoError(t, svc.CreateMatch(ctx, creator, m))
		require.NoError(t, svc.CancelMatch(ctx, creator, m.ID))

		open, err := svc.ListOpenMatches(ctx)
		require.NoError(t, err)
		assert.Empty(t, open)
	})

	t.Run("needs at least two players", func(t *testing.T) {
		svc, _ := newMatchFixture()
		m := newMatch(1)
		assert.ErrorIs(t, svc.CreateMatch(ctx, creator, m), ErrInvalidInput)
	})
}

func TestFacilityAuthorization(t *testing.T) {
	ctx := context.Background()
	facilities := &fakeFacilityRepo{facilities: map[string]*models.Facility{
		"fac-1": {BaseModel: models.BaseModel{ID: "fac-1"}, OwnerID: "owner-1", Name: "Arena", Address: "1 Main St", City: "Pune", State: "MH", ZipCode: "411001"},
	}}
	courts := &fakeCourtRepo{courts: make(map[string]*models.Court)}
	svc := NewFacilityService(facilities, courts, zap.NewNop())

	owner := testUser("owner-1", models.RoleFacilityOwner)
	stranger := testUser("owner-2", models.RoleFacilityOwner)
	plain := testUser("u1", models.RoleUser)

	t.Run("plain users cannot create facilities", func(t *testing.T) {
		err := svc.CreateFacility(ctx, plain, &models.Facility{Name: "X", Address: "Y", City: "Z"})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("only the owner mutates their venue", func(t *testing.T) {
		err := svc.UpdateFacility(ctx, stranger, &models.Facility{BaseModel: models.BaseModel{ID: "fac-1"}, Name: "Taken"})
		assert.ErrorIs(t, err, ErrForbidden)

		err = svc.UpdateFacility(ctx, owner, &models.Facility{BaseModel: models.BaseModel{ID: "fac-1"}, Name: "Renamed", Address: "1 Main St", City: "Pune", State: "MH", ZipCode: "411001"})
		assert.NoError(t, err)
	})

	t.Run("admin overrides ownership", func(t *testing.T) {
		err := svc.DeleteFacility(ctx, testUser("root", models.RoleAdmin), "fac-1")
		assert.NoError(t, err)
	})
}

type fakeFacilityRepo struct {
	facilities map[string]*models.Facility
}

func (r *fakeFacilityRepo) FindByID(_ context.Context, id string) (*models.Facility, error) {
	f, ok := r.facilities[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	copied := *f
	return &copied, nil
}

func (r *fakeFacilityRepo) List(_ context.Context) ([]models.Facility, error) {
	var out []models.Facility
	for _, f := range r.facilities {
		out = append(out, *f)
	}
	return out, nil
}

func (r *fakeFacilityRepo) ListByOwner(_ context.Context, ownerID string) ([]models.Facility, error) {
	var out []models.Facility
	for _, f := range r.facilities {
		if f.OwnerID == ownerID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFacilityRepo) Create(_ context.Context, facility *models.Facility) error {
	if facility.ID == "" {
		facility.ID = "fac-" + facility.Name
	}
	copied := *facility
	r.facilities[facility.ID] = &copied
	return nil
}

func (r *fakeFacilityRepo) Update(_ context.Context, facility *models.Facility) error {
	if _, ok := r.facilities[facility.ID]; !ok {
		return postgres.ErrNotFound
	}
	copied := *facility
	r.facilities[facility.ID] = &copied
	return nil
}

func (r *fakeFacilityRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.facilities[id]; !ok {
		return postgres.ErrNotFound
	}
	delete(r.facilities, id)
	return nil
}
