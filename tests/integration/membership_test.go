package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/stefanr/teamup-api/internal/models"
	"github.com/stefanr/teamup-api/internal/notify"
	"github.com/stefanr/teamup-api/internal/services"
	"github.com/stefanr/teamup-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestMembership_Integration_AddMember(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svcs := newTestServices(tdb)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	user := fixtures.CreateUser(t)
	team := fixtures.CreateTeam(t, owner.ID, 3)

	member, err := svcs.membership.AddMember(ctx, team.ID, user.ID, models.RoleMember)

	require.NoError(t, err)
	assert.Equal(t, user.ID, member.UserID)
	assert.Equal(t, models.RoleMember, member.Role)
	assert.Equal(t, 2, fixtures.CountMembers(t, team.ID))
}

func TestMembership_Integration_AddMember_Full(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svcs := newTestServices(tdb)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	team := fixtures.CreateTeam(t, owner.ID, 1)
	user := fixtures.CreateUser(t)

	_, err := svcs.membership.AddMember(ctx, team.ID, user.ID, models.RoleMember)

	assert.ErrorIs(t, err, services.ErrTeamFull)
	assert.Equal(t, 1, fixtures.CountMembers(t, team.ID))
}

func TestMembership_Integration_AddMember_AlreadyMember(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svcs := newTestServices(tdb)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	team := fixtures.CreateTeam(t, owner.ID, 3)

	_, err := svcs.membership.AddMember(ctx, team.ID, owner.ID, models.RoleMember)

	assert.ErrorIs(t, err, services.ErrAlreadyMember)
}

// Two users race for the last seat; exactly one insert may land.
func TestMembership_Integration_ConcurrentAddsRespectCapacity(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svcs := newTestServices(tdb)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	team := fixtures.CreateTeam(t, owner.ID, 2)

	users := make([]*models.User, 4)
	for i := range users {
		users[i] = fixtures.CreateUser(t)
	}

	var g errgroup.Group
	results := make([]error, len(users))
	for i, user := range users {
		i, user := i, user
		g.Go(func() error {
			_, err := svcs.membership.AddMember(ctx, team.ID, user.ID, models.RoleMember)
			results[i] = err
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var succeeded, full int
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, services.ErrTeamFull):
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 3, full)
	assert.Equal(t, 2, fixtures.CountMembers(t, team.ID))
}

func TestMembership_Integration_RemoveMember(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svcs := newTestServices(tdb)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	member := fixtures.CreateUser(t)
	team := fixtures.CreateTeam(t, owner.ID, 3)
	fixtures.SeatMember(t, team.ID, member.ID, models.RoleMember)

	err := svcs.membership.RemoveMember(ctx, team.ID, member.ID, owner.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, fixtures.CountMembers(t, team.ID))

	events := svcs.dispatcher.EventsOfKind(notify.KindMemberRemoved)
	require.Len(t, events, 1)
	assert.Equal(t, member.ID, events[0].TargetID)
}

func TestMembership_Integration_RemoveMember_OnlyOwner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svcs := newTestServices(tdb)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	member := fixtures.CreateUser(t)
	outsider := fixtures.CreateUser(t)
	team := fixtures.CreateTeam(t, owner.ID, 3)
	fixtures.SeatMember(t, team.ID, member.ID, models.RoleMember)

	err := svcs.membership.RemoveMember(ctx, team.ID, member.ID, outsider.ID)
	assert.ErrorIs(t, err, services.ErrNotAuthorized)

	err = svcs.membership.RemoveMember(ctx, team.ID, owner.ID, owner.ID)
	assert.ErrorIs(t, err, services.ErrCannotRemoveOwner)

	assert.Equal(t, 2, fixtures.CountMembers(t, team.ID))
}

// Seat freed by removal can be refilled; the capacity check always runs
// against the live count.
func TestMembership_Integration_RemovalFreesSeat(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	fixtures := testutil.NewFixtures(tdb.DB)
	svcs := newTestServices(tdb)
	ctx := context.Background()

	owner := fixtures.CreateUser(t)
	first := fixtures.CreateUser(t)
	second := fixtures.CreateUser(t)
	team := fixtures.CreateTeam(t, owner.ID, 2)
	fixtures.SeatMember(t, team.ID, first.ID, models.RoleMember)

	_, err := svcs.membership.AddMember(ctx, team.ID, second.ID, models.RoleMember)
	assert.ErrorIs(t, err, services.ErrTeamFull)

	require.NoError(t, svcs.membership.RemoveMember(ctx, team.ID, first.ID, owner.ID))

	_, err = svcs.membership.AddMember(ctx, team.ID, second.ID, models.RoleMember)
	require.NoError(t, err)
	assert.Equal(t, 2, fixtures.CountMembers(t, team.ID))
}
