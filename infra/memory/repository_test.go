package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"lostfound/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func newTestRepository() *Repository {
	var mu sync.Mutex
	n := 0
	return NewRepository(
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			mu.Lock()
			defer mu.Unlock()
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
}

func report(city string, reward int64) domain.Report {
	return domain.Report{
		FullName:     "Jane Doe",
		PhoneNumber:  "555-0100",
		Email:        "jane@example.com",
		City:         city,
		Country:      "France",
		Description:  "Lost brown backpack",
		RewardAmount: decimal.NewFromInt(reward),
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()

	item, err := repo.Create(ctx, report("Paris", 50))
	require.NoError(t, err)

	assert.Equal(t, "id-1", item.ID)
	assert.Equal(t, domain.StatusPending, item.Status)
	assert.Equal(t, fixedNow, item.ReportedAt)
	assert.True(t, decimal.NewFromInt(50).Equal(item.RewardAmount))
	assert.Empty(t, item.Sightings)
	assert.Empty(t, item.Comments)

	n, err := repo.CountItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCreate_ValidationLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()

	bad := report("", 10)
	_, err := repo.Create(ctx, bad)
	assert.Equal(t, "city", domain.ValidationField(err))

	_, err = repo.Create(ctx, report("Paris", -5))
	assert.Equal(t, "rewardAmount", domain.ValidationField(err))

	n, _ := repo.CountItems(ctx)
	assert.Zero(t, n)
}

func TestCreate_RegeneratesCollidingID(t *testing.T) {
	ctx := context.Background()
	ids := []string{"dup", "dup", "fresh"}
	repo := NewRepository(WithIDGenerator(func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}))

	first, err := repo.Create(ctx, report("Paris", 1))
	require.NoError(t, err)
	second, err := repo.Create(ctx, report("Lyon", 1))
	require.NoError(t, err)

	assert.Equal(t, "dup", first.ID)
	assert.Equal(t, "fresh", second.ID)
}

func TestListItems_InsertionOrderAndSnapshots(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()
	for _, city := range []string{"Paris", "Lyon", "Nice"} {
		_, err := repo.Create(ctx, report(city, 0))
		require.NoError(t, err)
	}

	items, err := repo.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Paris", items[0].City)
	assert.Equal(t, "Nice", items[2].City)

	items[0].City = "mutated"
	items[0].Comments = append(items[0].Comments, domain.Comment{ID: "x"})

	again, _ := repo.GetItem(ctx, items[0].ID)
	assert.Equal(t, "Paris", again.City)
	assert.Empty(t, again.Comments)
}

func TestSetStatus_AnyTransition(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()
	item, _ := repo.Create(ctx, report("Paris", 0))

	for _, status := range []domain.Status{domain.StatusApproved, domain.StatusRejected, domain.StatusApproved, domain.StatusApproved} {
		got, err := repo.SetStatus(ctx, item.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, got.Status)
	}

	_, err := repo.SetStatus(ctx, item.ID, domain.StatusPending)
	assert.True(t, domain.IsValidation(err))

	got, _ := repo.GetItem(ctx, item.ID)
	assert.Equal(t, domain.StatusApproved, got.Status)
}

func TestUnknownID_NotFoundAndStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()
	_, _ = repo.Create(ctx, report("Paris", 0))
	before, _ := repo.ListItems(ctx)

	_, err := repo.GetItem(ctx, "nope")
	assert.True(t, domain.IsNotFound(err))
	_, err = repo.SetStatus(ctx, "nope", domain.StatusApproved)
	assert.True(t, domain.IsNotFound(err))
	_, err = repo.AddReaction(ctx, "nope", domain.ReactionHeart)
	assert.True(t, domain.IsNotFound(err))
	_, err = repo.AddComment(ctx, "nope", "a@b.c", "hi")
	assert.True(t, domain.IsNotFound(err))
	_, err = repo.AddSighting(ctx, "nope", domain.SightingInput{})
	assert.True(t, domain.IsNotFound(err))

	after, _ := repo.ListItems(ctx)
	assert.Equal(t, before, after)
}

func TestAddSighting(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()
	item, _ := repo.Create(ctx, report("Paris", 0))

	got, err := repo.AddSighting(ctx, item.ID, domain.SightingInput{
		ReporterEmail: "walker@example.com",
		Location:      "Jardin du Luxembourg",
		Notes:         "On a bench near the fountain",
	})
	require.NoError(t, err)
	require.Len(t, got.Sightings, 1)
	s := got.Sightings[0]
	assert.Equal(t, "walker", s.ReportedBy)
	assert.Equal(t, fixedNow, s.ReportedAt)
	// sightings are accepted on pending items too
	assert.Equal(t, domain.StatusPending, got.Status)

	_, err = repo.AddSighting(ctx, item.ID, domain.SightingInput{ReporterEmail: "w@example.com", Location: "x"})
	assert.Equal(t, "notes", domain.ValidationField(err))
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()
	item, _ := repo.Create(ctx, report("Paris", 0))

	_, err := repo.AddComment(ctx, item.ID, "ann@example.com", "first")
	require.NoError(t, err)
	got, err := repo.AddComment(ctx, item.ID, "bob@example.com", "second")
	require.NoError(t, err)

	require.Len(t, got.Comments, 2)
	assert.Equal(t, "ann", got.Comments[0].Author)
	assert.Equal(t, "second", got.Comments[1].Content)
	assert.NotEqual(t, got.Comments[0].ID, got.Comments[1].ID)

	_, err = repo.AddComment(ctx, item.ID, "bob@example.com", "   ")
	assert.Equal(t, "content", domain.ValidationField(err))

	final, _ := repo.GetItem(ctx, item.ID)
	assert.Len(t, final.Comments, 2)
}

func TestAddReaction(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()
	item, _ := repo.Create(ctx, report("Paris", 0))

	for i := 0; i < 3; i++ {
		_, err := repo.AddReaction(ctx, item.ID, domain.ReactionSupport)
		require.NoError(t, err)
	}

	_, err := repo.AddReaction(ctx, item.ID, "laugh")
	assert.Equal(t, "kind", domain.ValidationField(err))

	got, _ := repo.GetItem(ctx, item.ID)
	assert.Equal(t, domain.Reactions{Support: 3}, got.Reactions)
}

func TestAddReaction_Concurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	a, _ := repo.Create(ctx, report("Paris", 0))
	b, _ := repo.Create(ctx, report("Lyon", 0))

	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_, _ = repo.AddReaction(ctx, a.ID, domain.ReactionHeart)
		}()
		go func() {
			defer wg.Done()
			_, _ = repo.AddReaction(ctx, b.ID, domain.ReactionPray)
		}()
		go func() {
			defer wg.Done()
			_, _ = repo.AddComment(ctx, a.ID, "c@example.com", "seen")
		}()
	}
	wg.Wait()

	gotA, _ := repo.GetItem(ctx, a.ID)
	gotB, _ := repo.GetItem(ctx, b.ID)
	assert.Equal(t, uint64(n), gotA.Reactions.Heart)
	assert.Len(t, gotA.Comments, n)
	assert.Equal(t, uint64(n), gotB.Reactions.Pray)
}

func TestModerationRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()

	visible := func(role domain.Role, filter domain.StatusFilter) []domain.Item {
		items, err := repo.ListItems(ctx)
		require.NoError(t, err)
		return domain.VisibleTo(role, items, filter)
	}

	a, err := repo.Create(ctx, report("Paris", 50))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, a.Status)
	assert.Empty(t, visible(domain.RoleUser, domain.FilterAll))

	_, err = repo.SetStatus(ctx, a.ID, domain.StatusApproved)
	require.NoError(t, err)
	require.Len(t, visible(domain.RoleUser, domain.FilterAll), 1)
	require.Len(t, visible(domain.RoleAdmin, domain.FilterAll), 1)
	require.Len(t, visible(domain.RoleAdmin, domain.FilterApproved), 1)
	assert.Equal(t, a.ID, visible(domain.RoleAdmin, domain.FilterApproved)[0].ID)
	assert.Empty(t, visible(domain.RoleAdmin, domain.FilterPending))

	_, err = repo.AddSighting(ctx, a.ID, domain.SightingInput{
		ReporterName:  "Sam",
		ReporterEmail: "sam@example.com",
		Location:      "Metro station",
		Notes:         "Seen near the ticket machines",
	})
	require.NoError(t, err)

	_, err = repo.AddReaction(ctx, a.ID, domain.ReactionHeart)
	require.NoError(t, err)
	got, err := repo.AddReaction(ctx, a.ID, domain.ReactionHeart)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), got.Reactions.Heart)

	rejected, err := repo.SetStatus(ctx, a.ID, domain.StatusRejected)
	require.NoError(t, err)
	assert.Empty(t, visible(domain.RoleUser, domain.FilterAll))
	assert.Len(t, visible(domain.RoleAdmin, domain.FilterRejected), 1)

	require.Len(t, rejected.Sightings, 1)
	assert.Equal(t, "Metro station", rejected.Sightings[0].Location)
	assert.Equal(t, domain.Reactions{Heart: 2}, rejected.Reactions)

	stored, err := repo.GetItem(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, rejected, stored)
}
