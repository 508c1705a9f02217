package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/resiembra/resiembra/internal/common"
	"github.com/resiembra/resiembra/internal/logging"
	"github.com/resiembra/resiembra/internal/models"
	"github.com/resiembra/resiembra/internal/store/repomanager"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// The repositories issue portable SQL, so the workflow tests run against an
// in-memory SQLite database with real transactions.
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE users (
  id TEXT PRIMARY KEY,
  display_name TEXT NOT NULL DEFAULT '',
  push_token TEXT,
  admin BOOLEAN NOT NULL DEFAULT FALSE
);
CREATE TABLE campaigns (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL DEFAULT ''
);
CREATE TABLE campaign_participants (
  campaign_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  PRIMARY KEY (campaign_id, user_id)
);
CREATE TABLE sowing_logs (
  id TEXT PRIMARY KEY,
  species_id TEXT NOT NULL DEFAULT '',
  team_id TEXT NOT NULL DEFAULT '',
  campaign_id TEXT NOT NULL DEFAULT '',
  lat DOUBLE PRECISION,
  lng DOUBLE PRECISION,
  acc DOUBLE PRECISION,
  hole_count INTEGER NOT NULL DEFAULT 0,
  seeds_per_hole INTEGER NOT NULL DEFAULT 0,
  notes TEXT NOT NULL DEFAULT '',
  photo TEXT,
  photo_url TEXT,
  owner_id TEXT,
  synced BOOLEAN NOT NULL DEFAULT FALSE,
  created_at TIMESTAMP NOT NULL
);
CREATE TABLE claim_requests (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  log_ids TEXT NOT NULL,
  campaign_ids TEXT NOT NULL,
  status TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

type sentNote struct {
	token, title, body string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNote
	err  error
}

func (n *fakeNotifier) Send(ctx context.Context, token, title, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentNote{token, title, body})
	return nil
}

type fixture struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	notifier *fakeNotifier
	svc      *ClaimService
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db := setupDB(t)
	repos := repomanager.NewPostgresRepositoryManager()
	notifier := &fakeNotifier{}
	return &fixture{
		db:       db,
		repos:    repos,
		notifier: notifier,
		svc:      NewClaimService(db, repos, notifier, testLogger()),
	}
}

func (f *fixture) seedUser(t *testing.T, id string, admin bool, pushToken string) {
	t.Helper()
	var token any
	if pushToken != "" {
		token = pushToken
	}
	_, err := f.db.Exec(`INSERT INTO users (id, admin, push_token) VALUES ($1, $2, $3)`, id, admin, token)
	require.NoError(t, err)
}

func (f *fixture) seedCampaign(t *testing.T, id string) {
	t.Helper()
	_, err := f.db.Exec(`INSERT INTO campaigns (id, name) VALUES ($1, $2)`, id, "Campaign "+id)
	require.NoError(t, err)
}

func (f *fixture) seedOrphan(t *testing.T, id, campaignID string) {
	t.Helper()
	rec := &models.SowingRecord{
		ID:         id,
		CampaignID: campaignID,
		HoleCount:  3,
		CreatedAt:  time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.repos.Records(f.db).Create(context.Background(), rec))
}

func (f *fixture) owner(t *testing.T, recordID string) *string {
	t.Helper()
	rec, err := f.repos.Records(f.db).GetByID(context.Background(), recordID)
	require.NoError(t, err)
	return rec.OwnerID
}

func (f *fixture) participants(t *testing.T, campaignID string) []string {
	t.Helper()
	p, err := f.repos.Campaigns(f.db).Participants(context.Background(), campaignID)
	require.NoError(t, err)
	return p
}

func TestSubmit_DerivesCampaignsInOrderOfFirstAppearance(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.seedCampaign(t, "c1")
	f.seedCampaign(t, "c2")
	f.seedOrphan(t, "r1", "c2")
	f.seedOrphan(t, "r2", "c1")
	f.seedOrphan(t, "r3", "c2")
	f.seedOrphan(t, "r4", "")

	req, err := f.svc.Submit(ctx, "u1", []string{"r1", "r2", "r3", "r4"})
	require.NoError(t, err)

	assert.Equal(t, models.ClaimPending, req.Status)
	assert.Equal(t, []string{"c2", "c1"}, req.CampaignIDs)

	stored, err := f.repos.Claims(f.db).GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2", "r3", "r4"}, stored.LogIDs)
	assert.Equal(t, []string{"c2", "c1"}, stored.CampaignIDs)
}

func TestSubmit_EmptyClaimRejected(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Submit(context.Background(), "u1", nil)
	require.ErrorIs(t, err, common.ErrEmptyClaim)
}

func TestSubmit_UnknownRecordFails(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Submit(context.Background(), "u1", []string{"ghost"})
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestReview_ApprovalAssignsOwnershipAndParticipants(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.seedUser(t, "admin", true, "")
	f.seedUser(t, "u1", false, "tok-u1")
	f.seedCampaign(t, "c1")
	f.seedOrphan(t, "r1", "c1")
	f.seedOrphan(t, "r2", "c1")

	req, err := f.svc.Submit(ctx, "u1", []string{"r1", "r2"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Review(ctx, "admin", req.ID, models.ClaimApproved))

	for _, id := range []string{"r1", "r2"} {
		owner := f.owner(t, id)
		require.NotNil(t, owner)
		assert.Equal(t, "u1", *owner)
	}
	assert.Equal(t, []string{"u1"}, f.participants(t, "c1"))

	stored, err := f.repos.Claims(f.db).GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimApproved, stored.Status)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "tok-u1", f.notifier.sent[0].token)
	assert.Equal(t, "Claim approved", f.notifier.sent[0].title)
}

func TestReview_RejectionHasNoSideEffects(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.seedUser(t, "admin", true, "")
	f.seedUser(t, "u1", false, "tok-u1")
	f.seedCampaign(t, "c1")
	f.seedOrphan(t, "r1", "c1")

	req, err := f.svc.Submit(ctx, "u1", []string{"r1"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Review(ctx, "admin", req.ID, models.ClaimRejected))

	assert.Nil(t, f.owner(t, "r1"))
	assert.Empty(t, f.participants(t, "c1"))

	stored, err := f.repos.Claims(f.db).GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimRejected, stored.Status)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "Claim rejected", f.notifier.sent[0].title)
}

func TestReview_NonAdminDenied(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.seedUser(t, "mortal", false, "")
	f.seedUser(t, "u1", false, "")
	f.seedOrphan(t, "r1", "")

	req, err := f.svc.Submit(ctx, "u1", []string{"r1"})
	require.NoError(t, err)

	err = f.svc.Review(ctx, "mortal", req.ID, models.ClaimApproved)
	require.ErrorIs(t, err, common.ErrNotAdmin)

	stored, getErr := f.repos.Claims(f.db).GetByID(ctx, req.ID)
	require.NoError(t, getErr)
	assert.Equal(t, models.ClaimPending, stored.Status)
}

func TestReview_AlreadyDecidedClaim(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.seedUser(t, "admin", true, "")
	f.seedUser(t, "u1", false, "")
	f.seedOrphan(t, "r1", "")

	req, err := f.svc.Submit(ctx, "u1", []string{"r1"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Review(ctx, "admin", req.ID, models.ClaimRejected))

	err = f.svc.Review(ctx, "admin", req.ID, models.ClaimApproved)
	require.ErrorIs(t, err, common.ErrClaimAlreadyDecided)

	assert.Nil(t, f.owner(t, "r1"))
}

func TestReview_InvalidDecision(t *testing.T) {
	f := setup(t)

	err := f.svc.Review(context.Background(), "admin", "whatever", models.ClaimPending)
	require.Error(t, err)
}

func TestReview_ApprovalIsAtomic(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.seedUser(t, "admin", true, "")
	f.seedUser(t, "u1", false, "tok-u1")
	f.seedCampaign(t, "c1")
	f.seedOrphan(t, "r1", "c1")
	f.seedOrphan(t, "r2", "c1")

	req, err := f.svc.Submit(ctx, "u1", []string{"r1", "r2"})
	require.NoError(t, err)

	// one of the claimed records vanishes before review
	_, err = f.db.Exec(`DELETE FROM sowing_logs WHERE id = $1`, "r2")
	require.NoError(t, err)

	err = f.svc.Review(ctx, "admin", req.ID, models.ClaimApproved)
	require.Error(t, err)

	// the transaction rolled back: nothing was applied
	assert.Nil(t, f.owner(t, "r1"))
	assert.Empty(t, f.participants(t, "c1"))

	stored, getErr := f.repos.Claims(f.db).GetByID(ctx, req.ID)
	require.NoError(t, getErr)
	assert.Equal(t, models.ClaimPending, stored.Status)
	assert.Empty(t, f.notifier.sent)
}

func TestReview_LegacyClaimGetsCampaignsRederived(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.seedUser(t, "admin", true, "")
	f.seedUser(t, "u1", false, "")
	f.seedCampaign(t, "c1")
	f.seedOrphan(t, "r1", "c1")

	// legacy request written before campaign tracking existed
	legacy := &models.ClaimRequest{
		ID:        "legacy-1",
		UserID:    "u1",
		LogIDs:    []string{"r1"},
		Status:    models.ClaimPending,
		CreatedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.repos.Claims(f.db).Create(ctx, legacy))

	require.NoError(t, f.svc.Review(ctx, "admin", "legacy-1", models.ClaimApproved))

	assert.Equal(t, []string{"u1"}, f.participants(t, "c1"))

	stored, err := f.repos.Claims(f.db).GetByID(ctx, "legacy-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, stored.CampaignIDs)
}

func TestReview_NotificationFailureDoesNotAffectDecision(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.seedUser(t, "admin", true, "")
	f.seedUser(t, "u1", false, "tok-u1")
	f.seedOrphan(t, "r1", "")
	f.notifier.err = errors.New("push gateway down")

	req, err := f.svc.Submit(ctx, "u1", []string{"r1"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Review(ctx, "admin", req.ID, models.ClaimApproved))

	owner := f.owner(t, "r1")
	require.NotNil(t, owner)
	assert.Equal(t, "u1", *owner)
}

func TestReview_NoTokenMeansNoNotification(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.seedUser(t, "admin", true, "")
	f.seedUser(t, "u1", false, "")
	f.seedOrphan(t, "r1", "")

	req, err := f.svc.Submit(ctx, "u1", []string{"r1"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Review(ctx, "admin", req.ID, models.ClaimApproved))
	assert.Empty(t, f.notifier.sent)
}

func TestListPending(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.seedUser(t, "admin", true, "")
	f.seedUser(t, "u1", false, "")
	f.seedOrphan(t, "r1", "")
	f.seedOrphan(t, "r2", "")

	a, err := f.svc.Submit(ctx, "u1", []string{"r1"})
	require.NoError(t, err)
	b, err := f.svc.Submit(ctx, "u1", []string{"r2"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Review(ctx, "admin", a.ID, models.ClaimRejected))

	pending, err := f.svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, b.ID, pending[0].ID)
}

func TestResyncApprovedClaims(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.seedUser(t, "u1", false, "")
	f.seedCampaign(t, "c1")
	f.seedOrphan(t, "r1", "c1")

	// approved legacy claim with no campaign association
	legacy := &models.ClaimRequest{
		ID:        "legacy-1",
		UserID:    "u1",
		LogIDs:    []string{"r1"},
		Status:    models.ClaimApproved,
		CreatedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, f.repos.Claims(f.db).Create(ctx, legacy))

	fixed, err := f.svc.ResyncApprovedClaims(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fixed)

	assert.Equal(t, []string{"u1"}, f.participants(t, "c1"))

	stored, err := f.repos.Claims(f.db).GetByID(ctx, "legacy-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, stored.CampaignIDs)

	// the sweep is idempotent
	fixed, err = f.svc.ResyncApprovedClaims(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, fixed)
}
