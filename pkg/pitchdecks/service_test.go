package pitchdecks

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"startupconnect/pkg/apperr"
	"startupconnect/pkg/policy"
	"startupconnect/pkg/profiles"
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

type memoryPitchDeckRepository struct {
	mu        sync.Mutex
	nextID    int64
	decks     map[int64]PitchDeck
	createErr error
}

func newMemoryPitchDeckRepository() *memoryPitchDeckRepository {
	return &memoryPitchDeckRepository{decks: map[int64]PitchDeck{}}
}

func (m *memoryPitchDeckRepository) Create(_ context.Context, d PitchDeck) (PitchDeck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return PitchDeck{}, m.createErr
	}
	m.nextID++
	d.ID = m.nextID
	m.decks[d.ID] = d
	return d, nil
}

func (m *memoryPitchDeckRepository) GetByID(_ context.Context, id int64) (PitchDeck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.decks[id]
	if !ok {
		return PitchDeck{}, ErrPitchDeckNotFound
	}
	return d, nil
}

func (m *memoryPitchDeckRepository) ListByStartup(_ context.Context, startupID int64, publicOnly bool) ([]PitchDeck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []PitchDeck
	for id := int64(1); id <= m.nextID; id++ {
		d, ok := m.decks[id]
		if !ok || d.StartupID != startupID || (publicOnly && !d.IsPublic) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (m *memoryPitchDeckRepository) Update(_ context.Context, d PitchDeck) (PitchDeck, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.decks[d.ID]; !ok {
		return PitchDeck{}, ErrPitchDeckNotFound
	}
	m.decks[d.ID] = d
	return d, nil
}

func (m *memoryPitchDeckRepository) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.decks[id]; !ok {
		return ErrPitchDeckNotFound
	}
	delete(m.decks, id)
	return nil
}

type stubStartups map[int64]profiles.StartupProfile

func (s stubStartups) GetStartupProfile(_ context.Context, id int64) (profiles.StartupProfile, error) {
	p, ok := s[id]
	if !ok {
		return profiles.StartupProfile{}, profiles.ErrStartupNotFound
	}
	return p, nil
}

var (
	founder  = policy.Actor{UserID: 1, Role: policy.RoleStartup}
	investor = policy.Actor{UserID: 3, Role: policy.RoleInvestor}
	admin    = policy.Actor{UserID: 9, Role: policy.RoleAdmin}
)

type fixture struct {
	repo    *memoryPitchDeckRepository
	dir     string
	service PitchDeckService
}

func newFixture(t *testing.T, maxBytes int64) *fixture {
	t.Helper()
	dir := t.TempDir()
	store, err := NewDiskFileStore(dir)
	require.NoError(t, err)
	repo := newMemoryPitchDeckRepository()
	startups := stubStartups{10: {ID: 10, UserID: founder.UserID, StartupName: "Acme"}}
	return &fixture{repo: repo, dir: dir, service: NewPitchDeckService(repo, store, startups, maxBytes)}
}

func (f *fixture) files(t *testing.T) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	return entries
}

func (f *fixture) upload(t *testing.T, title string, public bool) PitchDeck {
	t.Helper()
	deck, err := f.service.Upload(context.Background(), founder, 10,
		UploadInput{Title: title, FileName: "deck.pdf", IsPublic: public}, bytes.NewReader(samplePDF))
	require.NoError(t, err)
	return deck
}

func TestUpload_StoresSniffedFile(t *testing.T) {
	f := newFixture(t, 1<<20)

	deck := f.upload(t, "  Series A  ", true)

	require.Equal(t, "Series A", deck.Title)
	require.Equal(t, "application/pdf", deck.ContentType)
	require.Equal(t, int64(len(samplePDF)), deck.FileSize)
	require.True(t, strings.HasSuffix(deck.StorageKey, ".pdf"))
	require.Len(t, f.files(t), 1)
}

func TestUpload_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		actor policy.Actor
		title string
		body  []byte
		want  error
	}{
		{"anonymous", policy.Actor{}, "Deck", samplePDF, apperr.ErrUnauthorized},
		{"not owner", investor, "Deck", samplePDF, policy.ErrNotProfileOwner},
		{"blank title", founder, "   ", samplePDF, ErrTitleRequired},
		{"empty file", founder, "Deck", nil, ErrEmptyFile},
		{"plain text", founder, "Deck", []byte("just some notes, not a deck"), ErrFileType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 1<<20)
			_, err := f.service.Upload(ctx, tt.actor, 10, UploadInput{Title: tt.title}, bytes.NewReader(tt.body))
			require.ErrorIs(t, err, tt.want)
			require.Empty(t, f.files(t))
		})
	}
}

func TestUpload_AdminMayUploadForAnyStartup(t *testing.T) {
	f := newFixture(t, 1<<20)

	_, err := f.service.Upload(context.Background(), admin, 10, UploadInput{Title: "Deck"}, bytes.NewReader(samplePDF))

	require.NoError(t, err)
}

func TestUpload_TooLargeLeavesNoFile(t *testing.T) {
	f := newFixture(t, 32)

	_, err := f.service.Upload(context.Background(), founder, 10, UploadInput{Title: "Deck"}, bytes.NewReader(samplePDF))

	require.ErrorIs(t, err, ErrFileTooLarge)
	require.Equal(t, apperr.InvalidRange, apperr.KindOf(err))
	require.Empty(t, f.files(t))
}

func TestUpload_RowFailureRemovesFile(t *testing.T) {
	f := newFixture(t, 1<<20)
	f.repo.createErr = errors.New("insert failed")

	_, err := f.service.Upload(context.Background(), founder, 10, UploadInput{Title: "Deck"}, bytes.NewReader(samplePDF))

	require.EqualError(t, err, "insert failed")
	require.Empty(t, f.files(t))
}

func TestListByStartup_Visibility(t *testing.T) {
	f := newFixture(t, 1<<20)
	f.upload(t, "Public", true)
	f.upload(t, "Private", false)
	ctx := context.Background()

	own, err := f.service.ListByStartup(ctx, founder, 10)
	require.NoError(t, err)
	require.Len(t, own, 2)

	all, err := f.service.ListByStartup(ctx, admin, 10)
	require.NoError(t, err)
	require.Len(t, all, 2)

	public, err := f.service.ListByStartup(ctx, investor, 10)
	require.NoError(t, err)
	require.Len(t, public, 1)
	require.Equal(t, "Public", public[0].Title)

	_, err = f.service.ListByStartup(ctx, investor, 99)
	require.ErrorIs(t, err, profiles.ErrStartupNotFound)
}

func TestOpen_PrivateDeckRestricted(t *testing.T) {
	f := newFixture(t, 1<<20)
	private := f.upload(t, "Private", false)
	ctx := context.Background()

	_, _, err := f.service.Open(ctx, investor, private.ID)
	require.ErrorIs(t, err, ErrPrivateDeck)

	_, err = f.service.Get(ctx, investor, private.ID)
	require.ErrorIs(t, err, ErrPrivateDeck)

	deck, rc, err := f.service.Open(ctx, founder, private.ID)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, samplePDF, data)
	require.Equal(t, private.ID, deck.ID)
}

func TestOpen_PublicDeckForInvestor(t *testing.T) {
	f := newFixture(t, 1<<20)
	public := f.upload(t, "Public", true)

	_, rc, err := f.service.Open(context.Background(), investor, public.ID)

	require.NoError(t, err)
	require.NoError(t, rc.Close())
}

func TestUpdate_ChangesMetadataOnly(t *testing.T) {
	f := newFixture(t, 1<<20)
	deck := f.upload(t, "Draft", true)
	hidden := false

	updated, err := f.service.Update(context.Background(), founder, deck.ID,
		UpdateInput{Title: "Final", IsPublic: &hidden})

	require.NoError(t, err)
	require.Equal(t, "Final", updated.Title)
	require.False(t, updated.IsPublic)
	require.Equal(t, deck.StorageKey, updated.StorageKey)

	_, err = f.service.Update(context.Background(), investor, deck.ID, UpdateInput{Title: "Mine"})
	require.ErrorIs(t, err, policy.ErrNotProfileOwner)
}

func TestDelete_RemovesRowThenFile(t *testing.T) {
	f := newFixture(t, 1<<20)
	deck := f.upload(t, "Deck", true)
	ctx := context.Background()

	require.ErrorIs(t, f.service.Delete(ctx, investor, deck.ID), policy.ErrNotProfileOwner)
	require.Len(t, f.files(t), 1)

	require.NoError(t, f.service.Delete(ctx, founder, deck.ID))
	require.Empty(t, f.files(t))

	_, err := f.service.Get(ctx, founder, deck.ID)
	require.ErrorIs(t, err, ErrPitchDeckNotFound)
}
