package pitchdecks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"startupconnect/pkg/apperr"
	"startupconnect/pkg/policy"
	"startupconnect/pkg/profiles"
)

var (
	ErrPitchDeckNotFound = apperr.New(apperr.NotFound, "PITCH_DECK_NOT_FOUND", "pitch deck not found")
	ErrFileMissing       = apperr.New(apperr.NotFound, "PITCH_DECK_FILE_MISSING", "pitch deck file is missing")
	ErrTitleRequired     = apperr.New(apperr.InvalidInput, "TITLE_REQUIRED", "title is required")
	ErrEmptyFile         = apperr.New(apperr.InvalidInput, "EMPTY_FILE", "file is empty")
	ErrFileTooLarge      = apperr.New(apperr.InvalidRange, "FILE_TOO_LARGE", "file exceeds the upload size limit")
	ErrFileType          = apperr.New(apperr.InvalidInput, "FILE_TYPE_NOT_ALLOWED", "only PDF, PPT or PPTX files are allowed")
	ErrPrivateDeck       = apperr.New(apperr.Forbidden, "PITCH_DECK_PRIVATE", "pitch deck is private")
)

// sniffLen matches the amount mimetype inspects by default.
const sniffLen = 3072

var allowedTypes = []string{
	"application/pdf",
	"application/vnd.ms-powerpoint",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

// StartupLookup resolves startup profiles by id.
type StartupLookup interface {
	GetStartupProfile(ctx context.Context, id int64) (profiles.StartupProfile, error)
}

type PitchDeckService interface {
	Upload(ctx context.Context, actor policy.Actor, startupID int64, in UploadInput, r io.Reader) (PitchDeck, error)
	ListByStartup(ctx context.Context, actor policy.Actor, startupID int64) ([]PitchDeck, error)
	Get(ctx context.Context, actor policy.Actor, id int64) (PitchDeck, error)
	Open(ctx context.Context, actor policy.Actor, id int64) (PitchDeck, io.ReadCloser, error)
	Update(ctx context.Context, actor policy.Actor, id int64, in UpdateInput) (PitchDeck, error)
	Delete(ctx context.Context, actor policy.Actor, id int64) error
}

type pitchDeckService struct {
	repo     PitchDeckRepository
	files    FileStore
	startups StartupLookup
	maxBytes int64
	logger   *log.Logger
}

func NewPitchDeckService(repo PitchDeckRepository, files FileStore, startups StartupLookup, maxBytes int64) PitchDeckService {
	return &pitchDeckService{
		repo:     repo,
		files:    files,
		startups: startups,
		maxBytes: maxBytes,
		logger:   log.New(log.Writer(), "[pitchdecks] ", log.LstdFlags),
	}
}

func canManage(actor policy.Actor, startup profiles.StartupProfile) bool {
	return actor.Authenticated() && (actor.IsAdmin() || actor.UserID == startup.UserID)
}

func (s *pitchDeckService) authorizeOwner(ctx context.Context, actor policy.Actor, startupID int64) error {
	if !actor.Authenticated() {
		return apperr.ErrUnauthorized
	}
	startup, err := s.startups.GetStartupProfile(ctx, startupID)
	if err != nil {
		return err
	}
	return policy.AuthorizeOwnProfileAccess(actor, startup.UserID)
}

func allowed(m *mimetype.MIME) bool {
	for _, t := range allowedTypes {
		if m.Is(t) {
			return true
		}
	}
	return false
}

// sniff reads the head of r, detects its type and returns a reader that
// replays the head before the rest of the stream.
func sniff(r io.Reader) (*mimetype.MIME, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("read upload: %w", err)
	}
	if n == 0 {
		return nil, nil, ErrEmptyFile
	}
	head = head[:n]
	return mimetype.Detect(head), io.MultiReader(bytes.NewReader(head), r), nil
}

func (s *pitchDeckService) Upload(ctx context.Context, actor policy.Actor, startupID int64, in UploadInput, r io.Reader) (PitchDeck, error) {
	if err := s.authorizeOwner(ctx, actor, startupID); err != nil {
		return PitchDeck{}, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return PitchDeck{}, ErrTitleRequired
	}

	mtype, body, err := sniff(r)
	if err != nil {
		return PitchDeck{}, err
	}
	if !allowed(mtype) {
		return PitchDeck{}, apperr.Wrap(ErrFileType, "detected %s", mtype.String())
	}

	key, size, err := s.files.Save(io.LimitReader(body, s.maxBytes+1), mtype.Extension())
	if err != nil {
		return PitchDeck{}, err
	}
	if size > s.maxBytes {
		s.removeFile(key)
		return PitchDeck{}, ErrFileTooLarge
	}

	deck, err := s.repo.Create(ctx, PitchDeck{
		StartupID:   startupID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		FileName:    in.FileName,
		StorageKey:  key,
		ContentType: mtype.String(),
		FileSize:    size,
		IsPublic:    in.IsPublic,
	})
	if err != nil {
		s.removeFile(key)
		return PitchDeck{}, err
	}
	return deck, nil
}

func (s *pitchDeckService) removeFile(key string) {
	if err := s.files.Remove(key); err != nil {
		s.logger.Printf("remove %s failed: %v", key, err)
	}
}

func (s *pitchDeckService) ListByStartup(ctx context.Context, actor policy.Actor, startupID int64) ([]PitchDeck, error) {
	startup, err := s.startups.GetStartupProfile(ctx, startupID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByStartup(ctx, startupID, !canManage(actor, startup))
}

// visible loads a deck and reports whether the actor manages its startup.
// Private decks are refused to everyone else.
func (s *pitchDeckService) visible(ctx context.Context, actor policy.Actor, id int64) (PitchDeck, bool, error) {
	deck, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return PitchDeck{}, false, err
	}
	startup, err := s.startups.GetStartupProfile(ctx, deck.StartupID)
	if err != nil {
		return PitchDeck{}, false, err
	}
	manager := canManage(actor, startup)
	if !deck.IsPublic && !manager {
		return PitchDeck{}, false, ErrPrivateDeck
	}
	return deck, manager, nil
}

func (s *pitchDeckService) Get(ctx context.Context, actor policy.Actor, id int64) (PitchDeck, error) {
	deck, _, err := s.visible(ctx, actor, id)
	return deck, err
}

func (s *pitchDeckService) Open(ctx context.Context, actor policy.Actor, id int64) (PitchDeck, io.ReadCloser, error) {
	deck, _, err := s.visible(ctx, actor, id)
	if err != nil {
		return PitchDeck{}, nil, err
	}
	rc, err := s.files.Open(deck.StorageKey)
	if err != nil {
		return PitchDeck{}, nil, err
	}
	return deck, rc, nil
}

func (s *pitchDeckService) manage(ctx context.Context, actor policy.Actor, id int64) (PitchDeck, error) {
	if !actor.Authenticated() {
		return PitchDeck{}, apperr.ErrUnauthorized
	}
	deck, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return PitchDeck{}, err
	}
	if err := s.authorizeOwner(ctx, actor, deck.StartupID); err != nil {
		return PitchDeck{}, err
	}
	return deck, nil
}

func (s *pitchDeckService) Update(ctx context.Context, actor policy.Actor, id int64, in UpdateInput) (PitchDeck, error) {
	deck, err := s.manage(ctx, actor, id)
	if err != nil {
		return PitchDeck{}, err
	}
	if in.Title != "" {
		title := strings.TrimSpace(in.Title)
		if title == "" {
			return PitchDeck{}, ErrTitleRequired
		}
		deck.Title = title
	}
	if in.Description != "" {
		deck.Description = strings.TrimSpace(in.Description)
	}
	if in.IsPublic != nil {
		deck.IsPublic = *in.IsPublic
	}
	return s.repo.Update(ctx, deck)
}

func (s *pitchDeckService) Delete(ctx context.Context, actor policy.Actor, id int64) error {
	deck, err := s.manage(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, deck.ID); err != nil {
		return err
	}
	s.removeFile(deck.StorageKey)
	return nil
}
