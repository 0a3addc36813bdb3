package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/kkadvisory/member-portal-service/internal/models"
	"github.com/kkadvisory/member-portal-service/internal/repositories"
)

// ===== IN-MEMORY FAKES FOR SERVICE TESTS =====

type fakeProfileRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Profile

	createErr error
	upsertErr error
	countErr  error

	upsertCalls int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byID: make(map[string]*models.Profile)}
}

func (f *fakeProfileRepo) Create(ctx context.Context, profile *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byID[profile.ID]; ok {
		return repositories.ErrDuplicateKey
	}
	for _, existing := range f.byID {
		if strings.EqualFold(existing.Email, profile.Email) {
			return repositories.ErrDuplicateKey
		}
	}
	f.byID[profile.ID] = profile
	return nil
}

func (f *fakeProfileRepo) Upsert(ctx context.Context, profile *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.upsertCalls++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.byID[profile.ID] = profile
	return nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, profile *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byID[profile.ID]; !ok {
		return repositories.ErrNotFound
	}
	f.byID[profile.ID] = profile
	return nil
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	profile, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return profile, nil
}

func (f *fakeProfileRepo) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, profile := range f.byID {
		if strings.EqualFold(profile.Email, email) {
			return profile, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeProfileRepo) List(ctx context.Context, filters repositories.ProfileFilters) ([]*models.Profile, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var all []*models.Profile
	for _, profile := range f.byID {
		all = append(all, profile)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })

	total := int64(len(all))
	if filters.Offset >= len(all) {
		return nil, total, nil
	}
	all = all[filters.Offset:]
	if filters.Limit > 0 && filters.Limit < len(all) {
		all = all[:filters.Limit]
	}
	return all, total, nil
}

func (f *fakeProfileRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.byID[id]
	return ok, nil
}

func (f *fakeProfileRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, profile := range f.byID {
		if strings.EqualFold(profile.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProfileRepo) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.countErr != nil {
		return 0, f.countErr
	}
	return int64(len(f.byID)), nil
}

type fakeIdentityRepo struct {
	mu      sync.Mutex
	byEmail map[string]*models.Identity

	nextID    string
	inviteErr error

	lastInviteEmail    string
	lastInviteMetadata map[string]any
}

func newFakeIdentityRepo() *fakeIdentityRepo {
	return &fakeIdentityRepo{byEmail: make(map[string]*models.Identity), nextID: "identity-1"}
}

func (f *fakeIdentityRepo) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	identity, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return identity, nil
}

func (f *fakeIdentityRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.byEmail[strings.ToLower(email)]
	return ok, nil
}

func (f *fakeIdentityRepo) InviteByEmail(ctx context.Context, email string, metadata map[string]any) (*models.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastInviteEmail = email
	f.lastInviteMetadata = metadata

	if f.inviteErr != nil {
		return nil, f.inviteErr
	}

	identity := &models.Identity{
		ID:       f.nextID,
		Email:    strings.ToLower(email),
		Metadata: metadata,
	}
	f.byEmail[identity.Email] = identity
	return identity, nil
}

type fakeQuickLinkRepo struct {
	mu     sync.Mutex
	byID   map[uint]*models.QuickLink
	nextID uint
}

func newFakeQuickLinkRepo() *fakeQuickLinkRepo {
	return &fakeQuickLinkRepo{byID: make(map[uint]*models.QuickLink), nextID: 1}
}

func (f *fakeQuickLinkRepo) Create(ctx context.Context, link *models.QuickLink) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	link.ID = f.nextID
	f.nextID++
	f.byID[link.ID] = link
	return nil
}

func (f *fakeQuickLinkRepo) Update(ctx context.Context, link *models.QuickLink) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byID[link.ID]; !ok {
		return repositories.ErrNotFound
	}
	f.byID[link.ID] = link
	return nil
}

func (f *fakeQuickLinkRepo) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byID[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeQuickLinkRepo) GetByID(ctx context.Context, id uint) (*models.QuickLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	link, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return link, nil
}

func (f *fakeQuickLinkRepo) List(ctx context.Context) ([]*models.QuickLink, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var all []*models.QuickLink
	for _, link := range f.byID {
		all = append(all, link)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SortOrder < all[j].SortOrder })
	return all, nil
}

type fakeFeedbackRepo struct {
	mu     sync.Mutex
	items  []*models.Feedback
	nextID uint
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{nextID: 1}
}

func (f *fakeFeedbackRepo) Create(ctx context.Context, feedback *models.Feedback) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	feedback.ID = f.nextID
	f.nextID++
	f.items = append(f.items, feedback)
	return nil
}

func (f *fakeFeedbackRepo) GetByID(ctx context.Context, id uint) (*models.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, item := range f.items {
		if item.ID == id {
			return item, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeFeedbackRepo) List(ctx context.Context, filters repositories.FeedbackFilters) ([]*models.Feedback, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	total := int64(len(f.items))
	items := f.items
	if filters.Offset >= len(items) {
		return nil, total, nil
	}
	items = items[filters.Offset:]
	if filters.Limit > 0 && filters.Limit < len(items) {
		items = items[:filters.Limit]
	}
	return items, total, nil
}

// fakeRepository aggregates the fakes behind the Repository interface.
type fakeRepository struct {
	profile   *fakeProfileRepo
	quickLink *fakeQuickLinkRepo
	feedback  *fakeFeedbackRepo
	identity  *fakeIdentityRepo
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		profile:   newFakeProfileRepo(),
		quickLink: newFakeQuickLinkRepo(),
		feedback:  newFakeFeedbackRepo(),
		identity:  newFakeIdentityRepo(),
	}
}

func (f *fakeRepository) Profile() repositories.ProfileRepository     { return f.profile }
func (f *fakeRepository) QuickLink() repositories.QuickLinkRepository { return f.quickLink }
func (f *fakeRepository) Feedback() repositories.FeedbackRepository   { return f.feedback }
func (f *fakeRepository) Identity() repositories.IdentityRepository   { return f.identity }
func (f *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(f)
}
func (f *fakeRepository) Ping(ctx context.Context) error { return nil }
func (f *fakeRepository) Close() error                   { return nil }
