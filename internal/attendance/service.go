// Package attendance keeps the RSVP list of a memorial: admission against a
// soft capacity, waitlist promotion and the admin/public read views.
package attendance

import (
	"context"
	"sync"
	"time"

	"github.com/gdg-garage/memorial-api/internal/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	MessageRegistered = "Your registration has been recorded."
	MessageWaitlisted = "The event is fully booked, but your interest has been registered. You will be notified if a place becomes available."
)

// notifyTimeout bounds a single notification sent after a request returned.
const notifyTimeout = 10 * time.Second

// Notifier is told about new RSVPs and promotions. Failures are logged only.
type Notifier interface {
	NotifyAttendance(ctx context.Context, memorial models.Memorial, record models.Attendance) error
	NotifyPromotions(ctx context.Context, memorial models.Memorial, promoted []models.Attendance) error
}

// SummaryCache stores public summaries between writes. Every Invalidate
// starts a new generation; GetSummary reports the current one on a miss and
// SetSummary only stores an entry that GetSummary will serve while that
// generation is still current. A negative generation means do not store.
type SummaryCache interface {
	GetSummary(ctx context.Context, slug string) (*Summary, int64, bool)
	SetSummary(ctx context.Context, slug string, generation int64, summary Summary)
	Invalidate(ctx context.Context, slug string)
}

type Service struct {
	db              *gorm.DB
	defaultCapacity int
	locks           *memorialLocks
	notifier        Notifier
	cache           SummaryCache
	now             func() time.Time
	pending         sync.WaitGroup
}

type Option func(*Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithCache(c SummaryCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(db *gorm.DB, defaultCapacity int, opts ...Option) *Service {
	s := &Service{
		db:              db,
		defaultCapacity: defaultCapacity,
		locks:           newMemorialLocks(),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Admission is the outcome of a registration.
type Admission struct {
	ID         string
	Waitlisted bool
	Message    string
}

// Register validates an RSVP and stores it as confirmed, or waitlisted when
// its guests would not fit into the remaining capacity.
func (s *Service) Register(ctx context.Context, slug string, in RegistrationInput) (*Admission, error) {
	reg, err := ParseRegistration(in)
	if err != nil {
		return nil, err
	}

	memorial, err := findMemorial(s.db.WithContext(ctx), slug)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(memorial.ID)
	defer unlock()

	record := models.Attendance{
		MemorialID: memorial.ID,
		Name:       reg.Name,
		Email:      reg.Email,
		PlusOne:    *reg.PlusOne,
		Allergies:  reg.Allergies,
		Notes:      reg.Notes,
		CreatedAt:  s.now().UTC(),
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, errors.Wrap(err, "generate attendance id")
	}
	record.ID = id.String()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := lockMemorial(tx, memorial.ID)
		if err != nil {
			return err
		}
		memorial = locked

		confirmed := false
		current, err := listRecords(tx, memorial.ID, &confirmed, oldestFirst)
		if err != nil {
			return err
		}

		record.Waitlisted = ShouldWaitlist(
			ConfirmedTotal(current),
			record.Guests(),
			memorial.EffectiveCapacity(s.defaultCapacity),
		)
		return createRecord(tx, &record)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, slug)
	if s.notifier != nil {
		s.notify(ctx, slug, func(ctx context.Context) error {
			return s.notifier.NotifyAttendance(ctx, memorial, record)
		})
	}

	admission := &Admission{ID: record.ID, Waitlisted: record.Waitlisted, Message: MessageRegistered}
	if record.Waitlisted {
		admission.Message = MessageWaitlisted
	}
	return admission, nil
}

type ReconcileResult struct {
	Promoted  int
	Remaining int
}

// Reconcile promotes waitlisted records first-come-first-served for as long
// as they fit. All promotions of one run commit together.
func (s *Service) Reconcile(ctx context.Context, slug string) (*ReconcileResult, error) {
	memorial, err := findMemorial(s.db.WithContext(ctx), slug)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(memorial.ID)
	defer unlock()

	var (
		result   ReconcileResult
		promoted []models.Attendance
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := lockMemorial(tx, memorial.ID)
		if err != nil {
			return err
		}
		memorial = locked

		all, err := listRecords(tx, memorial.ID, nil, oldestFirst)
		if err != nil {
			return err
		}

		remaining := Remaining(memorial.EffectiveCapacity(s.defaultCapacity), ConfirmedTotal(all))
		if remaining == 0 {
			return nil
		}

		waitlist := make([]models.Attendance, 0, len(all))
		for _, r := range all {
			if r.Waitlisted {
				waitlist = append(waitlist, r)
			}
		}

		planned, left := PlanPromotions(waitlist, remaining)
		for _, r := range planned {
			ok, err := promoteRecord(tx, r.ID)
			if err != nil {
				return err
			}
			if !ok {
				return errors.Errorf("attendance %s changed during reconcile", r.ID)
			}
			r.Waitlisted = false
			promoted = append(promoted, r)
		}

		result.Promoted = len(promoted)
		result.Remaining = left
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Promoted > 0 {
		s.invalidate(ctx, slug)
		log.Info().Str("slug", slug).Int("promoted", result.Promoted).Int("remaining", result.Remaining).Msg("Promoted waitlisted attendance")
		if s.notifier != nil {
			s.notify(ctx, slug, func(ctx context.Context) error {
				return s.notifier.NotifyPromotions(ctx, memorial, promoted)
			})
		}
	}

	return &result, nil
}

// SetCapacity changes or, with nil, clears a memorial's capacity. Lowering
// it never demotes confirmed records.
func (s *Service) SetCapacity(ctx context.Context, slug string, capacity *int) (*models.Memorial, error) {
	if capacity != nil && *capacity < 0 {
		return nil, &ValidationError{Fields: map[string]string{"capacity": "Capacity cannot be negative."}}
	}

	memorial, err := findMemorial(s.db.WithContext(ctx), slug)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(memorial.ID)
	defer unlock()

	if err := s.db.WithContext(ctx).Model(&memorial).Update("capacity", capacity).Error; err != nil {
		return nil, errors.Wrap(err, "update capacity")
	}
	memorial.Capacity = capacity

	s.invalidate(ctx, slug)
	return &memorial, nil
}

// Capacity is the effective capacity of the memorial.
func (s *Service) Capacity(m models.Memorial) int {
	return m.EffectiveCapacity(s.defaultCapacity)
}

func (s *Service) invalidate(ctx context.Context, slug string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, slug)
	}
}

// notify sends in the background so a slow notifier never delays the caller.
func (s *Service) notify(ctx context.Context, slug string, send func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer cancel()
		if err := send(ctx); err != nil {
			log.Warn().Err(err).Str("slug", slug).Msg("Failed to send notification")
		}
	}()
}

// Wait blocks until notifications already started have finished.
func (s *Service) Wait() {
	s.pending.Wait()
}
