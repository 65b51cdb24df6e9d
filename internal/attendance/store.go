package attendance

import (
	"sync"

	"github.com/gdg-garage/memorial-api/internal/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrMemorialNotFound = errors.New("memorial not found")

func findMemorial(db *gorm.DB, slug string) (models.Memorial, error) {
	var m models.Memorial
	if err := db.Where("slug = ?", slug).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return m, ErrMemorialNotFound
		}
		return m, errors.Wrapf(err, "find memorial %q", slug)
	}
	return m, nil
}

// lockMemorial re-reads the memorial row under SELECT ... FOR UPDATE so
// concurrent admissions and promotions for one memorial queue up across
// processes. sqlite has no row locks and ignores the clause.
func lockMemorial(tx *gorm.DB, id uint) (models.Memorial, error) {
	var m models.Memorial
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return m, ErrMemorialNotFound
		}
		return m, errors.Wrap(err, "lock memorial")
	}
	return m, nil
}

type listOrder int

const (
	oldestFirst listOrder = iota
	newestFirst
)

// listRecords loads a memorial's records. A nil waitlisted loads all of them.
func listRecords(db *gorm.DB, memorialID uint, waitlisted *bool, order listOrder) ([]models.Attendance, error) {
	q := db.Where("memorial_id = ?", memorialID)
	if waitlisted != nil {
		q = q.Where("waitlisted = ?", *waitlisted)
	}
	if order == newestFirst {
		q = q.Order("created_at desc").Order("id desc")
	} else {
		q = q.Order("created_at asc").Order("id asc")
	}

	var records []models.Attendance
	if err := q.Find(&records).Error; err != nil {
		return nil, errors.Wrap(err, "list attendance")
	}
	return records, nil
}

func createRecord(tx *gorm.DB, record *models.Attendance) error {
	return errors.Wrap(tx.Create(record).Error, "create attendance")
}

// promoteRecord clears the waitlisted flag. The update only matches rows
// that are still waitlisted, so a confirmed record is never touched.
func promoteRecord(tx *gorm.DB, id string) (bool, error) {
	res := tx.Model(&models.Attendance{}).
		Where("id = ? AND waitlisted = ?", id, true).
		Update("waitlisted", false)
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "promote attendance %s", id)
	}
	return res.RowsAffected == 1, nil
}

// memorialLocks serializes read-decide-write sequences per memorial within
// this process.
type memorialLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newMemorialLocks() *memorialLocks {
	return &memorialLocks{locks: make(map[uint]*sync.Mutex)}
}

func (l *memorialLocks) lock(id uint) func() {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
