package attendance

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/gdg-garage/memorial-api/internal/models"
	"github.com/pkg/errors"
)

// Summary is the public head count of a memorial.
type Summary struct {
	TotalConfirmed    int `json:"totalConfirmed"`
	TotalWaitlisted   int `json:"totalWaitlisted"`
	EntriesConfirmed  int `json:"entriesConfirmed"`
	EntriesWaitlisted int `json:"entriesWaitlisted"`
	Capacity          int `json:"capacity"`
}

func Summarize(records []models.Attendance, capacity int) Summary {
	sum := Summary{
		TotalConfirmed:  ConfirmedTotal(records),
		TotalWaitlisted: WaitlistedTotal(records),
		Capacity:        capacity,
	}
	for _, r := range records {
		if r.Waitlisted {
			sum.EntriesWaitlisted++
		} else {
			sum.EntriesConfirmed++
		}
	}
	return sum
}

// List returns every record of the memorial, newest first.
func (s *Service) List(ctx context.Context, slug string) ([]models.Attendance, error) {
	db := s.db.WithContext(ctx)
	memorial, err := findMemorial(db, slug)
	if err != nil {
		return nil, err
	}
	return listRecords(db, memorial.ID, nil, newestFirst)
}

// Summary returns the public head count. With a cache the result is stored
// under the generation seen before reading, so a write that lands meanwhile
// makes the stored entry unreachable instead of stale.
func (s *Service) Summary(ctx context.Context, slug string) (Summary, error) {
	generation := int64(-1)
	if s.cache != nil {
		cached, gen, ok := s.cache.GetSummary(ctx, slug)
		if ok {
			return *cached, nil
		}
		generation = gen
	}

	db := s.db.WithContext(ctx)
	memorial, err := findMemorial(db, slug)
	if err != nil {
		return Summary{}, err
	}
	records, err := listRecords(db, memorial.ID, nil, oldestFirst)
	if err != nil {
		return Summary{}, err
	}

	sum := Summarize(records, memorial.EffectiveCapacity(s.defaultCapacity))
	if s.cache != nil && generation >= 0 {
		s.cache.SetSummary(ctx, slug, generation, sum)
	}
	return sum, nil
}

// ExportCSV renders every record of the memorial, oldest first.
func (s *Service) ExportCSV(ctx context.Context, slug string) ([]byte, error) {
	db := s.db.WithContext(ctx)
	memorial, err := findMemorial(db, slug)
	if err != nil {
		return nil, err
	}
	records, err := listRecords(db, memorial.ID, nil, oldestFirst)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var csvHeader = []string{"name", "email", "plusOne", "guests", "allergies", "notes", "waitlisted", "createdAt"}

const csvTimeLayout = "2006-01-02T15:04:05.000Z"

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ")

// CSVField quotes a value unconditionally, doubling embedded quotes and
// collapsing line breaks to a single space.
func CSVField(v string) string {
	return `"` + strings.ReplaceAll(lineBreaks.Replace(v), `"`, `""`) + `"`
}

// WriteCSV writes the header and one line per record. Lines are separated by
// a single newline with none after the last one.
func WriteCSV(w io.Writer, records []models.Attendance) error {
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(csvHeader, ","))

	for _, r := range records {
		fields := []string{
			r.Name,
			r.Email,
			strconv.FormatBool(r.PlusOne),
			strconv.Itoa(r.Guests()),
			deref(r.Allergies),
			deref(r.Notes),
			strconv.FormatBool(r.Waitlisted),
			r.CreatedAt.UTC().Format(csvTimeLayout),
		}
		for i, f := range fields {
			fields[i] = CSVField(f)
		}
		lines = append(lines, strings.Join(fields, ","))
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return errors.Wrap(err, "write csv")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
