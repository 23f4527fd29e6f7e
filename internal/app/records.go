package app

import (
	"math"
	"time"

	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/model"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// reconcileRecords drops any record with the same (userId, date) and puts
// record first.
func reconcileRecords(records []model.TimeRecord, record model.TimeRecord) []model.TimeRecord {
	out := make([]model.TimeRecord, 0, len(records)+1)
	out = append(out, record)
	for _, r := range records {
		if r.UserID == record.UserID && r.Date == record.Date {
			continue
		}
		out = append(out, r)
	}
	return out
}

// UpsertRecord stores a time record locally. Records are never sent to
// the server.
func (s *State) UpsertRecord(record model.TimeRecord) {
	s.mu.Lock()
	s.records = reconcileRecords(s.records, record)
	s.mu.Unlock()
	s.notify()
}

// RecordsFor returns the records of one user, most recently written first.
func (s *State) RecordsFor(userID string) []model.TimeRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.TimeRecord
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}

// Punch records clock-in on the first call of the day and clock-out on the
// second.
func (s *State) Punch() (model.TimeRecord, error) {
	now := s.clk.Now()
	date := now.Format(dateLayout)
	at := now.Format(clockLayout)

	s.mu.Lock()
	user, err := s.currentUserLocked()
	if err != nil {
		s.mu.Unlock()
		return model.TimeRecord{}, err
	}
	record := model.TimeRecord{UserID: user.ID, Date: date, ClockIn: at}
	for _, r := range s.records {
		if r.UserID != user.ID || r.Date != date {
			continue
		}
		if r.ClockOut != "" {
			s.mu.Unlock()
			return r, ErrDayClosed
		}
		record = r
		record.ClockOut = at
		record.Hours = hoursBetween(r.ClockIn, at)
	}
	s.records = reconcileRecords(s.records, record)
	s.mu.Unlock()

	s.notify()
	return record, nil
}

// hoursBetween returns the worked hours rounded to two decimals. A
// clock-out earlier than the clock-in is taken as past midnight.
func hoursBetween(in, out string) float64 {
	start, err := time.Parse(clockLayout, in)
	if err != nil {
		return 0
	}
	end, err := time.Parse(clockLayout, out)
	if err != nil {
		return 0
	}
	d := end.Sub(start)
	if d < 0 {
		d += 24 * time.Hour
	}
	return math.Round(d.Hours()*100) / 100
}

type Summary struct {
	Days     int
	Hours    float64
	Earnings float64
	Currency string
}

// Summary totals the logged-in user's records at their hourly rate.
func (s *State) Summary() (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, err := s.currentUserLocked()
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{Currency: user.Currency}
	for _, r := range s.records {
		if r.UserID != user.ID {
			continue
		}
		sum.Days++
		sum.Hours += r.Hours
	}
	sum.Hours = math.Round(sum.Hours*100) / 100
	sum.Earnings = math.Round(sum.Hours*user.HourlyRate*100) / 100
	return sum, nil
}
