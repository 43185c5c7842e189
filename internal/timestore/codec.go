package timestore

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/starford/tempus/internal/calendar"
	"github.com/starford/tempus/internal/checking"
	"github.com/starford/tempus/internal/models"
)

// encodeMonth serialises a month's checkings and non-empty day infos.
func encodeMonth(m *calendar.Month) ([]byte, error) {
	sm := models.StorableMonth{
		Checkings: []models.StorableChecking{},
		DayInfos:  []models.StorableDayInfo{},
	}
	for _, c := range m.Checkings() {
		sm.Checkings = append(sm.Checkings, models.StorableChecking{
			Datetime:  c.Time().UTC().Format(models.DatetimeLayout),
			Direction: int(c.Direction()),
		})
	}

	infos := m.Infos()
	days := make([]int, 0, len(infos))
	for n := range infos {
		days = append(days, n)
	}
	slices.Sort(days)
	for _, n := range days {
		info := infos[n]
		sm.DayInfos = append(sm.DayInfos, models.StorableDayInfo{
			Day:     n,
			Absence: info.Absence,
			Tag:     info.Tag,
		})
	}

	data, err := json.Marshal(sm)
	if err != nil {
		return nil, fmt.Errorf("encode month: %w", err)
	}
	return data, nil
}

// checkingID derives a stable identity for a stored checking so ids survive
// reloads until the checking itself changes. seq tells apart identical
// entries.
func checkingID(sc models.StorableChecking, seq int) uuid.UUID {
	name := fmt.Sprintf("tempus/checking/%s/%d/%d", sc.Datetime, sc.Direction, seq)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name))
}

// decodeMonth parses a stored month. Timestamps are converted to loc.
func decodeMonth(data []byte, loc *time.Location) ([]*checking.Checking, map[int]calendar.DayInfo, error) {
	var sm models.StorableMonth
	if err := json.Unmarshal(data, &sm); err != nil {
		return nil, nil, fmt.Errorf("decode month: %w", err)
	}

	checkings := make([]*checking.Checking, 0, len(sm.Checkings))
	seen := make(map[models.StorableChecking]int, len(sm.Checkings))
	for i, sc := range sm.Checkings {
		t, err := time.Parse(time.RFC3339Nano, sc.Datetime)
		if err != nil {
			return nil, nil, fmt.Errorf("decode checking %d: %w", i, err)
		}
		d := checking.Direction(sc.Direction)
		if !d.Valid() {
			return nil, nil, fmt.Errorf("decode checking %d: invalid direction %d", i, sc.Direction)
		}
		seq := seen[sc]
		seen[sc]++
		checkings = append(checkings, checking.NewWithID(checkingID(sc, seq), t.In(loc), d))
	}

	infos := make(map[int]calendar.DayInfo, len(sm.DayInfos))
	for _, si := range sm.DayInfos {
		info := calendar.DayInfo{Absence: si.Absence, Tag: si.Tag}
		if info.IsZero() {
			continue
		}
		infos[si.Day] = info
	}
	return checkings, infos, nil
}
