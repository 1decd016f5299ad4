// Package export строит недельную сетку занятий для каждой аудитории и рисует её в PNG.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/college_scheduler/internal/model"
)

// Границы сетки: получасовые слоты с 08:00 до 16:00
const (
	DayStartMinutes = 8 * 60
	DayEndMinutes   = 16 * 60
	SlotMinutes     = 30
	SlotsPerDay     = (DayEndMinutes - DayStartMinutes) / SlotMinutes
)

// Cell занятия, попадающие в слот
type Cell struct {
	Entries []model.ScheduleEntry
}

func (c Cell) Occupied() bool {
	return len(c.Entries) > 0
}

// Lines текст ячейки: курс, преподаватель, аудитория и интервал для каждого занятия
func (c Cell) Lines() []string {
	lines := make([]string, 0, len(c.Entries)*4)
	for _, e := range c.Entries {
		lines = append(lines, e.Course, e.Teacher, e.Class, e.StartTime+"-"+e.EndTime)
	}
	return lines
}

// Timetable сетка одной аудитории: строки = слоты, колонки = model.Days
type Timetable struct {
	Class string
	Slots []string
	Cells [SlotsPerDay][]Cell
}

// Cell возвращает ячейку по индексу слота и дню
func (t *Timetable) Cell(slot int, day model.Day) Cell {
	for i, d := range model.Days {
		if d == day {
			return t.Cells[slot][i]
		}
	}
	return Cell{}
}

// SlotLabels подписи строк сетки: "08:00", "08:30", ..., "15:30"
func SlotLabels() []string {
	labels := make([]string, 0, SlotsPerDay)
	for m := DayStartMinutes; m < DayEndMinutes; m += SlotMinutes {
		labels = append(labels, formatMinutes(m))
	}
	return labels
}

// BuildTimetables раскладывает строки расписания по аудиториям в порядке их первого появления.
// Слот занят, если start <= слот < end. Занятия с нераспознанным временем или днём пропускаются.
func BuildTimetables(rows []model.ScheduleEntry) []Timetable {
	labels := SlotLabels()
	index := make(map[string]int)
	var tables []Timetable

	for _, row := range rows {
		dayIdx := dayIndex(row.Day)
		start, okStart := parseClock(row.StartTime)
		end, okEnd := parseClock(row.EndTime)
		if dayIdx < 0 || !okStart || !okEnd {
			continue
		}

		ti, ok := index[row.Class]
		if !ok {
			tables = append(tables, newTimetable(row.Class, labels))
			ti = len(tables) - 1
			index[row.Class] = ti
		}

		for slot := 0; slot < SlotsPerDay; slot++ {
			at := DayStartMinutes + slot*SlotMinutes
			if start <= at && at < end {
				cells := tables[ti].Cells[slot]
				cells[dayIdx].Entries = append(cells[dayIdx].Entries, row)
			}
		}
	}
	return tables
}

func newTimetable(class string, labels []string) Timetable {
	t := Timetable{Class: class, Slots: labels}
	for i := range t.Cells {
		t.Cells[i] = make([]Cell, len(model.Days))
	}
	return t
}

func dayIndex(day model.Day) int {
	for i, d := range model.Days {
		if d == day {
			return i
		}
	}
	return -1
}

// parseClock переводит "HH:MM" в минуты от полуночи
func parseClock(s string) (int, bool) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
