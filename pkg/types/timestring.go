package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	secondsPerMinute = 60
	secondsPerDay    = 24 * 60 * 60
)

var (
	// ErrInvalidTimeFormat возвращается при некорректном формате времени
	ErrInvalidTimeFormat = errors.New("invalid time string format")

	// ErrTimeOverflow возвращается, когда время выходит за пределы суток
	ErrTimeOverflow = errors.New("time string overflows the day")
)

// TimeString время суток без даты (HH:MM или HH:MM:SS)
// Значение 24:00 допустимо только как конец интервала, заканчивающегося в полночь
type TimeString struct {
	seconds int
	set     bool
}

// NewTimeString создает TimeString из времени суток t
func NewTimeString(t time.Time) TimeString {
	return TimeString{
		seconds: t.Hour()*3600 + t.Minute()*60 + t.Second(),
		set:     true,
	}
}

// NewTimeStringFromClock создает TimeString из часов, минут и секунд
func NewTimeStringFromClock(hour, minute, second int) (TimeString, error) {
	ts := TimeString{seconds: hour*3600 + minute*60 + second, set: true}
	if err := ts.Validate(); err != nil {
		return TimeString{}, err
	}
	return ts, nil
}

// NewTimeStringFromString парсит строку формата HH:MM или HH:MM:SS
func NewTimeStringFromString(s string) (TimeString, error) {
	s = strings.TrimSpace(s)

	layouts := []string{"15:04", "15:04:05"}
	for _, layout := range layouts {
		if len(s) != len(layout) {
			continue
		}
		parsed, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return NewTimeString(parsed), nil
	}

	return TimeString{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
}

// MustTimeString парсит строку и паникует при ошибке (для тестов и констант)
func MustTimeString(s string) TimeString {
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return !t.set
}

// Validate проверяет, что время лежит в пределах суток
func (t TimeString) Validate() error {
	if !t.set {
		return fmt.Errorf("%w: empty", ErrInvalidTimeFormat)
	}
	if t.seconds < 0 || t.seconds >= secondsPerDay {
		return fmt.Errorf("%w: %d seconds", ErrInvalidTimeFormat, t.seconds)
	}
	return nil
}

// Seconds возвращает количество секунд от начала суток
func (t TimeString) Seconds() int {
	return t.seconds
}

// Minutes возвращает количество полных минут от начала суток
func (t TimeString) Minutes() int {
	return t.seconds / secondsPerMinute
}

// AddMinutes возвращает время, сдвинутое на minutes минут
// Результат не может выйти за 24:00
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	result := t.seconds + minutes*secondsPerMinute
	if result < 0 || result > secondsPerDay {
		return TimeString{}, fmt.Errorf("%w: %s + %d min", ErrTimeOverflow, t.String(), minutes)
	}
	return TimeString{seconds: result, set: true}, nil
}

// IsBefore возвращает true, если t раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.seconds < other.seconds
}

// IsAfter возвращает true, если t позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.seconds > other.seconds
}

// Equal возвращает true, если время совпадает
func (t TimeString) Equal(other TimeString) bool {
	return t.seconds == other.seconds && t.set == other.set
}

// On возвращает момент времени для даты date в локации loc.
// Время собирается по настенным часам, поэтому в день перевода часов не сдвигается.
// 24:00 нормализуется time.Date в полночь следующего дня.
func (t TimeString) On(date time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := date.Date()
	h, mi, s := t.seconds/3600, (t.seconds%3600)/60, t.seconds%60
	return time.Date(y, m, d, h, mi, s, 0, loc)
}

// String возвращает HH:MM, либо HH:MM:SS если секунды ненулевые
func (t TimeString) String() string {
	if !t.set {
		return ""
	}
	h := t.seconds / 3600
	m := (t.seconds % 3600) / 60
	s := t.seconds % 60
	if s != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// Value реализует driver.Valuer для колонок TIME
func (t TimeString) Value() (driver.Value, error) {
	if !t.set {
		return nil, nil
	}
	h := t.seconds / 3600
	m := (t.seconds % 3600) / 60
	s := t.seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s), nil
}

// Scan реализует sql.Scanner для колонок TIME
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = TimeString{}
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeFormat, src)
	}
}

func (t *TimeString) scanString(s string) error {
	// Postgres может вернуть дробные секунды: 14:00:00.000000
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		s = s[:idx]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON сериализует время как строку
func (t TimeString) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON парсит время из строки
func (t *TimeString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = TimeString{}
		return nil
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
