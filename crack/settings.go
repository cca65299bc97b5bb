package crack

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/lixenwraith/crackfield/parameter"
)

var (
	// ErrUnknownSetting is returned by UpdateSetting for keys it does not recognize
	ErrUnknownSetting = errors.New("unknown setting")
	// ErrInvalidSetting is returned when a value cannot be converted or fails validation
	ErrInvalidSetting = errors.New("invalid setting")
)

// Setting keys accepted by UpdateSetting
const (
	KeyCrackInterval     = "crackInterval"
	KeyCrackCount        = "crackCount"
	KeyInjectionRadius   = "injectionRadius"
	KeyInjectionSpeed    = "injectionSpeed"
	KeyScrollSensitivity = "scrollSensitivity"
)

// Keys lists every recognized setting key
var Keys = []string{
	KeyCrackInterval,
	KeyCrackCount,
	KeyInjectionRadius,
	KeyInjectionSpeed,
	KeyScrollSensitivity,
}

// Settings are the tunable options of a field
type Settings struct {
	CrackInterval     time.Duration // between autonomous-crack attempts
	CrackCount        int           // max simultaneous cracks
	InjectionRadius   float64       // max growth radius of injections
	InjectionSpeed    float64       // radius growth per tick
	ScrollSensitivity float64       // 0..1
}

// DefaultSettings returns the stock tuning
func DefaultSettings() Settings {
	return Settings{
		CrackInterval:     parameter.DefaultCrackInterval,
		CrackCount:        parameter.DefaultCrackCount,
		InjectionRadius:   parameter.DefaultInjectionRadius,
		InjectionSpeed:    parameter.DefaultInjectionSpeed,
		ScrollSensitivity: parameter.DefaultScrollSensitivity,
	}
}

// Validate checks every field against its allowed range
func (s Settings) Validate() error {
	var errs []error
	if s.CrackInterval <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", KeyCrackInterval, s.CrackInterval))
	}
	if s.CrackCount < 1 {
		errs = append(errs, fmt.Errorf("%s must be at least 1, got %d", KeyCrackCount, s.CrackCount))
	}
	if !(s.InjectionRadius > 0) || math.IsInf(s.InjectionRadius, 0) {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", KeyInjectionRadius, s.InjectionRadius))
	}
	if !(s.InjectionSpeed > 0) || math.IsInf(s.InjectionSpeed, 0) {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", KeyInjectionSpeed, s.InjectionSpeed))
	}
	if !(s.ScrollSensitivity >= 0 && s.ScrollSensitivity <= 1) {
		errs = append(errs, fmt.Errorf("%s must be within [0,1], got %v", KeyScrollSensitivity, s.ScrollSensitivity))
	}
	return errors.Join(errs...)
}

// Value returns the current value of a setting key
func (s Settings) Value(key string) (any, bool) {
	switch key {
	case KeyCrackInterval:
		return s.CrackInterval, true
	case KeyCrackCount:
		return s.CrackCount, true
	case KeyInjectionRadius:
		return s.InjectionRadius, true
	case KeyInjectionSpeed:
		return s.InjectionSpeed, true
	case KeyScrollSensitivity:
		return s.ScrollSensitivity, true
	default:
		return nil, false
	}
}

// With returns a copy of s with key set to value
// Numbers for crackInterval are milliseconds, strings may be durations ("2s") or numbers
func (s Settings) With(key string, value any) (Settings, error) {
	switch key {
	case KeyCrackInterval:
		d, err := toDuration(value)
		if err != nil {
			return s, fmt.Errorf("%w: %s: %v", ErrInvalidSetting, key, err)
		}
		s.CrackInterval = d
	case KeyCrackCount:
		n, err := toInt(value)
		if err != nil {
			return s, fmt.Errorf("%w: %s: %v", ErrInvalidSetting, key, err)
		}
		s.CrackCount = n
	case KeyInjectionRadius, KeyInjectionSpeed, KeyScrollSensitivity:
		f, err := toFloat(value)
		if err != nil {
			return s, fmt.Errorf("%w: %s: %v", ErrInvalidSetting, key, err)
		}
		switch key {
		case KeyInjectionRadius:
			s.InjectionRadius = f
		case KeyInjectionSpeed:
			s.InjectionSpeed = f
		default:
			s.ScrollSensitivity = f
		}
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}

	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("%w: %s: %v", ErrInvalidSetting, key, err)
	}
	return s, nil
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", value)
	}
}

func toInt(value any) (int, error) {
	f, err := toFloat(value)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%v is not an integer", value)
	}
	return int(f), nil
}

func toDuration(value any) (time.Duration, error) {
	switch v := value.(type) {
	case time.Duration:
		return v, nil
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d, nil
		}
	}
	ms, err := toFloat(value)
	if err != nil {
		return 0, err
	}
	return time.Duration(ms * float64(time.Millisecond)), nil
}
