package types

import "fmt"

const (
	DefaultEligibilityDays    = 60
	DefaultAutoArchiveDays    = 7
	DefaultDuplicateCheckDays = 3

	MinEligibilityDays    = 30
	MaxEligibilityDays    = 180
	MinAutoArchiveDays    = 1
	MaxAutoArchiveDays    = 90
	MinDuplicateCheckDays = 1
	MaxDuplicateCheckDays = 30
)

// Settings is the admin-configurable part of the matching rules. It is passed
// around by value so a calculation never sees a half-applied update.
type Settings struct {
	EligibilityDays    int `db:"eligibility_days" json:"eligibilityDays"`
	AutoArchiveDays    int `db:"auto_archive_days" json:"autoArchiveDays"`
	DuplicateCheckDays int `db:"duplicate_check_days" json:"duplicateCheckDays"`
}

func DefaultSettings() Settings {
	return Settings{
		EligibilityDays:    DefaultEligibilityDays,
		AutoArchiveDays:    DefaultAutoArchiveDays,
		DuplicateCheckDays: DefaultDuplicateCheckDays,
	}
}

func (s Settings) Validate() error {
	if s.EligibilityDays < MinEligibilityDays || s.EligibilityDays > MaxEligibilityDays {
		return fmt.Errorf("%w: eligibility days must be between %d and %d", ErrInvalidSettings, MinEligibilityDays, MaxEligibilityDays)
	}
	if s.AutoArchiveDays < MinAutoArchiveDays || s.AutoArchiveDays > MaxAutoArchiveDays {
		return fmt.Errorf("%w: auto archive days must be between %d and %d", ErrInvalidSettings, MinAutoArchiveDays, MaxAutoArchiveDays)
	}
	if s.DuplicateCheckDays < MinDuplicateCheckDays || s.DuplicateCheckDays > MaxDuplicateCheckDays {
		return fmt.Errorf("%w: duplicate check days must be between %d and %d", ErrInvalidSettings, MinDuplicateCheckDays, MaxDuplicateCheckDays)
	}
	return nil
}

type AdminStats struct {
	OpenRequests int64 `json:"openRequests"`
	Donors       int64 `json:"donors"`
	Donations    int64 `json:"donations"`
}
