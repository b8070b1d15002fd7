// Package registration owns the multi-step sign-up wizard state: profile
// fields, one BusinessEntry per selected country, license number lists, and
// the fail-closed overview/submit flow. The external backend performs the
// actual account creation.
package registration

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefrontgo/internal/upstream"
)

// MaxBusinessEntries caps concurrent country selections. Selecting past the
// cap is rejected explicitly rather than silently ignored.
const MaxBusinessEntries = 12

var (
	ErrCountryLimit      = errors.New("country limit reached")
	ErrDuplicateCountry  = errors.New("country already selected")
	ErrEntryNotFound     = errors.New("business entry not found")
	ErrUnknownLicense    = errors.New("unknown license kind")
	ErrLicenseIndex      = errors.New("license index out of range")
	ErrIncompleteProfile = errors.New("required registration fields missing")
)

// Submitter is the slice of the upstream client the terminal step needs.
type Submitter interface {
	Register(ctx context.Context, sub upstream.RegistrationSubmission) (string, error)
}

type IRegistrationService interface {
	Get(ctx context.Context, sessionID string) (*Wizard, error)
	SetProfile(ctx context.Context, sessionID string, p Profile) (*Wizard, error)
	SelectCountry(ctx context.Context, sessionID, country string) (*BusinessEntry, error)
	RemoveCountry(ctx context.Context, sessionID, country string) (*Wizard, error)
	SetCurrentEntry(ctx context.Context, sessionID, entryID string) error
	SetStates(ctx context.Context, sessionID, entryID string, states []string) error
	AddLicenseField(ctx context.Context, sessionID, entryID string, kind LicenseKind) error
	SetLicense(ctx context.Context, sessionID, entryID string, kind LicenseKind, index int, value string) error
	Overview(ctx context.Context, sessionID string) (*Wizard, error)
	Submit(ctx context.Context, sessionID, password string) (string, error)
	Reset(ctx context.Context, sessionID string) error
}

type registrationService struct {
	store   Store
	backend Submitter
}

func NewRegistrationService(store Store, backend Submitter) IRegistrationService {
	return &registrationService{store: store, backend: backend}
}

func (svc *registrationService) Get(ctx context.Context, sessionID string) (*Wizard, error) {
	return svc.store.Load(ctx, sessionID)
}

func (svc *registrationService) SetProfile(ctx context.Context, sessionID string, p Profile) (*Wizard, error) {
	w, err := svc.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	w.Industries = p.Industries
	w.Professions = p.Professions
	w.Email = p.Email
	w.FullName = p.FullName
	w.BusinessName = p.BusinessName
	if err := svc.store.Save(ctx, sessionID, w); err != nil {
		return nil, err
	}
	return w, nil
}

// SelectCountry adds one BusinessEntry and makes it the current entry.
func (svc *registrationService) SelectCountry(ctx context.Context, sessionID, country string) (*BusinessEntry, error) {
	w, err := svc.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for _, b := range w.Businesses {
		if b.Country == country {
			return nil, ErrDuplicateCountry
		}
	}
	if len(w.Businesses) >= MaxBusinessEntries {
		return nil, ErrCountryLimit
	}

	entry := BusinessEntry{
		ID:      uuid.NewString(),
		Country: country,
		States:  []string{},
		License: LicenseSet{
			Metrc:    []string{""},
			Cannabis: []string{""},
			Business: []string{""},
		},
	}
	w.Businesses = append(w.Businesses, entry)
	w.CurrentEntryID = entry.ID

	if err := svc.store.Save(ctx, sessionID, w); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (svc *registrationService) RemoveCountry(ctx context.Context, sessionID, country string) (*Wizard, error) {
	w, err := svc.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	kept := w.Businesses[:0]
	for _, b := range w.Businesses {
		if b.Country == country {
			if w.CurrentEntryID == b.ID {
				w.CurrentEntryID = ""
			}
			continue
		}
		kept = append(kept, b)
	}
	w.Businesses = kept
	if err := svc.store.Save(ctx, sessionID, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (svc *registrationService) SetCurrentEntry(ctx context.Context, sessionID, entryID string) error {
	return svc.mutateEntry(ctx, sessionID, entryID, func(w *Wizard, e *BusinessEntry) error {
		w.CurrentEntryID = e.ID
		return nil
	})
}

func (svc *registrationService) SetStates(ctx context.Context, sessionID, entryID string, states []string) error {
	return svc.mutateEntry(ctx, sessionID, entryID, func(_ *Wizard, e *BusinessEntry) error {
		e.States = states
		return nil
	})
}

func (svc *registrationService) AddLicenseField(ctx context.Context, sessionID, entryID string, kind LicenseKind) error {
	return svc.mutateEntry(ctx, sessionID, entryID, func(_ *Wizard, e *BusinessEntry) error {
		list, err := licenseList(&e.License, kind)
		if err != nil {
			return err
		}
		*list = append(*list, "")
		return nil
	})
}

func (svc *registrationService) SetLicense(ctx context.Context, sessionID, entryID string, kind LicenseKind, index int, value string) error {
	return svc.mutateEntry(ctx, sessionID, entryID, func(_ *Wizard, e *BusinessEntry) error {
		list, err := licenseList(&e.License, kind)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(*list) {
			return ErrLicenseIndex
		}
		(*list)[index] = value
		return nil
	})
}

// Overview is the fail-closed gate before confirmation: a wizard missing any
// required upstream field is wiped so a partial registration can never reach
// the backend, and the caller is redirected to step one.
func (svc *registrationService) Overview(ctx context.Context, sessionID string) (*Wizard, error) {
	w, err := svc.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !w.Complete() {
		if err := svc.store.Delete(ctx, sessionID); err != nil {
			zap.L().Error("registration.reset", zap.String("session", sessionID), zap.Error(err))
		}
		return nil, ErrIncompleteProfile
	}
	return w, nil
}

// Submit runs the overview gate once more, hands the accumulated state to the
// backend, and clears the session on success.
func (svc *registrationService) Submit(ctx context.Context, sessionID, password string) (string, error) {
	w, err := svc.Overview(ctx, sessionID)
	if err != nil {
		return "", err
	}

	sub := upstream.RegistrationSubmission{
		Email:        w.Email,
		FullName:     w.FullName,
		Password:     password,
		BusinessName: w.BusinessName,
		Industries:   w.Industries,
		Professions:  w.Professions,
	}
	for _, b := range w.Businesses {
		sub.BusinessInfo = append(sub.BusinessInfo, upstream.BusinessSubmission{
			Country:         b.Country,
			States:          b.States,
			MetrcLicense:    b.License.Metrc,
			CannabisLicense: b.License.Cannabis,
			BusinessLicense: b.License.Business,
		})
	}

	msg, err := svc.backend.Register(ctx, sub)
	if err != nil {
		return "", err
	}
	if err := svc.store.Delete(ctx, sessionID); err != nil {
		zap.L().Error("registration.clear", zap.String("session", sessionID), zap.Error(err))
	}
	return msg, nil
}

func (svc *registrationService) Reset(ctx context.Context, sessionID string) error {
	return svc.store.Delete(ctx, sessionID)
}

func (svc *registrationService) mutateEntry(ctx context.Context, sessionID, entryID string,
	fn func(w *Wizard, e *BusinessEntry) error) error {

	w, err := svc.store.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	e := w.entry(entryID)
	if e == nil {
		return ErrEntryNotFound
	}
	if err := fn(w, e); err != nil {
		return err
	}
	return svc.store.Save(ctx, sessionID, w)
}

func licenseList(set *LicenseSet, kind LicenseKind) (*[]string, error) {
	switch kind {
	case LicenseMetrc:
		return &set.Metrc, nil
	case LicenseCannabis:
		return &set.Cannabis, nil
	case LicenseBusiness:
		return &set.Business, nil
	}
	return nil, ErrUnknownLicense
}
