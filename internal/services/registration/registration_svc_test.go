package registration

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefrontgo/internal/upstream"
)

// memStore keeps wizard state in a map, mirroring the Store contract
// (missing session loads as an empty wizard).
type memStore struct {
	mu      sync.Mutex
	wizards map[string]*Wizard
	deletes int
}

func newMemStore() *memStore { return &memStore{wizards: map[string]*Wizard{}} }

func (m *memStore) Load(_ context.Context, sessionID string) (*Wizard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.wizards[sessionID]; ok {
		cp := *w
		return &cp, nil
	}
	return &Wizard{}, nil
}

func (m *memStore) Save(_ context.Context, sessionID string, w *Wizard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *w
	m.wizards[sessionID] = &cp
	return nil
}

func (m *memStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.wizards, sessionID)
	m.deletes++
	return nil
}

type stubSubmitter struct {
	lastSub upstream.RegistrationSubmission
	msg     string
	err     error
	calls   int
}

func (s *stubSubmitter) Register(_ context.Context, sub upstream.RegistrationSubmission) (string, error) {
	s.calls++
	s.lastSub = sub
	return s.msg, s.err
}

func completeProfile() Profile {
	return Profile{
		Industries:   []string{"CBD/HEMP"},
		Professions:  []string{"Grower"},
		Email:        "owner@example.com",
		FullName:     "Alex Doe",
		BusinessName: "Greenhouse LLC",
	}
}

func TestSelectCountry_AssignsStableIDAndCursor(t *testing.T) {
	svc := NewRegistrationService(newMemStore(), nil)
	ctx := context.Background()

	entry, err := svc.SelectCountry(ctx, "s1", "Portugal")
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "Portugal", entry.Country)

	w, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, entry.ID, w.CurrentEntryID)
	require.Len(t, w.Businesses, 1)
	assert.Equal(t, []string{""}, w.Businesses[0].License.Metrc)
}

func TestSelectCountry_RejectsDuplicates(t *testing.T) {
	svc := NewRegistrationService(newMemStore(), nil)
	ctx := context.Background()

	_, err := svc.SelectCountry(ctx, "s1", "Portugal")
	require.NoError(t, err)
	_, err = svc.SelectCountry(ctx, "s1", "Portugal")
	assert.ErrorIs(t, err, ErrDuplicateCountry)
}

func TestSelectCountry_ThirteenthIsRejectedExplicitly(t *testing.T) {
	svc := NewRegistrationService(newMemStore(), nil)
	ctx := context.Background()

	for i := 0; i < MaxBusinessEntries; i++ {
		_, err := svc.SelectCountry(ctx, "s1", fmt.Sprintf("Country-%d", i))
		require.NoError(t, err)
	}

	_, err := svc.SelectCountry(ctx, "s1", "Country-13")
	assert.ErrorIs(t, err, ErrCountryLimit)

	w, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, w.Businesses, MaxBusinessEntries, "the cap must not grow and nothing may be evicted")
	assert.Equal(t, "Country-0", w.Businesses[0].Country)
}

func TestRemoveCountry_ClearsCursorWhenCurrentRemoved(t *testing.T) {
	svc := NewRegistrationService(newMemStore(), nil)
	ctx := context.Background()

	_, err := svc.SelectCountry(ctx, "s1", "Portugal")
	require.NoError(t, err)
	entry, err := svc.SelectCountry(ctx, "s1", "Spain")
	require.NoError(t, err)

	w, err := svc.RemoveCountry(ctx, "s1", "Spain")
	require.NoError(t, err)
	require.Len(t, w.Businesses, 1)
	assert.Equal(t, "Portugal", w.Businesses[0].Country)
	assert.Empty(t, w.CurrentEntryID, "cursor pointed at the removed entry")
	assert.NotEqual(t, entry.ID, w.CurrentEntryID)
}

func TestLicenseMutationsTargetEntryByID(t *testing.T) {
	svc := NewRegistrationService(newMemStore(), nil)
	ctx := context.Background()

	first, err := svc.SelectCountry(ctx, "s1", "Portugal")
	require.NoError(t, err)
	second, err := svc.SelectCountry(ctx, "s1", "Spain")
	require.NoError(t, err)

	// Mutating the first entry while the cursor sits on the second must not
	// touch the second (the old last-element bug).
	require.NoError(t, svc.AddLicenseField(ctx, "s1", first.ID, LicenseCannabis))
	require.NoError(t, svc.SetLicense(ctx, "s1", first.ID, LicenseCannabis, 1, "CAN-42"))

	w, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"", "CAN-42"}, w.entry(first.ID).License.Cannabis)
	assert.Equal(t, []string{""}, w.entry(second.ID).License.Cannabis)
}

func TestSetLicense_BoundsAndKindChecked(t *testing.T) {
	svc := NewRegistrationService(newMemStore(), nil)
	ctx := context.Background()

	entry, err := svc.SelectCountry(ctx, "s1", "Portugal")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.SetLicense(ctx, "s1", entry.ID, LicenseMetrc, 5, "x"), ErrLicenseIndex)
	assert.ErrorIs(t, svc.SetLicense(ctx, "s1", entry.ID, LicenseMetrc, -1, "x"), ErrLicenseIndex)
	assert.ErrorIs(t, svc.SetLicense(ctx, "s1", entry.ID, LicenseKind("bogus"), 0, "x"), ErrUnknownLicense)
	assert.ErrorIs(t, svc.SetLicense(ctx, "s1", "missing-id", LicenseMetrc, 0, "x"), ErrEntryNotFound)
}

func TestOverview_MissingBusinessNameResetsStateFailClosed(t *testing.T) {
	store := newMemStore()
	svc := NewRegistrationService(store, nil)
	ctx := context.Background()

	p := completeProfile()
	p.BusinessName = ""
	_, err := svc.SetProfile(ctx, "s1", p)
	require.NoError(t, err)
	_, err = svc.SelectCountry(ctx, "s1", "Portugal")
	require.NoError(t, err)

	_, err = svc.Overview(ctx, "s1")
	assert.ErrorIs(t, err, ErrIncompleteProfile)
	assert.Equal(t, 1, store.deletes, "overview must wipe incomplete state")

	w, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, w.Businesses, "accumulated entries must be gone after the reset")
}

func TestOverview_PassesWithCompleteProfile(t *testing.T) {
	svc := NewRegistrationService(newMemStore(), nil)
	ctx := context.Background()

	_, err := svc.SetProfile(ctx, "s1", completeProfile())
	require.NoError(t, err)

	w, err := svc.Overview(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Greenhouse LLC", w.BusinessName)
}

func TestSubmit_ForwardsAccumulatedStateAndClears(t *testing.T) {
	store := newMemStore()
	backend := &stubSubmitter{msg: "Registration successful"}
	svc := NewRegistrationService(store, backend)
	ctx := context.Background()

	_, err := svc.SetProfile(ctx, "s1", completeProfile())
	require.NoError(t, err)
	entry, err := svc.SelectCountry(ctx, "s1", "Portugal")
	require.NoError(t, err)
	require.NoError(t, svc.SetStates(ctx, "s1", entry.ID, []string{"Lisbon"}))
	require.NoError(t, svc.SetLicense(ctx, "s1", entry.ID, LicenseBusiness, 0, "BUS-7"))

	msg, err := svc.Submit(ctx, "s1", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "Registration successful", msg)

	require.Equal(t, 1, backend.calls)
	sub := backend.lastSub
	assert.Equal(t, "hunter2", sub.Password)
	assert.Equal(t, "Greenhouse LLC", sub.BusinessName)
	require.Len(t, sub.BusinessInfo, 1)
	assert.Equal(t, "Portugal", sub.BusinessInfo[0].Country)
	assert.Equal(t, []string{"Lisbon"}, sub.BusinessInfo[0].States)
	assert.Equal(t, []string{"BUS-7"}, sub.BusinessInfo[0].BusinessLicense)

	// Terminal submission clears all wizard state.
	w, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, w.Businesses)
	assert.Empty(t, w.BusinessName)
}

func TestSubmit_BackendFailureKeepsState(t *testing.T) {
	store := newMemStore()
	backend := &stubSubmitter{err: &upstream.APIError{Status: 409, Message: "Email already registered"}}
	svc := NewRegistrationService(store, backend)
	ctx := context.Background()

	_, err := svc.SetProfile(ctx, "s1", completeProfile())
	require.NoError(t, err)

	_, err = svc.Submit(ctx, "s1", "hunter2")
	require.Error(t, err)

	// A failed submit must not wipe the user's progress.
	w, err := svc.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Greenhouse LLC", w.BusinessName)
}
