package registration

// LicenseKind names one of the three license number lists a business carries.
type LicenseKind string

const (
	LicenseMetrc    LicenseKind = "metrc"
	LicenseCannabis LicenseKind = "cannabis"
	LicenseBusiness LicenseKind = "business"
)

type LicenseSet struct {
	Metrc    []string `json:"metrcLicense"`
	Cannabis []string `json:"cannabisLicense"`
	Business []string `json:"businessLicense"`
}

// BusinessEntry is one country's worth of registration detail. Every entry
// carries a stable ID; callers always address entries by ID, never by list
// position.
type BusinessEntry struct {
	ID      string     `json:"id"`
	Country string     `json:"country"`
	States  []string   `json:"states"`
	License LicenseSet `json:"license"`
}

// Wizard is the state accumulated across registration steps for one session.
// Credentials are deliberately absent; they ride only in the terminal submit
// call.
type Wizard struct {
	Industries   []string `json:"industries"`
	Professions  []string `json:"professions"`
	Email        string   `json:"email"`
	FullName     string   `json:"fullName"`
	BusinessName string   `json:"businessName"`

	Businesses []BusinessEntry `json:"businesses"`

	// CurrentEntryID is the explicit cursor for per-country steps, replacing
	// positional "the last business" inference.
	CurrentEntryID string `json:"currentEntryId"`
}

// Profile carries the wizard fields set before country selection.
type Profile struct {
	Industries   []string
	Professions  []string
	Email        string
	FullName     string
	BusinessName string
}

// Complete reports whether the fields required before the overview step are
// all present.
func (w *Wizard) Complete() bool {
	return w.BusinessName != "" && w.Email != "" && w.FullName != "" && len(w.Professions) > 0
}

func (w *Wizard) entry(id string) *BusinessEntry {
	for i := range w.Businesses {
		if w.Businesses[i].ID == id {
			return &w.Businesses[i]
		}
	}
	return nil
}
