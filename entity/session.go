package entity

// Language is a supported conversation language.
type Language string

const (
	// LangNone means the user has not chosen a language yet.
	LangNone Language = ""
	LangSW   Language = "sw"
	LangEN   Language = "en"
)

// Stage is the current node of the menu state machine.
type Stage string

const (
	StageLanguage     Stage = "language"
	StageMainMenu     Stage = "menu"
	StageGP           Stage = "gp"
	StageSpecialist   Stage = "specialist"
	StageHomeDoctor   Stage = "home_doctor"
	StageWorkplace    Stage = "workplace"
	StagePharmacy     Stage = "pharmacy"
	StageCollectName  Stage = "collect_name"
	StageCollectPhone Stage = "collect_phone"
	StageAwaitPayment Stage = "awaiting_payment"
)

// CollectingOrder reports whether a stage is allowed to carry an active order.
// The session invariant is: ActiveOrder != nil exactly when this returns true.
func (s Stage) CollectingOrder() bool {
	switch s {
	case StageCollectName, StageCollectPhone, StageAwaitPayment:
		return true
	}
	return false
}

// Session is the per-user conversation state, keyed by an opaque id
// (phone number or generated token).
type Session struct {
	ID          string         `json:"id" bson:"id"`
	Language    Language       `json:"language" bson:"language"`
	Stage       Stage          `json:"stage" bson:"stage"`
	ActiveOrder *Order         `json:"active_order,omitempty" bson:"active_order,omitempty"`
	Context     map[string]any `json:"context" bson:"context"`
}

// NewSession creates a fresh session awaiting a language choice.
func NewSession(id string) *Session {
	return &Session{
		ID:      id,
		Stage:   StageLanguage,
		Context: make(map[string]any),
	}
}

// Reset clears language, stage, context and the active order in one step.
// Callers must hold the session lock so a partial reset is never observable.
func (s *Session) Reset() {
	s.Language = LangNone
	s.Stage = StageLanguage
	s.ActiveOrder = nil
	s.Context = make(map[string]any)
}

// GetString retrieves a string value from the session context.
func (s *Session) GetString(key string) string {
	if v, ok := s.Context[key]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

// Set stores a value in the session context.
func (s *Session) Set(key string, value any) {
	if s.Context == nil {
		s.Context = make(map[string]any)
	}
	s.Context[key] = value
}

// Delete removes a value from the session context.
func (s *Session) Delete(key string) {
	delete(s.Context, key)
}
