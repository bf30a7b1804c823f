package entity

// Action is a render intent for rich transports. Instead of a text body the
// engine may return one of these closed markers and let the transport render
// platform-specific interactive content (buttons, lists). The set is the
// shared contract between the engine and its transport adapters.
type Action string

const (
	ActionNone            Action = ""
	ActionLanguageChooser Action = "language_chooser"
	ActionMainMenu        Action = "main_menu"
	ActionGPMenu          Action = "gp_menu"
	ActionSpecialistMenu  Action = "specialist_menu"
	ActionHomeDoctorMenu  Action = "home_doctor_menu"
	ActionWorkplaceMenu   Action = "workplace_menu"
	ActionPharmacyMenu    Action = "pharmacy_menu"
)

// Reply is the engine's output for one turn. When Action is ActionNone the
// Text field carries the full user-facing reply; otherwise the transport
// renders the action and Text is the plain-text fallback for transports
// without interactive widgets.
type Reply struct {
	Action Action   `json:"action,omitempty"`
	Lang   Language `json:"lang,omitempty"`
	Text   string   `json:"text"`
}

// TextReply builds a plain-text reply.
func TextReply(lang Language, text string) Reply {
	return Reply{Lang: lang, Text: text}
}
