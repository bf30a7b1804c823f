// Package catalog holds the localized prompt texts for the dialogue.
// The key set is the localization contract shared with the transports:
// greeting and chooser screens, per-service info and channel menus, error
// and fallback texts, and the checkout/payment strings.
package catalog

import "github.com/jayrweg/afya-plus/entity"

// Keys known to the catalog.
const (
	KeyGreeting          = "greeting"
	KeyChooseLanguage    = "choose_language"
	KeyInvalidLanguage   = "invalid_language"
	KeyMainMenu          = "main_menu"
	KeyDisclaimer        = "disclaimer"
	KeyFallback          = "fallback"
	KeyGPInfo            = "gp_info"
	KeyGPChannel         = "gp_channel"
	KeySpecialistInfo    = "specialist_info"
	KeySpecialistChannel = "specialist_channel"
	KeyHomeDoctorMenu    = "home_doctor_menu"
	KeyWorkplaceMenu     = "workplace_menu"
	KeyPharmacyMenu      = "pharmacy_menu"
	KeyCheckoutCreated   = "checkout_created"
	KeyPaidOK            = "paid_ok"
	KeyPaidInvalid       = "paid_invalid"
	KeyRestart           = "restart"
	KeyAskName           = "ask_name"
	KeyAskPhone          = "ask_phone"
	KeyNameTooShort      = "name_too_short"
	KeyInvalidPhone      = "invalid_phone"
	KeyPaymentFailed     = "payment_failed"
)

var texts = map[entity.Language]map[string]string{
	entity.LangSW: {
		KeyGreeting:        "Habari! Karibu Afya+. Chaguo bora kwa afya yako.",
		KeyChooseLanguage:  "Chagua lugha:\n1) Kiswahili\n2) English",
		KeyInvalidLanguage: "Tafadhali chagua lugha sahihi: 1 kwa Kiswahili au 2 kwa English.",
		KeyMainMenu: "Afyaplus inakuletea huduma zifuatazo, chagua:\n" +
			"1) Kuwasiliana na daktari jumla (GP)\n" +
			"2) Kuwasiliana na daktari bingwa (Specialist)\n" +
			"3) Huduma ya daktari nyumbani (Home Doctor)\n" +
			"4) Afya mazingira ya kazi (Corporate)\n" +
			"5) Ushauri/maelekezo ya dawa na vifaa tiba (Pharmacy)\n\n" +
			"Andika namba (1-5) au neno (mfano: gp).",
		KeyDisclaimer: "Kumbuka: Afyabot hatoi utambuzi rasmi wa ugonjwa. Kwa dharura piga simu huduma ya dharura ya eneo lako mara moja.",
		KeyFallback:   "Sijaelewa. Andika 'menu' kurudi kwenye menyu au 'start' kuanza upya.",
		KeyGPInfo: "Afya+ inakuunganisha na daktari kwa ushauri na matibabu papo hapo.\n" +
			"Husaidia magonjwa ya kawaida na sugu kama: chunusi/eczema, mzio, wasiwasi, pumu, maumivu ya mgongo, uzazi wa mpango, mafua/homa/kikohozi, kisukari, UTI n.k.",
		KeyGPChannel:      "Chagua njia ya huduma:\n1) Kuchati kwenye simu (TZS 100)\n2) WhatsApp video call (TZS 200)",
		KeySpecialistInfo: "Afya+ inakuunganisha na daktari bingwa kwa ushauri wa kitaalamu (ngozi, uzazi/wanawake, watoto, moyo/presha/sukari, mifupa, mmeng'enyo n.k.).",
		KeySpecialistChannel: "Chagua njia:\n" +
			"1) Kuchati (TZS 300)\n2) Video call (TZS 300)",
		KeyHomeDoctorMenu: "Huduma ya daktari nyumbani. Chagua:\n" +
			"1) Matibabu ya haraka (TZS 300)\n" +
			"2) Taratibu tiba / Medical procedure (TZS 300)\n" +
			"3) Mwongozo wa matibabu (AMD) (TZS 300)\n" +
			"4) Tathmini ya ulemavu (SDA) (TZS 300)",
		KeyWorkplaceMenu: "Afya mazingira ya kazi. Chagua:\n" +
			"1) Pre-employment medical check (TZS 200)\n" +
			"2) Health screening & vaccination (TZS 200)\n" +
			"3) Workplace wellness solutions (TZS 200)",
		KeyPharmacyMenu:    "Pharmacy: Shop health and wellness (TZS 100).",
		KeyCheckoutCreated: "Ombi lako limeandaliwa. Fuata maelekezo ya malipo hapa chini:",
		KeyPaidOK:          "Asante! Malipo yamepokelewa (demo). Tutafanya hatua ya kufuata.",
		KeyPaidInvalid:     "Siwezi kuthibitisha malipo. Tafadhali andika: paid <token>",
		KeyRestart:         "Sawa. Tuanze upya.",
		KeyAskName:         "Tafadhali andika jina lako kamili:",
		KeyAskPhone:        "Tafadhali andika namba yako ya simu (mfano 0627404843):",
		KeyNameTooShort:    "Jina ni fupi mno. Tafadhali andika jina lako kamili:",
		KeyInvalidPhone:    "Namba ya simu si sahihi. Anza na 255, 0 au +255 (mfano 0627404843):",
		KeyPaymentFailed:   "Samahani, malipo hayakuandaliwa. Tafadhali jaribu tena baadaye.",
	},
	entity.LangEN: {
		KeyGreeting:        "Hello! Welcome to Afya+. The best choice for your health.",
		KeyChooseLanguage:  "Choose language:\n1) Kiswahili\n2) English",
		KeyInvalidLanguage: "Please choose a valid language: 1 for Kiswahili or 2 for English.",
		KeyMainMenu: "Afya+ services (choose):\n" +
			"1) Talk to a General Practitioner (GP)\n" +
			"2) Talk to a Specialist\n" +
			"3) Home Doctor services\n" +
			"4) Corporate/Workplace health solutions\n" +
			"5) Pharmacy guidance & wellness products\n\n" +
			"Type a number (1-5) or a keyword (e.g. gp).",
		KeyDisclaimer: "Note: Afyabot is not a medical diagnosis. In emergencies, contact local emergency services immediately.",
		KeyFallback:   "I didn't understand. Type 'menu' to go back or 'start' to restart.",
		KeyGPInfo: "Afya+ connects you to a doctor for quick advice and treatment.\n" +
			"Common conditions include: acne/rash/eczema, allergies, anxiety, asthma, back pain, birth control, cold/flu/fever/cough, diabetes, UTI and more.",
		KeyGPChannel:      "Choose a channel:\n1) Chat consultation (TZS 100)\n2) WhatsApp video call (TZS 200)",
		KeySpecialistInfo: "Afya+ connects you to specialists for professional advice (dermatology, women's health, pediatrics, heart/BP/diabetes, orthopedics, digestive system and more).",
		KeySpecialistChannel: "Choose a channel:\n" +
			"1) Chat (TZS 300)\n2) Video call (TZS 300)",
		KeyHomeDoctorMenu: "Home Doctor services. Choose:\n" +
			"1) Quick treatment (TZS 300)\n" +
			"2) Medical procedure (TZS 300)\n" +
			"3) Advanced Medical Directives (AMD) (TZS 300)\n" +
			"4) Severe Disability Assessment (SDA) (TZS 300)",
		KeyWorkplaceMenu: "Workplace health solutions. Choose:\n" +
			"1) Pre-employment medical check (TZS 200)\n" +
			"2) Health screening & vaccination (TZS 200)\n" +
			"3) Workplace wellness solutions (TZS 200)",
		KeyPharmacyMenu:    "Pharmacy: Shop health and wellness (TZS 100).",
		KeyCheckoutCreated: "Your request is ready. Follow the payment instructions below:",
		KeyPaidOK:          "Thank you! Payment received (demo). We'll proceed with the next step.",
		KeyPaidInvalid:     "I couldn't verify that payment. Please type: paid <token>",
		KeyRestart:         "Okay. Let's start again.",
		KeyAskName:         "Please enter your full name:",
		KeyAskPhone:        "Please enter your phone number (e.g. 0627404843):",
		KeyNameTooShort:    "That name looks too short. Please enter your full name:",
		KeyInvalidPhone:    "That phone number doesn't look right. Start with 255, 0 or +255 (e.g. 0627404843):",
		KeyPaymentFailed:   "Sorry, we could not prepare your payment. Please try again shortly.",
	},
}

// T looks up the text for (lang, key). A missing entry falls back to the
// English table, then to the key itself. Never fails.
func T(lang entity.Language, key string) string {
	if m, ok := texts[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	if s, ok := texts[entity.LangEN][key]; ok {
		return s
	}
	return key
}
