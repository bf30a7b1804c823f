package dialog

import (
	"strings"

	"github.com/jayrweg/afya-plus/entity"
	"github.com/jayrweg/afya-plus/internal/catalog"
)

// The render helpers build one Reply per screen. In rich mode the reply
// carries the render intent for the transport's interactive widgets; the
// Text field always holds the plain-text fallback.

func (e *Engine) renderLanguageChooser() entity.Reply {
	text := strings.Join([]string{
		"Afyabot (Afya+)",
		catalog.T(entity.LangSW, catalog.KeyGreeting),
		catalog.T(entity.LangSW, catalog.KeyChooseLanguage),
	}, "\n")
	return e.screen(entity.ActionLanguageChooser, entity.LangSW, text)
}

func (e *Engine) renderMainMenu(lang entity.Language) entity.Reply {
	text := strings.Join([]string{
		catalog.T(lang, catalog.KeyMainMenu),
		catalog.T(lang, catalog.KeyDisclaimer),
	}, "\n\n")
	return e.screen(entity.ActionMainMenu, lang, text)
}

func (e *Engine) renderGPMenu(lang entity.Language) entity.Reply {
	text := strings.Join([]string{
		catalog.T(lang, catalog.KeyGPInfo),
		catalog.T(lang, catalog.KeyGPChannel),
	}, "\n\n")
	return e.screen(entity.ActionGPMenu, lang, text)
}

func (e *Engine) renderSpecialistMenu(lang entity.Language) entity.Reply {
	text := strings.Join([]string{
		catalog.T(lang, catalog.KeySpecialistInfo),
		catalog.T(lang, catalog.KeySpecialistChannel),
	}, "\n\n")
	return e.screen(entity.ActionSpecialistMenu, lang, text)
}

func (e *Engine) renderHomeDoctorMenu(lang entity.Language) entity.Reply {
	return e.screen(entity.ActionHomeDoctorMenu, lang, catalog.T(lang, catalog.KeyHomeDoctorMenu))
}

func (e *Engine) renderWorkplaceMenu(lang entity.Language) entity.Reply {
	return e.screen(entity.ActionWorkplaceMenu, lang, catalog.T(lang, catalog.KeyWorkplaceMenu))
}

func (e *Engine) renderPharmacyMenu(lang entity.Language) entity.Reply {
	return e.screen(entity.ActionPharmacyMenu, lang, catalog.T(lang, catalog.KeyPharmacyMenu))
}

func (e *Engine) screen(action entity.Action, lang entity.Language, text string) entity.Reply {
	if e.rich {
		return entity.Reply{Action: action, Lang: lang, Text: text}
	}
	return entity.TextReply(lang, text)
}
