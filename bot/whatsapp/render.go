package whatsapp

import (
	"github.com/jayrweg/afya-plus/entity"
	"github.com/jayrweg/afya-plus/internal/catalog"
)

// Button is one quick-reply option. WhatsApp allows at most three per
// message; titles are capped at 20 characters by the platform.
type Button struct {
	ID    string
	Title string
}

// ListRow is one row of an interactive list section.
type ListRow struct {
	ID          string
	Title       string
	Description string
}

// ListSection groups rows under a title. At most ten rows per section.
type ListSection struct {
	Title string
	Rows  []ListRow
}

// SendButtons sends an interactive quick-reply message.
func (b *WhatsAppBot) SendButtons(recipientPhone, body string, buttons []Button) error {
	if len(buttons) > 3 {
		buttons = buttons[:3]
	}

	btns := make([]map[string]any, 0, len(buttons))
	for _, btn := range buttons {
		btns = append(btns, map[string]any{
			"type": "reply",
			"reply": map[string]string{
				"id":    btn.ID,
				"title": btn.Title,
			},
		})
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                recipientPhone,
		"type":              "interactive",
		"interactive": map[string]any{
			"type": "button",
			"body": map[string]string{"text": body},
			"action": map[string]any{
				"buttons": btns,
			},
		},
	}
	return b.sendPayload(payload)
}

// SendList sends an interactive list message.
func (b *WhatsAppBot) SendList(recipientPhone, body, buttonText string, sections []ListSection) error {
	secs := make([]map[string]any, 0, len(sections))
	for _, section := range sections {
		rows := section.Rows
		if len(rows) > 10 {
			rows = rows[:10]
		}
		rowObjs := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			rowObjs = append(rowObjs, map[string]string{
				"id":          row.ID,
				"title":       row.Title,
				"description": row.Description,
			})
		}
		secs = append(secs, map[string]any{
			"title": section.Title,
			"rows":  rowObjs,
		})
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                recipientPhone,
		"type":              "interactive",
		"interactive": map[string]any{
			"type": "list",
			"body": map[string]string{"text": body},
			"action": map[string]any{
				"button":   buttonText,
				"sections": secs,
			},
		},
	}
	return b.sendPayload(payload)
}

// SendReply renders an engine reply: plain text when there is no action,
// otherwise the matching interactive widget localized from the catalog.
func (b *WhatsAppBot) SendReply(recipientPhone string, reply entity.Reply) error {
	lang := reply.Lang
	if lang == entity.LangNone {
		lang = entity.LangSW
	}

	switch reply.Action {
	case entity.ActionLanguageChooser:
		return b.SendButtons(recipientPhone, reply.Text, []Button{
			{ID: "1", Title: "Kiswahili"},
			{ID: "2", Title: "English"},
		})

	case entity.ActionMainMenu:
		return b.SendList(recipientPhone, reply.Text, "Afya+", []ListSection{{
			Title: "Afya+",
			Rows: []ListRow{
				{ID: "1", Title: "Daktari jumla (GP)", Description: "Ushauri na matibabu ya kawaida"},
				{ID: "2", Title: "Daktari bingwa", Description: "Huduma maalum za kitaalamu"},
				{ID: "3", Title: "Daktari nyumbani", Description: "Daktari anakuja nyumbani kwako"},
				{ID: "4", Title: "Afya kazini", Description: "Huduma za afya kwa wafanyakazi"},
				{ID: "5", Title: "Pharmacy", Description: "Dawa na vifaa tiba"},
			},
		}})

	case entity.ActionGPMenu:
		return b.SendButtons(recipientPhone, reply.Text, []Button{
			{ID: "1", Title: "Chat (TZS 100)"},
			{ID: "2", Title: "Video (TZS 200)"},
		})

	case entity.ActionSpecialistMenu:
		return b.SendButtons(recipientPhone, reply.Text, []Button{
			{ID: "1", Title: "Chat (TZS 300)"},
			{ID: "2", Title: "Video (TZS 300)"},
		})

	case entity.ActionHomeDoctorMenu:
		return b.SendList(recipientPhone, reply.Text, "Chagua", []ListSection{{
			Title: "Home Doctor",
			Rows: []ListRow{
				{ID: "1", Title: "Matibabu ya haraka", Description: "TZS 300"},
				{ID: "2", Title: "Medical procedure", Description: "TZS 300"},
				{ID: "3", Title: "AMD", Description: "TZS 300"},
				{ID: "4", Title: "SDA", Description: "TZS 300"},
			},
		}})

	case entity.ActionWorkplaceMenu:
		return b.SendList(recipientPhone, reply.Text, "Chagua", []ListSection{{
			Title: "Corporate",
			Rows: []ListRow{
				{ID: "1", Title: "Pre-employment check", Description: "TZS 200"},
				{ID: "2", Title: "Screening & vaccination", Description: "TZS 200"},
				{ID: "3", Title: "Workplace wellness", Description: "TZS 200"},
			},
		}})

	case entity.ActionPharmacyMenu:
		return b.SendButtons(recipientPhone, catalog.T(lang, catalog.KeyPharmacyMenu), []Button{
			{ID: "1", Title: "Endelea / Continue"},
		})
	}

	return b.SendText(recipientPhone, reply.Text)
}
