package dialog

import (
	"context"

	"github.com/jayrweg/afya-plus/entity"
)

// serviceOption is one selectable leaf inside a service category.
type serviceOption struct {
	number   string
	synonyms []string
	code     string
	name     string
	amount   int // default TZS amount; the config price table overrides it
	channel  entity.Channel
}

var gpServices = []serviceOption{
	{
		number:   "1",
		synonyms: []string{"chat", "kuchati", "gp_chat"},
		code:     "gp_chat",
		name:     "GP Chat",
		amount:   100,
		channel:  entity.ChannelChat,
	},
	{
		number:   "2",
		synonyms: []string{"video", "call", "video call", "whatsapp", "gp_video"},
		code:     "gp_video",
		name:     "GP Video",
		amount:   200,
		channel:  entity.ChannelVideo,
	},
}

var specialistServices = []serviceOption{
	{
		number:   "1",
		synonyms: []string{"chat", "kuchati", "specialist_chat"},
		code:     "spec_chat",
		name:     "Specialist Chat",
		amount:   300,
		channel:  entity.ChannelChat,
	},
	{
		number:   "2",
		synonyms: []string{"video", "call", "video call", "specialist_video"},
		code:     "spec_video",
		name:     "Specialist Video",
		amount:   300,
		channel:  entity.ChannelVideo,
	},
}

var homeDoctorServices = []serviceOption{
	{
		number:  "1",
		code:    "home_quick",
		name:    "Home Doctor - Quick treatment",
		amount:  300,
		channel: entity.ChannelHome,
	},
	{
		number:  "2",
		code:    "home_procedure",
		name:    "Home Doctor - Medical procedure",
		amount:  300,
		channel: entity.ChannelHome,
	},
	{
		number:  "3",
		code:    "home_amd",
		name:    "Home Doctor - AMD",
		amount:  300,
		channel: entity.ChannelHome,
	},
	{
		number:  "4",
		code:    "home_sda",
		name:    "Home Doctor - SDA",
		amount:  300,
		channel: entity.ChannelHome,
	},
}

var workplaceServices = []serviceOption{
	{
		number:  "1",
		code:    "work_pre_employment",
		name:    "Pre-employment medical check",
		amount:  200,
		channel: entity.ChannelWorkplace,
	},
	{
		number:  "2",
		code:    "work_screening",
		name:    "Health screening & vaccination",
		amount:  200,
		channel: entity.ChannelWorkplace,
	},
	{
		number:  "3",
		code:    "work_wellness",
		name:    "Workplace wellness solutions",
		amount:  200,
		channel: entity.ChannelWorkplace,
	},
}

var pharmacyServices = []serviceOption{
	{
		number:   "1",
		synonyms: []string{"shop", "nunua", "endelea", "pharmacy_shop"},
		code:     "pharmacy_shop",
		name:     "Pharmacy",
		amount:   100,
		channel:  entity.ChannelShop,
	},
}

// priceOf resolves the effective amount for a service, preferring the
// configured price table.
func (e *Engine) priceOf(opt serviceOption) int {
	if e.prices != nil {
		if amount, ok := e.prices[opt.code]; ok {
			return amount
		}
	}
	return opt.amount
}

// handleServiceMenu matches the input against the category's options and
// starts a checkout on a hit. A miss re-renders the category menu
// unchanged.
func (e *Engine) handleServiceMenu(ctx context.Context, sess *entity.Session, msg string, options []serviceOption, reRender func(entity.Language) entity.Reply) entity.Reply {
	for _, opt := range options {
		if matchToken(msg, opt.number, opt.synonyms...) {
			return e.createCheckout(ctx, sess, opt)
		}
	}
	return reRender(sess.Language)
}
