package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"sync"
)

type Config struct {
	Env    string `yaml:"env" env-default:"local"`
	Listen struct {
		BindIP string `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port   string `yaml:"port" env-default:"8008"`
		ApiKey string `yaml:"key" env:"API_KEY" env-default:""`
	} `yaml:"listen"`
	WhatsApp struct {
		Enabled       bool   `yaml:"enabled" env-default:"false"`
		AccessToken   string `yaml:"access_token" env:"WHATSAPP_ACCESS_TOKEN" env-default:""`
		VerifyToken   string `yaml:"verify_token" env:"WHATSAPP_VERIFY_TOKEN" env-default:""`
		AppSecret     string `yaml:"app_secret" env:"FACEBOOK_APP_SECRET" env-default:""`
		PhoneNumberID string `yaml:"phone_number_id" env:"WHATSAPP_PHONE_NUMBER_ID" env-default:""`
	} `yaml:"whatsapp"`
	Pesapal struct {
		ConsumerKey    string `yaml:"consumer_key" env:"PESAPAL_CONSUMER_KEY" env-default:""`
		ConsumerSecret string `yaml:"consumer_secret" env:"PESAPAL_CONSUMER_SECRET" env-default:""`
		IPNUrl         string `yaml:"ipn_url" env:"PESAPAL_IPN_URL" env-default:""`
		CallbackURL    string `yaml:"callback_url" env-default:""`
		BaseURL        string `yaml:"base_url" env-default:"https://cybqa.pesapal.com/pesapalv3"`
		TimeoutSec     int    `yaml:"timeout_sec" env-default:"15"`
	} `yaml:"pesapal"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:""`
		Password string `yaml:"password" env-default:""`
		Database string `yaml:"database" env-default:"afyaplus"`
	} `yaml:"mongo"`
	Pricing []ServicePrice `yaml:"pricing"`
}

// ServicePrice overrides the price of a single service in the menu tree.
type ServicePrice struct {
	Code      string `yaml:"code"`
	AmountTZS int    `yaml:"amount_tzs"`
}

// defaultPricing mirrors the historical price table. The amounts are
// configuration data, not business constants: deployments override them
// through the pricing section.
var defaultPricing = map[string]int{
	"gp_chat":             100,
	"gp_video":            200,
	"spec_chat":           300,
	"spec_video":          300,
	"home_quick":          300,
	"home_procedure":      300,
	"home_amd":            300,
	"home_sda":            300,
	"work_pre_employment": 200,
	"work_screening":      200,
	"work_wellness":       200,
	"pharmacy_shop":       100,
}

// PriceTable returns the effective service price table: defaults overlaid
// with any configured overrides.
func (c *Config) PriceTable() map[string]int {
	table := make(map[string]int, len(defaultPricing))
	for code, amount := range defaultPricing {
		table[code] = amount
	}
	for _, p := range c.Pricing {
		if p.Code != "" {
			table[p.Code] = p.AmountTZS
		}
	}
	return table
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}
