package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StateBackendMemory = "memory"
	StateBackendRedis  = "redis"
)

type Config struct {
	HTTPPort           string
	DatabaseURL        string
	CORSAllowedOrigins []string

	WhatsAppAPIURL        string
	WhatsAppPhoneNumberID string
	WhatsAppAccessToken   string
	WhatsAppVerifyToken   string
	WhatsAppAppSecret     string
	DefaultCountryCode    string

	TriggerEnabled          bool
	TriggerInterval         time.Duration
	TriggerTemplateName     string
	TriggerTemplateLanguage string
	TriggerTemplateParams   []string

	FlowMaxInvalidAttempts int

	StateBackend string
	RedisURL     string
	RabbitMQURL  string

	MailHost      string
	MailPort      int
	MailUser      string
	MailPass      string
	MailFrom      string
	OperatorEmail string

	LogLevel string
	LogFile  string
}

// Load lê o .env (quando existir) e depois as variáveis de ambiente.
func Load(envFiles ...string) (*Config, error) {
	// .env é opcional em produção
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	interval, err := time.ParseDuration(v.GetString("TRIGGER_INTERVAL"))
	if err != nil || interval <= 0 {
		return nil, fmt.Errorf("TRIGGER_INTERVAL inválido: %q", v.GetString("TRIGGER_INTERVAL"))
	}

	backend := strings.ToLower(v.GetString("STATE_BACKEND"))
	if backend != StateBackendMemory && backend != StateBackendRedis {
		return nil, fmt.Errorf("STATE_BACKEND inválido: %q (use memory ou redis)", backend)
	}
	if backend == StateBackendRedis && v.GetString("REDIS_URL") == "" {
		return nil, fmt.Errorf("REDIS_URL é obrigatório com STATE_BACKEND=redis")
	}

	if v.GetInt("FLOW_MAX_INVALID_ATTEMPTS") < 0 {
		return nil, fmt.Errorf("FLOW_MAX_INVALID_ATTEMPTS não pode ser negativo")
	}

	cfg := &Config{
		HTTPPort:           v.GetString("HTTP_PORT"),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),

		WhatsAppAPIURL:        v.GetString("WHATSAPP_API_URL"),
		WhatsAppPhoneNumberID: v.GetString("WHATSAPP_PHONE_NUMBER_ID"),
		WhatsAppAccessToken:   v.GetString("WHATSAPP_ACCESS_TOKEN"),
		WhatsAppVerifyToken:   v.GetString("WHATSAPP_VERIFY_TOKEN"),
		WhatsAppAppSecret:     v.GetString("WHATSAPP_APP_SECRET"),
		DefaultCountryCode:    v.GetString("DEFAULT_COUNTRY_CODE"),

		TriggerEnabled:          v.GetBool("TRIGGER_ENABLED"),
		TriggerInterval:         interval,
		TriggerTemplateName:     v.GetString("TRIGGER_TEMPLATE_NAME"),
		TriggerTemplateLanguage: v.GetString("TRIGGER_TEMPLATE_LANGUAGE"),
		TriggerTemplateParams:   splitList(v.GetString("TRIGGER_TEMPLATE_PARAMS")),

		FlowMaxInvalidAttempts: v.GetInt("FLOW_MAX_INVALID_ATTEMPTS"),

		StateBackend: backend,
		RedisURL:     v.GetString("REDIS_URL"),
		RabbitMQURL:  v.GetString("RABBITMQ_URL"),

		MailHost:      v.GetString("MAIL_HOST"),
		MailPort:      v.GetInt("MAIL_PORT"),
		MailUser:      v.GetString("MAIL_USER"),
		MailPass:      v.GetString("MAIL_PASS"),
		MailFrom:      v.GetString("MAIL_FROM"),
		OperatorEmail: v.GetString("OPERATOR_EMAIL"),

		LogLevel: v.GetString("LOG_LEVEL"),
		LogFile:  v.GetString("LOG_FILE"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL é obrigatório")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("WHATSAPP_API_URL", "https://graph.facebook.com/v21.0")
	v.SetDefault("DEFAULT_COUNTRY_CODE", "91")
	v.SetDefault("TRIGGER_ENABLED", true)
	v.SetDefault("TRIGGER_INTERVAL", "10s")
	v.SetDefault("TRIGGER_TEMPLATE_NAME", "profile_update")
	v.SetDefault("TRIGGER_TEMPLATE_LANGUAGE", "en_US")
	v.SetDefault("FLOW_MAX_INVALID_ATTEMPTS", 0)
	v.SetDefault("STATE_BACKEND", StateBackendMemory)
	v.SetDefault("MAIL_PORT", 587)
	v.SetDefault("MAIL_FROM", "nao-responda@ligue.com")
	v.SetDefault("LOG_LEVEL", "info")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
