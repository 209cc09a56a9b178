package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server    Server
	Database  Database
	Redis     Redis
	Auth      Auth
	Interview Interview
	Providers Providers
}

type Server struct {
	Port string
}
type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Auth holds token secrets and lifetimes. Phase lifetimes are hours-scale;
// retake tokens get their expiry from the interview itself.
type Auth struct {
	ApplicantSecret           string
	InterviewTokenSecret      string
	Phase1ExpiryHours         int
	Phase2ExpiryHours         int
	RetakeExpiryHours         int
	InterviewTokenMaxAgeHours int
}

type Interview struct {
	ExpiryHours              int
	AnswerDurationCapSeconds int
	PerVideoAnalysisSeconds  int
}

// Providers point at the external speech-to-text and scoring services. Either
// left empty switches the corresponding client into mock mode.
type Providers struct {
	TranscriptionURL string
	TranscriptionKey string
	ScoringURL       string
	ScoringKey       string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("PHASE1_TOKEN_EXPIRY_HOURS", 6)
	viper.SetDefault("PHASE2_TOKEN_EXPIRY_HOURS", 24)
	viper.SetDefault("RETAKE_TOKEN_EXPIRY_HOURS", 24)
	viper.SetDefault("INTERVIEW_TOKEN_EXPIRY_HOURS", 48)
	viper.SetDefault("INTERVIEW_EXPIRY_HOURS", 72)
	viper.SetDefault("ANSWER_DURATION_CAP_SECONDS", 120)
	viper.SetDefault("PER_VIDEO_ANALYSIS_SECONDS", 10)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Redis.Addr = viper.GetString("REDIS_ADDR")
	config.Redis.Password = viper.GetString("REDIS_PASSWORD")
	config.Redis.DB = viper.GetInt("REDIS_DB")

	config.Auth.ApplicantSecret = viper.GetString("APPLICANT_SECRET")
	config.Auth.InterviewTokenSecret = viper.GetString("INTERVIEW_TOKEN_SECRET")
	config.Auth.Phase1ExpiryHours = viper.GetInt("PHASE1_TOKEN_EXPIRY_HOURS")
	config.Auth.Phase2ExpiryHours = viper.GetInt("PHASE2_TOKEN_EXPIRY_HOURS")
	config.Auth.RetakeExpiryHours = viper.GetInt("RETAKE_TOKEN_EXPIRY_HOURS")
	config.Auth.InterviewTokenMaxAgeHours = viper.GetInt("INTERVIEW_TOKEN_EXPIRY_HOURS")

	config.Interview.ExpiryHours = viper.GetInt("INTERVIEW_EXPIRY_HOURS")
	config.Interview.AnswerDurationCapSeconds = viper.GetInt("ANSWER_DURATION_CAP_SECONDS")
	config.Interview.PerVideoAnalysisSeconds = viper.GetInt("PER_VIDEO_ANALYSIS_SECONDS")

	config.Providers.TranscriptionURL = viper.GetString("TRANSCRIPTION_API_URL")
	config.Providers.TranscriptionKey = viper.GetString("TRANSCRIPTION_API_KEY")
	config.Providers.ScoringURL = viper.GetString("SCORING_API_URL")
	config.Providers.ScoringKey = viper.GetString("SCORING_API_KEY")

	log.Info().Str("port", config.Server.Port).Str("redis", config.Redis.Addr).Msg("Config loaded")
	return &config, nil
}
