package logger

import (
	"go-civic/internal/config"
	"go-civic/internal/database"

	"go.uber.org/zap"
)

// NewLogger builds the zap logger and tees every entry into the Mongo log sink.
func NewLogger(cfg *config.Config, db *database.MongodbDB) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	// Enable Caller so the sink records the originating function
	zapConfig.EncoderConfig.FunctionKey = "func"

	baseLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	sink := NewDBLogWriter(db, cfg)
	finalCore := NewDBCore(baseLogger.Core(), sink)

	return zap.New(finalCore, zap.AddCaller()), nil
}
