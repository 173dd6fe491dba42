package module

import (
	"codegap/internal/core/moderation"
	"codegap/internal/platform/config"
)

// Options controls moderation behavior
type Options struct {
	// OwnerUserID is the single maintainer identity allowed to ingest,
	// override, and remove. Empty disables every owner operation
	OwnerUserID string
	Thresholds  moderation.Thresholds
}

// FromConfig reads OWNER_USER_ID and MODERATION_* values from process config
func FromConfig(cfg config.Conf) Options {
	mc := cfg.Prefix("MODERATION_")
	return Options{
		OwnerUserID: cfg.MayString("OWNER_USER_ID", ""),
		Thresholds: moderation.Thresholds{
			Confirm:       mc.MayInt("CONFIRM_THRESHOLD", 3),
			Implementable: mc.MayInt("IMPLEMENTABLE_THRESHOLD", 3),
		},
	}
}
