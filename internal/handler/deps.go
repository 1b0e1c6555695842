package handler

import (
	"roomkey/internal/app/admission"
	"roomkey/internal/app/audit"
	"roomkey/internal/app/directory"
	"roomkey/internal/app/issuer"
	"roomkey/internal/configs"
	"roomkey/internal/pkg/metrics"
)

type AppDeps struct {
	Config    *configs.AppConfig
	Issuer    *issuer.Issuer
	Policy    *admission.Policy
	Directory directory.Directory
	Audit     audit.Recorder
	Metrics   *metrics.Metrics
}
