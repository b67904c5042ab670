package api

import (
	"github.com/yourname/wardwatch/internal"
	"github.com/yourname/wardwatch/internal/service"
)

type App interface {
	Logger() internal.Logger
	Patients() *service.Patients
}
