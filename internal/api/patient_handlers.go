package api

import (
	"github.com/gin-gonic/gin"
	"github.com/yourname/wardwatch/internal/service"
)

func ListPatients(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		patients, err := app.Patients().List(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, StatusFor(err), "Failed to list patients")
			return
		}
		HandleSuccess(c, app.Logger(), patients, map[string]any{"count": len(patients)})
	}
}

func AdmitPatient(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body service.AdmitRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		p, err := app.Patients().Admit(c.Request.Context(), body)
		if err != nil {
			HandleError(c, app.Logger(), err, StatusFor(err), "Failed to admit patient")
			return
		}
		HandleCreated(c, app.Logger(), p)
	}
}

func GetPatient(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := app.Patients().Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			HandleError(c, app.Logger(), err, StatusFor(err), "Failed to load patient")
			return
		}
		HandleSuccess(c, app.Logger(), p, nil)
	}
}

func EditPatient(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body service.EditRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		p, err := app.Patients().Edit(c.Request.Context(), c.Param("id"), body)
		if err != nil {
			HandleError(c, app.Logger(), err, StatusFor(err), "Failed to edit patient")
			return
		}
		HandleSuccess(c, app.Logger(), p, nil)
	}
}

func DeletePatient(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := app.Patients().Delete(c.Request.Context(), id); err != nil {
			HandleError(c, app.Logger(), err, StatusFor(err), "Failed to delete patient")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"deleted": id}, nil)
	}
}

func PostVitals(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body service.VitalsRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		p, err := app.Patients().UpdateVitals(c.Request.Context(), c.Param("id"), body)
		if err != nil {
			HandleError(c, app.Logger(), err, StatusFor(err), "Failed to update vitals")
			return
		}
		HandleSuccess(c, app.Logger(), p, nil)
	}
}

func ListAlerts(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		lines, err := app.Patients().Alerts(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err, StatusFor(err), "Failed to read alerts")
			return
		}
		HandleSuccess(c, app.Logger(), lines, map[string]any{"count": len(lines)})
	}
}

func ListVitals(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		history, err := app.Patients().History(c.Request.Context(), c.Param("id"))
		if err != nil {
			HandleError(c, app.Logger(), err, StatusFor(err), "Failed to load vitals history")
			return
		}
		HandleSuccess(c, app.Logger(), history, map[string]any{"count": len(history)})
	}
}
