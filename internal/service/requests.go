package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yourname/wardwatch/internal"
)

var validate = validator.New()

type DoctorInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type AdmitRequest struct {
	ID            string      `json:"id" validate:"required,max=64"`
	Name          string      `json:"name" validate:"required"`
	Disease       string      `json:"disease"`
	Medicine      string      `json:"medicine"`
	IntervalHours int         `json:"interval_hours" validate:"required,gt=0"`
	Doctor        DoctorInput `json:"doctor"`
}

// VitalsRequest is one manual reading. All three fields must be present;
// a missing field is never read as zero.
type VitalsRequest struct {
	Systolic  *int `json:"systolic" validate:"required,gte=0"`
	Diastolic *int `json:"diastolic" validate:"required,gte=0"`
	Pulse     *int `json:"pulse" validate:"required,gte=0"`
}

func NewVitalsRequest(systolic, diastolic, pulse int) VitalsRequest {
	return VitalsRequest{Systolic: &systolic, Diastolic: &diastolic, Pulse: &pulse}
}

// EditRequest changes only the fields that are set. The id cannot be edited.
type EditRequest struct {
	Name          *string `json:"name,omitempty"`
	Disease       *string `json:"disease,omitempty"`
	Medicine      *string `json:"medicine,omitempty"`
	IntervalHours *int    `json:"interval_hours,omitempty"`
	DoctorName    *string `json:"doctor_name,omitempty"`
	DoctorPhone   *string `json:"doctor_phone,omitempty"`
	DoctorEmail   *string `json:"doctor_email,omitempty"`
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", internal.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func ValidateAdmitRequest(req *AdmitRequest) error {
	req.ID = strings.TrimSpace(req.ID)
	req.Name = strings.TrimSpace(req.Name)
	if err := validate.Struct(req); err != nil {
		return invalid("%v", err)
	}
	if strings.ContainsAny(req.ID, " \t\r\n") {
		return invalid("id %q must not contain whitespace", req.ID)
	}
	return nil
}

func ValidateVitalsRequest(req *VitalsRequest) error {
	var missing []string
	for _, f := range []struct {
		name string
		v    *int
	}{{"systolic", req.Systolic}, {"diastolic", req.Diastolic}, {"pulse", req.Pulse}} {
		if f.v == nil {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return invalid("missing %s", strings.Join(missing, ", "))
	}
	if err := validate.Struct(req); err != nil {
		return invalid("%v", err)
	}
	return nil
}

func ValidateEditRequest(req *EditRequest) error {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return invalid("name cannot be blank")
	}
	if req.IntervalHours != nil && *req.IntervalHours <= 0 {
		return invalid("interval_hours must be a positive integer")
	}
	return nil
}

// ParseVitals converts operator-typed readings. Any non-integer aborts.
func ParseVitals(systolic, diastolic, pulse string) (VitalsRequest, error) {
	var values [3]int
	for i, f := range []struct{ name, raw string }{
		{"systolic", systolic},
		{"diastolic", diastolic},
		{"pulse", pulse},
	} {
		v, err := strconv.Atoi(strings.TrimSpace(f.raw))
		if err != nil {
			return VitalsRequest{}, invalid("%s must be an integer, got %q", f.name, f.raw)
		}
		values[i] = v
	}
	req := NewVitalsRequest(values[0], values[1], values[2])
	return req, ValidateVitalsRequest(&req)
}

func ParseInterval(raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, invalid("interval hours must be an integer, got %q", raw)
	}
	if v <= 0 {
		return 0, invalid("interval hours must be positive, got %d", v)
	}
	return v, nil
}
