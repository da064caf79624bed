package api

import (
	"github.com/smileworks/dental-receptionist/internal/appointment"
	"github.com/smileworks/dental-receptionist/internal/directory"
)

type CreateAppointmentRequest struct {
	PatientID string  `json:"patient_id"`
	Reason    string  `json:"reason"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Provider  *string `json:"provider"`
	Status    string  `json:"status"`
}

func (r CreateAppointmentRequest) Validate() map[string]string {
	fields := map[string]string{}
	if r.PatientID == "" {
		fields["patient_id"] = "required"
	}
	if r.Reason == "" {
		fields["reason"] = "required"
	}
	if r.StartTime == "" {
		fields["start_time"] = "required"
	}
	if r.EndTime == "" {
		fields["end_time"] = "required"
	}
	if r.Status != "" && !appointment.Status(r.Status).Valid() {
		fields["status"] = "must be one of scheduled, completed, cancelled, no_show, rescheduled"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (r CreateAppointmentRequest) ToNewAppointment() appointment.NewAppointment {
	return appointment.NewAppointment{
		PatientID: r.PatientID,
		Reason:    r.Reason,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Provider:  r.Provider,
		Status:    appointment.Status(r.Status),
	}
}

type UpdateAppointmentRequest struct {
	Status    *string `json:"status"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

func (r UpdateAppointmentRequest) Validate() map[string]string {
	if r.Status != nil && !appointment.Status(*r.Status).Valid() {
		return map[string]string{"status": "must be one of scheduled, completed, cancelled, no_show, rescheduled"}
	}
	return nil
}

func (r UpdateAppointmentRequest) ToUpdate() appointment.Update {
	var u appointment.Update
	if r.Status != nil {
		status := appointment.Status(*r.Status)
		u.Status = &status
	}
	u.StartTime = r.StartTime
	u.EndTime = r.EndTime
	return u
}

type CreatePatientRequest struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"date_of_birth"`
	Address     *string `json:"address"`
	Notes       *string `json:"notes"`
}

func (r CreatePatientRequest) Validate() map[string]string {
	fields := map[string]string{}
	if r.FirstName == "" {
		fields["first_name"] = "required"
	}
	if r.LastName == "" {
		fields["last_name"] = "required"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (r CreatePatientRequest) ToNewPatient() directory.NewPatient {
	return directory.NewPatient{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		Phone:       r.Phone,
		DateOfBirth: r.DateOfBirth,
		Address:     r.Address,
		Notes:       r.Notes,
	}
}

type CreateFeedbackRequest struct {
	PatientID *string `json:"patient_id"`
	Rating    int     `json:"rating"`
	Comments  *string `json:"comments"`
	VisitDate *string `json:"visit_date"`
}

func (r CreateFeedbackRequest) Validate() map[string]string {
	if r.Rating < 1 || r.Rating > 5 {
		return map[string]string{"rating": "must be between 1 and 5"}
	}
	return nil
}

func (r CreateFeedbackRequest) ToNewFeedback() directory.NewFeedback {
	return directory.NewFeedback{
		PatientID: r.PatientID,
		Rating:    r.Rating,
		Comments:  r.Comments,
		VisitDate: r.VisitDate,
	}
}

type ChatRequest struct {
	Message string `json:"message"`
}

type EstimateRequest struct {
	ProcedureCode string `json:"procedure_code"`
}

type InsuranceCheckRequest struct {
	Provider string  `json:"provider"`
	MemberID string  `json:"member_id"`
	DOB      *string `json:"dob"`
}

type StartCallRequest struct {
	To        string `json:"to"`
	Message   string `json:"message"`
	PatientID string `json:"patient_id"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}
