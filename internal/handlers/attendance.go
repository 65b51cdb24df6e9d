package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/memorial-api/internal/attendance"
	"github.com/gdg-garage/memorial-api/internal/models"
)

type AttendanceHandler struct {
	svc *attendance.Service
}

func NewAttendanceHandler(svc *attendance.Service) *AttendanceHandler {
	return &AttendanceHandler{svc: svc}
}

type SlugInput struct {
	Slug string `path:"slug" doc:"Memorial slug"`
}

// PlusOneValue keeps the raw plusOne value and whether the key was sent at
// all, so that an explicit null can be told apart from a missing field.
type PlusOneValue struct {
	Value any
	Set   bool
}

func (p *PlusOneValue) UnmarshalJSON(data []byte) error {
	p.Set = true
	return json.Unmarshal(data, &p.Value)
}

// Schema accepts any JSON value; coercion happens in the attendance package.
func (PlusOneValue) Schema(r huma.Registry) *huma.Schema {
	return &huma.Schema{Description: "Bringing a companion: boolean, or one of true/1/on/yes"}
}

type AttendanceBody struct {
	_         struct{}     `json:"-" additionalProperties:"true"`
	Name      string       `json:"name,omitempty" required:"false" doc:"Full name, at least 2 characters"`
	Email     string       `json:"email,omitempty" required:"false" doc:"Contact email"`
	PlusOne   PlusOneValue `json:"plusOne,omitempty" required:"false"`
	Allergies *string      `json:"allergies,omitempty" required:"false" doc:"Allergies or dietary needs"`
	Notes     *string      `json:"notes,omitempty" required:"false" doc:"Message to the organizers"`
}

// AttendanceRequest takes an optional body; a missing one is validated like {}.
type AttendanceRequest struct {
	SlugInput
	Body *AttendanceBody
}

type AttendanceItem struct {
	ID         string `json:"id"`
	Waitlisted bool   `json:"waitlisted"`
}

type AttendanceResponse struct {
	Body struct {
		OK         bool           `json:"ok"`
		Item       AttendanceItem `json:"item"`
		Waitlisted bool           `json:"waitlisted"`
		Message    string         `json:"message"`
	}
}

func (h *AttendanceHandler) HandleRegister(ctx context.Context, input *AttendanceRequest) (*AttendanceResponse, error) {
	body := input.Body
	if body == nil {
		body = &AttendanceBody{}
	}
	adm, err := h.svc.Register(ctx, input.Slug, attendance.RegistrationInput{
		Name:       body.Name,
		Email:      body.Email,
		PlusOne:    body.PlusOne.Value,
		PlusOneSet: body.PlusOne.Set,
		Allergies:  body.Allergies,
		Notes:      body.Notes,
	})
	if err != nil {
		return nil, serviceError(err, "register attendance")
	}

	res := &AttendanceResponse{}
	res.Body.OK = true
	res.Body.Item = AttendanceItem{ID: adm.ID, Waitlisted: adm.Waitlisted}
	res.Body.Waitlisted = adm.Waitlisted
	res.Body.Message = adm.Message
	return res, nil
}

type AttendanceListResponse struct {
	Body struct {
		OK    bool                `json:"ok"`
		Items []models.Attendance `json:"items"`
	}
}

func (h *AttendanceHandler) HandleList(ctx context.Context, input *SlugInput) (*AttendanceListResponse, error) {
	items, err := h.svc.List(ctx, input.Slug)
	if err != nil {
		return nil, serviceError(err, "list attendance")
	}
	if items == nil {
		items = []models.Attendance{}
	}

	res := &AttendanceListResponse{}
	res.Body.OK = true
	res.Body.Items = items
	return res, nil
}

type AttendanceCSVResponse struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

func (h *AttendanceHandler) HandleExportCSV(ctx context.Context, input *SlugInput) (*AttendanceCSVResponse, error) {
	data, err := h.svc.ExportCSV(ctx, input.Slug)
	if err != nil {
		return nil, serviceError(err, "export attendance")
	}

	return &AttendanceCSVResponse{
		ContentType:        "text/csv; charset=utf-8",
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", input.Slug+"-attendance.csv"),
		Body:               data,
	}, nil
}

type ReconcileResponse struct {
	Body struct {
		OK        bool `json:"ok"`
		Promoted  int  `json:"promoted"`
		Remaining int  `json:"remaining"`
	}
}

func (h *AttendanceHandler) HandleReconcile(ctx context.Context, input *SlugInput) (*ReconcileResponse, error) {
	result, err := h.svc.Reconcile(ctx, input.Slug)
	if err != nil {
		return nil, serviceError(err, "reconcile attendance")
	}

	res := &ReconcileResponse{}
	res.Body.OK = true
	res.Body.Promoted = result.Promoted
	res.Body.Remaining = result.Remaining
	return res, nil
}

type SummaryResponse struct {
	Body struct {
		OK bool `json:"ok"`
		attendance.Summary
	}
}

func (h *AttendanceHandler) HandleSummary(ctx context.Context, input *SlugInput) (*SummaryResponse, error) {
	sum, err := h.svc.Summary(ctx, input.Slug)
	if err != nil {
		return nil, serviceError(err, "attendance summary")
	}

	res := &SummaryResponse{}
	res.Body.OK = true
	res.Body.Summary = sum
	return res, nil
}
